// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestCaptureOutput(t *testing.T) {
	t.Run("captures stdout", func(t *testing.T) {
		output := CaptureOutput(t, func() error {
			fmt.Println("test output")
			return nil
		})
		if output != "test output\n" {
			t.Errorf("expected %q, got %q", "test output\n", output)
		}
	})

	t.Run("restores stdout on error", func(t *testing.T) {
		orig := os.Stdout
		output := CaptureOutput(t, func() error {
			fmt.Print("before error")
			return errors.New("test error")
		})
		if output != "before error" {
			t.Errorf("expected output before error, got %q", output)
		}
		if os.Stdout != orig {
			t.Error("stdout was not restored")
		}
	})

	t.Run("large output does not block", func(t *testing.T) {
		line := strings.Repeat("x", 1024)
		output := CaptureOutput(t, func() error {
			for i := 0; i < 256; i++ {
				fmt.Println(line)
			}
			return nil
		})
		if len(output) != 256*1025 {
			t.Errorf("expected %d bytes, got %d", 256*1025, len(output))
		}
	})
}

func TestTempDir(t *testing.T) {
	var dir string
	t.Run("creates", func(t *testing.T) {
		dir = TempDir(t)
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("temp dir missing: %v", err)
		}
		if !info.IsDir() {
			t.Fatal("expected a directory")
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0o750 {
			t.Errorf("expected 0750 permissions, got %v", info.Mode().Perm())
		}
	})

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected temp dir to be removed after subtest, got err=%v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := TempDir(t)
	path := WriteFile(t, dir, filepath.Join("nested", "f.yaml"), "a: 1\n", 0o600)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "a: 1\n" {
		t.Errorf("unexpected content %q", data)
	}
	if runtime.GOOS != "windows" {
		info, _ := os.Stat(path)
		if info.Mode().Perm() != 0o600 {
			t.Errorf("expected 0600, got %v", info.Mode().Perm())
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"hello world", "world", true},
		{"hello world", "", true},
		{"hello", "HELLO", false},
		{"", "x", false},
	}
	for _, tt := range tests {
		if got := Contains(tt.s, tt.substr); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}
