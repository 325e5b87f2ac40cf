// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CaptureOutput captures stdout while fn runs and returns it.
// The original stdout is restored before returning, even if fn fails; an
// error from fn is logged, not fatal.
//
// Example:
//
//	output := testutil.CaptureOutput(t, func() error {
//	    return logutil.LogMessage("user", "%n")
//	})
func CaptureOutput(t *testing.T, fn func() error) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so a large write cannot block on a full pipe.
	outCh := make(chan string, 1)
	go func() {
		var sb strings.Builder
		_, _ = io.Copy(&sb, r)
		outCh <- sb.String()
	}()

	fnErr := fn()

	if err := w.Close(); err != nil {
		t.Logf("Failed to close pipe writer: %v", err)
	}
	os.Stdout = origStdout
	output := <-outCh
	_ = r.Close()

	if fnErr != nil {
		t.Logf("Function error: %v", fnErr)
	}

	return output
}

// TempDir creates a temporary directory with 0750 permissions that is removed
// when the test completes.
func TempDir(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "memsafe-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.Chmod(tmpDir, 0o750); err != nil {
		t.Fatalf("Failed to chmod temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Logf("Failed to clean up temp directory %s: %v", tmpDir, err)
		}
	})

	return tmpDir
}

// WriteFile writes content to dir/rel, creating parent directories, and
// applies perm explicitly so the process umask does not change it.
// Returns the full path.
func WriteFile(t *testing.T, dir, rel, content string, perm os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("Failed to chmod %s: %v", rel, err)
	}
	return path
}

// Contains checks if a string contains a substring.
func Contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
