// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	// ErrInvalidPath indicates a path contains invalid characters or patterns.
	ErrInvalidPath = errors.New("invalid path")
	// ErrPathTraversal indicates a path traversal attack attempt.
	ErrPathTraversal = errors.New("path traversal detected")
	// ErrInsecureFilePermissions indicates a file is group- or world-writable.
	ErrInsecureFilePermissions = errors.New("insecure file permissions")
)

// ValidatePath checks if a path is safe to use.
// It rejects parent directory references in the raw, cleaned and
// symlink-resolved forms. Paths that do not exist yet are accepted.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("%w: path contains NUL byte", ErrInvalidPath)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("%w: path contains parent directory reference", ErrPathTraversal)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path: %w", ErrInvalidPath, err)
	}
	cleanPath := filepath.Clean(absPath)

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: cannot resolve symbolic links: %w", ErrInvalidPath, err)
		}
		resolvedPath = cleanPath
	}

	for _, p := range []string{cleanPath, resolvedPath} {
		if strings.Contains(p, "..") {
			return fmt.Errorf("%w: resolved path contains parent directory reference", ErrPathTraversal)
		}
	}

	return nil
}

// ValidatePathComponent checks that name is a single file name that can be
// appended to a directory without escaping it.
func ValidatePathComponent(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty file name", ErrInvalidPath)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is a directory reference", ErrPathTraversal, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: file name contains NUL byte", ErrInvalidPath)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: file name contains a path separator", ErrPathTraversal)
	}
	return nil
}

const (
	directiveFlags      = "-+ #0'"
	directiveLength     = "hlLqjzt"
	directiveConversion = "diouxXeEfFgGaAcCsSpnvTqbUw"
)

// ContainsFormatDirectives reports whether s contains a printf-style
// conversion. A literal "%%" is not a directive.
func ContainsFormatDirectives(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		j := i + 1
		if j < len(s) && s[j] == '%' {
			i = j
			continue
		}
		for j < len(s) && strings.IndexByte(directiveFlags, s[j]) >= 0 {
			j++
		}
		for j < len(s) && (isDigit(s[j]) || s[j] == '.' || s[j] == '*' || s[j] == '$') {
			j++
		}
		for j < len(s) && strings.IndexByte(directiveLength, s[j]) >= 0 {
			j++
		}
		if j < len(s) && strings.IndexByte(directiveConversion, s[j]) >= 0 {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ValidateFilePermissions checks if a file has secure permissions.
// On Unix systems a group- or world-writable file returns
// ErrInsecureFilePermissions. Windows uses ACLs, so the check is skipped there.
func ValidateFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if info.Mode().Perm()&0o022 != 0 {
		return ErrInsecureFilePermissions
	}

	return nil
}
