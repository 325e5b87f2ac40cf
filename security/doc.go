// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package security provides the input checks shared by the memsafe packages.
//
// # Path Validation
//
// ValidatePath rejects empty paths and parent directory references, before and
// after cleaning and after symbolic link resolution. ValidatePathComponent checks
// a single file name that is about to be appended to a directory: it must not
// contain separators, NUL bytes, or be "." or "..".
//
//	if err := security.ValidatePathComponent(name); err != nil {
//	    return fmt.Errorf("invalid file name: %w", err)
//	}
//
// # Format Directives
//
// ContainsFormatDirectives reports whether a string carries printf-style
// conversions such as %s, %08x or %n. It is a detector used for metrics and
// auditing; the logging code never passes caller input as a template, so the
// result has no effect on what is written.
//
// # File Permissions
//
// ValidateFilePermissions returns ErrInsecureFilePermissions for world- or
// group-writable files on Unix. Configuration loaders use it before trusting a
// file's contents.
package security
