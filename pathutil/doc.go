// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package pathutil joins a directory and a file name into a fixed-capacity,
// NUL-terminated path buffer.
//
// Join never writes past PathCapacity. If the joined path does not fit, the
// buffer holds as much as fits (PathCapacity-1 bytes plus the terminator) and
// the returned error wraps ErrTruncated, so a shortened path is never mistaken
// for the requested one.
//
//	p, err := pathutil.Join(dir, name)
//	if errors.Is(err, pathutil.ErrTruncated) {
//	    return fmt.Errorf("path too long: %w", err)
//	}
//	open(p.String())
//
// JoinComponent additionally rejects file names that contain separators, NUL
// bytes, or are directory references.
package pathutil
