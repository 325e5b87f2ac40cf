// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package alloc

import "errors"

var (
	// ErrOverflow indicates the requested size cannot be represented.
	ErrOverflow = errors.New("alloc: size overflow")

	// ErrOutOfMemory indicates the allocator refused the request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrDoubleFree indicates Free was called on an already released handle.
	ErrDoubleFree = errors.New("alloc: handle already freed")
)
