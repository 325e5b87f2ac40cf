// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package growbuf provides an owned byte buffer whose resize transfers
// ownership only on success.
//
// Resize reserves any additional bytes before touching the original. If the
// reservation fails the original handle stays valid, owned by the caller and
// unchanged; if it succeeds the original handle is invalidated and every
// further use of it returns ErrInvalidHandle. Shrinking never reserves, so it
// cannot fail for lack of memory.
//
//	grown, err := growbuf.Resize(buf, 4096)
//	if err != nil {
//	    // buf is still valid here
//	    return err
//	}
//	buf = grown
package growbuf

import (
	"errors"
	"fmt"

	"github.com/jongio/memsafe-core/alloc"
	"github.com/jongio/memsafe-core/logutil"
)

// ErrInvalidHandle indicates a buffer that was freed or resized away.
var ErrInvalidHandle = errors.New("growbuf: invalid buffer handle")

var log = logutil.NewLogger("growbuf")

// Buffer is an owned byte region. It is not safe for concurrent use.
type Buffer struct {
	alloc alloc.Allocator
	data  []byte
	valid bool
}

// New reserves size bytes from a (alloc.Default() when nil) and returns a
// zeroed buffer. A refused reservation returns an error wrapping
// alloc.ErrOutOfMemory.
func New(a alloc.Allocator, size uint64) (*Buffer, error) {
	if a == nil {
		a = alloc.Default()
	}
	if _, err := alloc.SizeOf(size, 1); err != nil {
		return nil, err
	}
	if err := alloc.Reserve(a, "buffer", size); err != nil {
		return nil, err
	}
	return &Buffer{alloc: a, data: make([]byte, size), valid: true}, nil
}

// Bytes returns the buffer contents, or nil once the handle is invalid.
func (b *Buffer) Bytes() []byte {
	if !b.valid {
		return nil
	}
	return b.data
}

// Len returns the buffer size, 0 once the handle is invalid.
func (b *Buffer) Len() int {
	if !b.valid {
		return 0
	}
	return len(b.data)
}

// Valid reports whether the handle still owns its storage.
func (b *Buffer) Valid() bool {
	return b != nil && b.valid
}

// Free releases the buffer.
func (b *Buffer) Free() error {
	if !b.Valid() {
		return ErrInvalidHandle
	}
	b.invalidate()
	return nil
}

func (b *Buffer) invalidate() {
	alloc.Release(b.alloc, uint64(len(b.data)))
	b.data = nil
	b.valid = false
}

// Resize returns a buffer of newSize bytes holding the overlapping prefix of
// b. A nil b behaves like New on the default allocator. Growing reserves only
// the additional bytes; shrinking releases the surplus. On success b is
// invalidated; on failure b is returned untouched to the caller's ownership
// and the error wraps alloc.ErrOutOfMemory or alloc.ErrOverflow.
func Resize(b *Buffer, newSize uint64) (*Buffer, error) {
	if b == nil {
		return New(nil, newSize)
	}
	if !b.valid {
		return nil, ErrInvalidHandle
	}

	oldSize := uint64(len(b.data))
	if err := checkSize(newSize); err != nil {
		return nil, resizeError(oldSize, newSize, err)
	}
	if newSize > oldSize {
		if err := alloc.Reserve(b.alloc, "buffer", newSize-oldSize); err != nil {
			return nil, resizeError(oldSize, newSize, err)
		}
	}

	data := make([]byte, newSize)
	copy(data, b.data)
	if newSize < oldSize {
		alloc.Release(b.alloc, oldSize-newSize)
	}
	b.data = nil
	b.valid = false
	return &Buffer{alloc: b.alloc, data: data, valid: true}, nil
}

func checkSize(size uint64) error {
	if _, err := alloc.SizeOf(size, 1); err != nil {
		return err
	}
	if size > alloc.MaxAllocSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte allocation ceiling", alloc.ErrOutOfMemory, size, alloc.MaxAllocSize)
	}
	return nil
}

func resizeError(from, to uint64, err error) error {
	log.Debug("resize refused, original kept", "from", from, "to", to, "error", err)
	return fmt.Errorf("resize %d -> %d bytes: %w", from, to, err)
}
