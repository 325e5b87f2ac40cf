// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package alloc

import (
	"fmt"
	"unsafe"

	"github.com/jongio/memsafe-core/metrics"
)

// Block owns a contiguous run of T records reserved from an Allocator.
type Block[T any] struct {
	alloc Allocator
	size  uint64
	elems []T
	freed bool
}

// Alloc reserves and zero-initializes count records of T.
func Alloc[T any](a Allocator, count uint64) (*Block[T], error) {
	return allocBlock[T](a, "block", count)
}

func allocBlock[T any](a Allocator, kind string, count uint64) (*Block[T], error) {
	var zero T
	size, err := SizeOf(count, uint64(unsafe.Sizeof(zero)))
	if err != nil {
		metrics.RecordAllocation(kind, metrics.ResultOverflow, 0)
		log.Debug("size overflow", "kind", kind, "count", count)
		return nil, err
	}

	a = resolve(a)
	if err := Reserve(a, kind, size); err != nil {
		return nil, err
	}
	return &Block[T]{alloc: a, size: size, elems: make([]T, count)}, nil
}

// Elems returns the records, or nil once freed.
func (b *Block[T]) Elems() []T {
	return b.elems
}

// Len returns the number of records, 0 once freed.
func (b *Block[T]) Len() int {
	return len(b.elems)
}

// Size returns the reserved size in bytes.
func (b *Block[T]) Size() uint64 {
	return b.size
}

// Freed reports whether the block has been released.
func (b *Block[T]) Freed() bool {
	return b.freed
}

// Free releases the block. Freeing a nil block, or a zero Block that never
// held a reservation, is a no-op.
func (b *Block[T]) Free() error {
	if b == nil || b.alloc == nil {
		return nil
	}
	if b.freed {
		return fmt.Errorf("%w: block of %d bytes", ErrDoubleFree, b.size)
	}
	b.freed = true
	b.elems = nil
	b.alloc.Release(b.size)
	return nil
}

// Handle owns exactly one T reserved from an Allocator.
type Handle[T any] struct {
	alloc Allocator
	value *T
}

// New reserves and zero-initializes one T. The reservation is sized by T
// itself, not by the handle or a pointer.
func New[T any](a Allocator) (*Handle[T], error) {
	return newHandle[T](a, "record")
}

func newHandle[T any](a Allocator, kind string) (*Handle[T], error) {
	var zero T
	a = resolve(a)
	if err := Reserve(a, kind, uint64(unsafe.Sizeof(zero))); err != nil {
		return nil, err
	}
	return &Handle[T]{alloc: a, value: new(T)}, nil
}

// Value returns the record, or nil once freed.
func (h *Handle[T]) Value() *T {
	return h.value
}

// Freed reports whether the handle has been released.
func (h *Handle[T]) Freed() bool {
	return h.value == nil
}

// Free releases the record. Freeing a nil handle, or a zero Handle that was
// never allocated, is a no-op.
func (h *Handle[T]) Free() error {
	if h == nil || h.alloc == nil {
		return nil
	}
	if h.value == nil {
		return fmt.Errorf("%w: record of %d bytes", ErrDoubleFree, unsafe.Sizeof(*new(T)))
	}
	h.value = nil
	var zero T
	h.alloc.Release(uint64(unsafe.Sizeof(zero)))
	return nil
}
