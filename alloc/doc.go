// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package alloc provides overflow-checked, accounted allocation of fixed-size
// records and the owned handles that release them exactly once.
//
// # Allocators
//
// An Allocator decides whether a request of n bytes may proceed. The Go
// storage itself is created only after Reserve succeeds, so a refused request
// never yields a partial value.
//
//   - SystemAllocator refuses requests larger than the host's available memory
//     as reported by gopsutil. Requests below SystemCheckThreshold are not
//     checked.
//   - Budget enforces a byte ceiling and keeps reservation statistics. It is
//     the allocator to use when out-of-memory has to be simulated.
//
// A nil Allocator argument means Default(). SetDefault swaps the process-wide
// default and returns the previous one.
//
// # Sizing
//
// Every size goes through SizeOf, which multiplies with math/bits and returns
// ErrOverflow instead of a wrapped product:
//
//	size, err := alloc.SizeOf(count, alloc.ItemSize)
//	if errors.Is(err, alloc.ErrOverflow) { ... }
//
// Record sizes are taken from the record type, never from a pointer to it.
//
// # Ownership
//
// Block[T] owns count records, Handle[T] owns one. Free releases the
// reservation and drops the storage; a second Free returns ErrDoubleFree and
// releases nothing. Handles are not safe for concurrent use.
//
//	items, err := alloc.AllocateItems(nil, 100)
//	if err != nil {
//	    return err
//	}
//	defer items.Free()
package alloc
