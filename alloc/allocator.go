// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package alloc

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sync"

	"github.com/jongio/memsafe-core/logutil"
	"github.com/jongio/memsafe-core/metrics"
	"github.com/shirou/gopsutil/v4/mem"
)

var log = logutil.NewLogger("alloc")

// Allocator accounts for byte reservations.
type Allocator interface {
	// Reserve claims n bytes or returns an error wrapping ErrOutOfMemory.
	Reserve(n uint64) error
	// Release returns n previously reserved bytes.
	Release(n uint64)
}

// SizeOf returns count*elemSize, or ErrOverflow when the product does not fit
// in uint64 or exceeds the largest allocation Go can express (math.MaxInt).
func SizeOf(count, elemSize uint64) (uint64, error) {
	hi, lo := bits.Mul64(count, elemSize)
	if hi != 0 || lo > math.MaxInt {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", ErrOverflow, count, elemSize)
	}
	return lo, nil
}

// MaxAllocSize is the largest single reservation Reserve passes to an
// allocator. The Go runtime cannot back larger slices on any supported
// platform, so bigger requests fail with ErrOutOfMemory regardless of the
// allocator's own limit.
const MaxAllocSize uint64 = min(1<<40, math.MaxInt)

// Reserve claims n bytes from a (Default() when nil) and records the outcome
// under kind. Requests above MaxAllocSize are refused without consulting a.
// Errors that do not already wrap ErrOutOfMemory are wrapped.
func Reserve(a Allocator, kind string, n uint64) error {
	if n > MaxAllocSize {
		metrics.RecordAllocation(kind, metrics.ResultNoMemory, n)
		log.Debug("reservation above allocation ceiling", "kind", kind, "bytes", n, "max", MaxAllocSize)
		return fmt.Errorf("%w: %d bytes exceeds the %d byte allocation ceiling", ErrOutOfMemory, n, MaxAllocSize)
	}

	err := resolve(a).Reserve(n)
	if err == nil {
		metrics.RecordAllocation(kind, metrics.ResultOK, n)
		return nil
	}

	metrics.RecordAllocation(kind, metrics.ResultNoMemory, n)
	log.Debug("reservation refused", "kind", kind, "bytes", n, "error", err)
	if !errors.Is(err, ErrOutOfMemory) {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return err
}

// Release returns n bytes to a (Default() when nil).
func Release(a Allocator, n uint64) {
	resolve(a).Release(n)
}

var (
	defaultMu        sync.RWMutex
	defaultAllocator Allocator = &SystemAllocator{}
)

// Default returns the process-wide allocator.
func Default() Allocator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAllocator
}

// SetDefault replaces the process-wide allocator and returns the previous one.
// A nil a restores a SystemAllocator.
func SetDefault(a Allocator) Allocator {
	if a == nil {
		a = &SystemAllocator{}
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultAllocator
	defaultAllocator = a
	return prev
}

func resolve(a Allocator) Allocator {
	if a == nil {
		return Default()
	}
	return a
}

// SystemCheckThreshold is the smallest request SystemAllocator checks against
// available memory.
const SystemCheckThreshold = 1 << 20

// UnverifiedLimit is the largest request SystemAllocator grants when host
// memory statistics cannot be read.
const UnverifiedLimit = 1 << 30

// SystemAllocator refuses requests that exceed the host's available memory.
// The zero value is ready to use.
type SystemAllocator struct {
	// VirtualMemory reports host memory; nil means mem.VirtualMemory.
	VirtualMemory func() (*mem.VirtualMemoryStat, error)
}

// Reserve checks n against available memory. When the statistics cannot be
// read, requests up to UnverifiedLimit are allowed and larger ones refused.
func (s *SystemAllocator) Reserve(n uint64) error {
	if n < SystemCheckThreshold {
		return nil
	}

	read := s.VirtualMemory
	if read == nil {
		read = mem.VirtualMemory
	}
	vm, err := read()
	if err != nil {
		log.Debug("memory statistics unavailable", "bytes", n, "error", err)
		if n > UnverifiedLimit {
			return fmt.Errorf("%w: %d bytes requested, memory statistics unavailable: %w", ErrOutOfMemory, n, err)
		}
		return nil
	}
	if n > vm.Available {
		return fmt.Errorf("%w: %d bytes requested, %d available", ErrOutOfMemory, n, vm.Available)
	}
	return nil
}

// Release is a no-op; the Go runtime reclaims the storage.
func (s *SystemAllocator) Release(uint64) {}

// Stats tracks Budget reservations.
type Stats struct {
	Reservations uint64
	Releases     uint64
	Failures     uint64
	InUse        uint64
	Peak         uint64
}

// Budget is an Allocator with a fixed byte ceiling. A zero limit means
// unlimited. When parent is set, a request must pass both the budget and the
// parent. Budget is safe for concurrent use.
type Budget struct {
	mu     sync.Mutex
	limit  uint64
	parent Allocator
	stats  Stats
}

// NewBudget creates a budget of limit bytes on top of parent (may be nil).
func NewBudget(limit uint64, parent Allocator) *Budget {
	return &Budget{limit: limit, parent: parent}
}

// Reserve claims n bytes if they fit within the ceiling.
func (b *Budget) Reserve(n uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && (n > b.limit || b.stats.InUse > b.limit-n) {
		b.stats.Failures++
		return fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrOutOfMemory, n, b.stats.InUse, b.limit)
	}
	if b.parent != nil {
		if err := b.parent.Reserve(n); err != nil {
			b.stats.Failures++
			return err
		}
	}

	b.stats.Reservations++
	b.stats.InUse += n
	if b.stats.InUse > b.stats.Peak {
		b.stats.Peak = b.stats.InUse
	}
	return nil
}

// Release returns n bytes. Releasing more than is in use clamps to zero and
// is logged as a warning.
func (b *Budget) Release(n uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > b.stats.InUse {
		log.Warn("release exceeds reserved bytes", "release", n, "inUse", b.stats.InUse)
		b.stats.InUse = 0
	} else {
		b.stats.InUse -= n
	}
	b.stats.Releases++
	if b.parent != nil {
		b.parent.Release(n)
	}
}

// Stats returns a snapshot of the budget's statistics.
func (b *Budget) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// Limit returns the ceiling in bytes; zero means unlimited.
func (b *Budget) Limit() uint64 {
	return b.limit
}
