// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package sharedbuf provides a fixed-capacity byte buffer whose writes are
// validated in full before any byte is copied.
//
// Buffer has no internal locking: callers sharing one across goroutines must
// synchronize. Guarded adds a mutex, and Global returns the process-wide
// Guarded instance used by Update and Snapshot.
package sharedbuf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jongio/memsafe-core/logutil"
	"github.com/jongio/memsafe-core/metrics"
)

// Capacity is the size of a Buffer in bytes.
const Capacity = 256

var (
	// ErrTooLarge indicates a write longer than Capacity.
	ErrTooLarge = errors.New("sharedbuf: write exceeds capacity")

	// ErrInvalidLength indicates a negative length or one longer than the data.
	ErrInvalidLength = errors.New("sharedbuf: invalid length")
)

var log = logutil.NewLogger("sharedbuf")

// Buffer is a fixed-capacity byte store. The zero value is an all-zero buffer.
type Buffer struct {
	data [Capacity]byte
}

// Write copies the first n bytes of data to the start of the buffer.
// n == Capacity is an exact fit and allowed. On error nothing is written.
func (b *Buffer) Write(data []byte, n int) error {
	if err := checkLength(data, n); err != nil {
		return err
	}
	copy(b.data[:n], data[:n])
	metrics.RecordBufferWrite(metrics.ResultOK)
	return nil
}

func checkLength(data []byte, n int) error {
	switch {
	case n > Capacity:
		metrics.RecordBufferWrite(metrics.ResultTooLarge)
		log.Debug("write rejected", "len", n, "capacity", Capacity)
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, n, Capacity)
	case n < 0:
		metrics.RecordBufferWrite(metrics.ResultInvalid)
		return fmt.Errorf("%w: negative length %d", ErrInvalidLength, n)
	case n > len(data):
		metrics.RecordBufferWrite(metrics.ResultInvalid)
		log.Debug("write rejected", "len", n, "available", len(data))
		return fmt.Errorf("%w: length %d exceeds %d bytes of data", ErrInvalidLength, n, len(data))
	}
	return nil
}

// Snapshot returns a copy of the buffer contents.
func (b *Buffer) Snapshot() [Capacity]byte {
	return b.data
}

// Guarded is a Buffer protected by a mutex.
type Guarded struct {
	mu  sync.Mutex
	buf Buffer
}

// Write validates and copies under the lock.
func (g *Guarded) Write(data []byte, n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buf.Write(data, n)
}

// Snapshot returns a copy of the contents under the lock.
func (g *Guarded) Snapshot() [Capacity]byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buf.Snapshot()
}

var global Guarded

// Global returns the process-wide buffer.
func Global() *Guarded {
	return &global
}

// Update writes the first n bytes of data to the process-wide buffer.
func Update(data []byte, n int) error {
	return global.Write(data, n)
}

// Snapshot returns a copy of the process-wide buffer.
func Snapshot() [Capacity]byte {
	return global.Snapshot()
}
