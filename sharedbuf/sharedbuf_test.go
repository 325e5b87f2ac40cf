// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package sharedbuf

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestWriteWithinCapacity(t *testing.T) {
	for _, n := range []int{0, 1, 100, Capacity - 1, Capacity} {
		var buf Buffer
		data := filled(n, 'a')

		require.NoError(t, buf.Write(data, n))

		snap := buf.Snapshot()
		assert.Equal(t, data, snap[:n])
		assert.Equal(t, filled(Capacity-n, 0), snap[n:], "bytes past len must be untouched")
	}
}

func TestWriteTooLargeLeavesBufferUnchanged(t *testing.T) {
	var buf Buffer
	require.NoError(t, buf.Write([]byte("original"), 8))
	before := buf.Snapshot()

	for _, n := range []int{Capacity + 1, Capacity * 4} {
		err := buf.Write(filled(n, 'z'), n)
		assert.ErrorIs(t, err, ErrTooLarge)
		assert.Equal(t, before, buf.Snapshot())
	}
}

func TestWriteInvalidLength(t *testing.T) {
	var buf Buffer
	before := buf.Snapshot()

	tests := []struct {
		name string
		data []byte
		n    int
	}{
		{"negative", []byte("abc"), -1},
		{"longer than data", []byte("abc"), 4},
		{"nil data", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, buf.Write(tt.data, tt.n), ErrInvalidLength)
			assert.Equal(t, before, buf.Snapshot())
		})
	}
}

func TestWritePartialData(t *testing.T) {
	var buf Buffer
	require.NoError(t, buf.Write([]byte("hello world"), 5))

	snap := buf.Snapshot()
	assert.Equal(t, []byte("hello"), snap[:5])
	assert.Equal(t, byte(0), snap[5])
}

func TestGlobalUpdate(t *testing.T) {
	require.NoError(t, Update([]byte("global"), 6))
	snap := Snapshot()
	assert.Equal(t, []byte("global"), snap[:6])
	assert.Equal(t, snap, Global().Snapshot())

	assert.ErrorIs(t, Update(filled(Capacity+1, 'x'), Capacity+1), ErrTooLarge)
	assert.Equal(t, snap, Snapshot())
}

func TestGuardedConcurrentWrites(t *testing.T) {
	var g Guarded
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(b byte) {
			defer wg.Done()
			_ = g.Write(filled(Capacity, b), Capacity)
		}(byte('a' + i))
	}
	wg.Wait()

	// Whole-buffer writes under the lock never interleave.
	snap := g.Snapshot()
	assert.Equal(t, filled(Capacity, snap[0]), snap[:])
}
