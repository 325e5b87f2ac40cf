// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package alloc

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/jongio/memsafe-core/metrics"
)

// ItemDataLen is the size of an Item's payload.
const ItemDataLen = 60

// Item is a fixed-size record with a sequential id.
type Item struct {
	ID   int32
	Data [ItemDataLen]byte
}

// ItemSize is the size of one Item in bytes.
const ItemSize = uint64(unsafe.Sizeof(Item{}))

// AllocateItems reserves count Items from a, zeroes them and sets each ID to
// its index. It returns ErrOverflow if the total size or the largest id
// cannot be represented, and ErrOutOfMemory if a refuses the request.
func AllocateItems(a Allocator, count uint64) (*Block[Item], error) {
	if count > math.MaxInt32+1 {
		metrics.RecordAllocation("items", metrics.ResultOverflow, 0)
		return nil, fmt.Errorf("%w: %d items exceed the id range", ErrOverflow, count)
	}

	block, err := allocBlock[Item](a, "items", count)
	if err != nil {
		return nil, err
	}
	for i := range block.elems {
		block.elems[i].ID = int32(i)
	}
	return block, nil
}
