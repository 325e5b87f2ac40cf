// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package nodelist implements a singly linked list whose nodes are reserved
// from an alloc.Allocator and released exactly once by Free.
//
// Links are unexported, so a list can only be built through Push and Append
// and cannot contain a cycle.
package nodelist

import (
	"errors"
	"unsafe"

	"github.com/jongio/memsafe-core/alloc"
	"github.com/jongio/memsafe-core/logutil"
	"github.com/jongio/memsafe-core/metrics"
)

// ErrConsumed indicates the list was already freed.
var ErrConsumed = errors.New("nodelist: list already freed")

// Node is one element of a List.
type Node struct {
	value int
	next  *Node
}

// NodeSize is the size reserved per node.
const NodeSize = uint64(unsafe.Sizeof(Node{}))

// Value returns the node's value.
func (n *Node) Value() int {
	return n.value
}

// Next returns the following node, or nil at the tail.
func (n *Node) Next() *Node {
	return n.next
}

var log = logutil.NewLogger("nodelist")

// List owns a chain of nodes. It is not safe for concurrent use.
type List struct {
	alloc    alloc.Allocator
	head     *Node
	tail     *Node
	length   int
	consumed bool
}

// New creates an empty list drawing nodes from a (alloc.Default() when nil).
func New(a alloc.Allocator) *List {
	if a == nil {
		a = alloc.Default()
	}
	return &List{alloc: a}
}

// Build creates a list holding values in order. If a node cannot be reserved
// the nodes built so far are released and the error is returned.
func Build(a alloc.Allocator, values ...int) (*List, error) {
	l := New(a)
	for _, v := range values {
		if err := l.Append(v); err != nil {
			_, _ = Free(l)
			return nil, err
		}
	}
	return l, nil
}

func (l *List) newNode(v int) (*Node, error) {
	if l.consumed {
		return nil, ErrConsumed
	}
	if err := alloc.Reserve(l.alloc, "node", NodeSize); err != nil {
		return nil, err
	}
	return &Node{value: v}, nil
}

// Push adds v at the head.
func (l *List) Push(v int) error {
	n, err := l.newNode(v)
	if err != nil {
		return err
	}
	n.next = l.head
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.length++
	return nil
}

// Append adds v at the tail.
func (l *List) Append(v int) error {
	n, err := l.newNode(v)
	if err != nil {
		return err
	}
	if l.tail == nil {
		l.head = n
	} else {
		l.tail.next = n
	}
	l.tail = n
	l.length++
	return nil
}

// Head returns the first node, or nil when the list is empty or freed.
func (l *List) Head() *Node {
	return l.head
}

// Len returns the number of nodes.
func (l *List) Len() int {
	return l.length
}

// Values returns the node values from head to tail.
func (l *List) Values() []int {
	out := make([]int, 0, l.length)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

// Consumed reports whether the list has been freed.
func (l *List) Consumed() bool {
	return l.consumed
}

// Free releases every node of l in order and returns how many were released.
// Each node's successor is read before the node is unlinked and released.
// Freeing an empty or nil list is a no-op; freeing a list twice returns
// ErrConsumed and releases nothing.
func Free(l *List) (int, error) {
	if l == nil {
		return 0, nil
	}
	if l.consumed {
		return 0, ErrConsumed
	}

	released := 0
	current := l.head
	for current != nil {
		next := current.next
		current.next = nil
		alloc.Release(l.alloc, NodeSize)
		released++
		current = next
	}

	l.head = nil
	l.tail = nil
	l.length = 0
	l.consumed = true

	metrics.RecordNodesReleased(released)
	log.Debug("list freed", "nodes", released)
	return released, nil
}
