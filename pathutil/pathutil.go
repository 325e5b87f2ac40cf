// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package pathutil

import (
	"errors"
	"fmt"

	"github.com/jongio/memsafe-core/logutil"
	"github.com/jongio/memsafe-core/metrics"
	"github.com/jongio/memsafe-core/security"
)

// PathCapacity is the size of a PathBuffer, terminator included.
const PathCapacity = 128

// Separator is placed between the directory and the file name.
const Separator = '/'

// ErrTruncated indicates the joined path did not fit in PathCapacity.
var ErrTruncated = errors.New("pathutil: path truncated")

var log = logutil.NewLogger("pathutil")

// PathBuffer is a bounded path. buf[n] is always the terminator.
type PathBuffer struct {
	buf [PathCapacity]byte
	n   int
}

// String returns the path without the terminator.
func (p *PathBuffer) String() string {
	return string(p.buf[:p.n])
}

// Bytes returns a copy of the path without the terminator.
func (p *PathBuffer) Bytes() []byte {
	out := make([]byte, p.n)
	copy(out, p.buf[:p.n])
	return out
}

// Len returns the path length, excluding the terminator.
func (p *PathBuffer) Len() int {
	return p.n
}

// Terminated reports whether a NUL follows the path inside the buffer.
func (p *PathBuffer) Terminated() bool {
	return p.n < PathCapacity && p.buf[p.n] == 0
}

// append copies as much of s as fits before the terminator slot and reports
// whether all of it was copied.
func (p *PathBuffer) append(s string) bool {
	room := PathCapacity - 1 - p.n
	k := copy(p.buf[p.n:p.n+min(room, len(s))], s)
	p.n += k
	p.buf[p.n] = 0
	return k == len(s)
}

// Join builds dir + "/" + file. When the result needs more than
// PathCapacity-1 bytes the returned buffer holds the leading bytes that fit and
// the error wraps ErrTruncated.
func Join(dir, file string) (PathBuffer, error) {
	var p PathBuffer
	complete := p.append(dir) && p.append(string(Separator)) && p.append(file)
	if !complete {
		need := len(dir) + 1 + len(file)
		metrics.RecordPathJoin(metrics.ResultTruncated)
		metrics.RecordTruncation("path")
		log.Debug("path truncated", "need", need, "kept", p.n)
		return p, fmt.Errorf("%w: need %d bytes, capacity %d", ErrTruncated, need+1, PathCapacity)
	}
	metrics.RecordPathJoin(metrics.ResultOK)
	return p, nil
}

// JoinComponent validates file as a single path component and joins it to
// dir.
func JoinComponent(dir, file string) (PathBuffer, error) {
	if err := security.ValidatePathComponent(file); err != nil {
		metrics.RecordPathJoin(metrics.ResultInvalid)
		return PathBuffer{}, fmt.Errorf("invalid file name: %w", err)
	}
	return Join(dir, file)
}
