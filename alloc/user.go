// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package alloc

import (
	"bytes"
	"strings"
	"unsafe"

	"github.com/jongio/memsafe-core/metrics"
)

// MaxUsernameLen is the longest username stored; one more byte holds the
// terminator.
const MaxUsernameLen = 31

// User is a fixed-size account record.
type User struct {
	Username [MaxUsernameLen + 1]byte
	Role     int
}

// UserSize is the size of one User record in bytes.
const UserSize = uint64(unsafe.Sizeof(User{}))

// Name returns the username up to its terminator.
func (u *User) Name() string {
	n := bytes.IndexByte(u.Username[:], 0)
	if n < 0 {
		n = len(u.Username)
	}
	return string(u.Username[:n])
}

// NewUser reserves one User from a and fills it. At most MaxUsernameLen bytes
// of name are stored, stopping early at an embedded NUL, and the field is
// always terminated. Use UsernameTruncated to detect a shortened name.
// On failure no record is returned.
func NewUser(a Allocator, name string, role int) (*Handle[User], error) {
	h, err := newHandle[User](a, "user")
	if err != nil {
		return nil, err
	}

	u := h.Value()
	n := usernameLen(name)
	copy(u.Username[:n], name)
	u.Username[n] = 0
	u.Role = role

	if UsernameTruncated(name) {
		metrics.RecordTruncation("user")
		log.Debug("username truncated", "length", len(name), "stored", n)
	}
	return h, nil
}

// UsernameTruncated reports whether NewUser would shorten name.
func UsernameTruncated(name string) bool {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return len(name) > MaxUsernameLen
}

func usernameLen(name string) int {
	n := len(name)
	if i := strings.IndexByte(name, 0); i >= 0 {
		n = i
	}
	return min(n, MaxUsernameLen)
}
