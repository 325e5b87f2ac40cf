// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package access evaluates the access level granted by a pair of credentials.
package access

import "github.com/jongio/memsafe-core/metrics"

// Level is a granted access level.
type Level int

const (
	// LevelNone grants nothing.
	LevelNone Level = 0
	// LevelToken is granted to holders of a valid token.
	LevelToken Level = 1
	// LevelAdmin is granted to administrators.
	LevelAdmin Level = 5
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelAdmin:
		return "admin"
	case LevelToken:
		return "token"
	case LevelNone:
		return "none"
	default:
		return "unknown"
	}
}

// Evaluate returns the level for the given credentials. Admin takes
// precedence over a token.
func Evaluate(isAdmin, hasToken bool) Level {
	level := LevelNone
	switch {
	case isAdmin:
		level = LevelAdmin
	case hasToken:
		level = LevelToken
	}
	metrics.RecordAccessDecision(level.String())
	return level
}

// VerifyAccess reports whether the credentials grant any access.
func VerifyAccess(isAdmin, hasToken bool) bool {
	return Evaluate(isAdmin, hasToken) > LevelNone
}
