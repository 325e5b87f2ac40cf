// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logutil provides structured diagnostics on top of slog and the
// injection-safe prefixed message logger.
//
// # Diagnostics
//
//	logutil.SetupLogger(debug, structured)
//	logutil.Debug("write rejected", "len", n)
//
//	log := logutil.NewLogger("alloc")
//	log.Debug("reservation refused", "bytes", size)
//
// Debug output is enabled by passing debug=true to SetupLogger, by
// SetLevel(LevelDebug), or by setting MEMSAFE_DEBUG=true. Structured mode writes
// JSON records, otherwise slog's text format is used.
//
// # Prefixed Messages
//
// LogMessage writes "<prefix>: <message>" lines. Both arguments are data passed
// to a template constant owned by this package, so directives such as %s or %n
// in either argument are written verbatim:
//
//	_ = logutil.LogMessage("user", "%s%s%s%n") // prints "user: %s%s%s%n"
//
// A MessageLogger can be rate limited to bound log flooding from untrusted
// input; dropped lines return ErrRateLimited.
package logutil
