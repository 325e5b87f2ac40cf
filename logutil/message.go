// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jongio/memsafe-core/metrics"
	"github.com/jongio/memsafe-core/security"
	"golang.org/x/time/rate"
)

// messageTemplate is the only format string prefixed messages pass through.
// Caller input is never concatenated into it.
const messageTemplate = "%s: %s"

// ErrRateLimited is returned when a line is dropped by the rate limiter.
var ErrRateLimited = errors.New("log line dropped: rate limit exceeded")

// MessageLogger writes "<prefix>: <message>" lines to a writer.
// It is safe for concurrent use.
type MessageLogger struct {
	mu      sync.Mutex
	w       io.Writer
	limiter *rate.Limiter
	dropped uint64
}

// NewMessageLogger creates a logger writing to w. A nil w writes to whatever
// os.Stdout is at the time of each call. perSecond <= 0 disables rate limiting;
// otherwise lines are admitted at perSecond with a burst of twice that.
func NewMessageLogger(w io.Writer, perSecond int) *MessageLogger {
	l := &MessageLogger{w: w}
	l.SetRateLimit(perSecond)
	return l
}

// SetRateLimit replaces the rate limit. perSecond <= 0 disables it.
func (l *MessageLogger) SetRateLimit(perSecond int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if perSecond <= 0 {
		l.limiter = nil
		return
	}
	l.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond*2)
}

// Log formats prefix and message as data and writes one line.
func (l *MessageLogger) Log(prefix, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limiter != nil && !l.limiter.Allow() {
		l.dropped++
		metrics.RecordLogMessage(metrics.ResultDropped)
		return ErrRateLimited
	}
	if security.ContainsFormatDirectives(prefix) || security.ContainsFormatDirectives(message) {
		metrics.RecordFormatDirectives()
	}

	w := l.w
	if w == nil {
		w = os.Stdout
	}
	if _, err := fmt.Fprintf(w, messageTemplate+"\n", prefix, message); err != nil {
		metrics.RecordLogMessage(metrics.ResultError)
		return fmt.Errorf("failed to write log line: %w", err)
	}
	metrics.RecordLogMessage(metrics.ResultOK)
	return nil
}

// Dropped returns how many lines the rate limiter has discarded.
func (l *MessageLogger) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// FormatMessage returns "<prefix>: <message>" without a trailing newline.
func FormatMessage(prefix, message string) string {
	return fmt.Sprintf(messageTemplate, prefix, message)
}

var defaultMessages = NewMessageLogger(nil, 0)

// DefaultMessageLogger returns the logger used by LogMessage.
func DefaultMessageLogger() *MessageLogger {
	return defaultMessages
}

// LogMessage writes "<prefix>: <message>" to stdout through the default
// message logger.
func LogMessage(prefix, message string) error {
	return defaultMessages.Log(prefix, message)
}
