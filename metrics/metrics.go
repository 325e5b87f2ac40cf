// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package metrics records Prometheus counters for the memsafe primitives.
//
// Collectors are registered with the default registry at init. Recording can be
// switched off with SetEnabled; exposing the registry is left to the caller.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK        = "ok"
	ResultOverflow  = "overflow"
	ResultNoMemory  = "out_of_memory"
	ResultTooLarge  = "too_large"
	ResultInvalid   = "invalid"
	ResultTruncated = "truncated"
	ResultDropped   = "dropped"
	ResultError     = "error"
)

var enabled atomic.Bool

func init() {
	enabled.Store(true)
}

var (
	allocRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memsafe_alloc_requests_total",
			Help: "Total number of allocation requests by kind and result",
		},
		[]string{"kind", "result"},
	)

	allocBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "memsafe_alloc_bytes",
			Help:    "Size in bytes of successful allocations",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		},
	)

	bufferWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memsafe_buffer_writes_total",
			Help: "Total number of shared buffer writes by result",
		},
		[]string{"result"},
	)

	pathJoins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memsafe_path_joins_total",
			Help: "Total number of bounded path joins by result",
		},
		[]string{"result"},
	)

	truncations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memsafe_truncations_total",
			Help: "Total number of reported truncations by component",
		},
		[]string{"component"},
	)

	listNodesReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "memsafe_list_nodes_released_total",
			Help: "Total number of list nodes released by the list destructor",
		},
	)

	logMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memsafe_log_messages_total",
			Help: "Total number of prefixed log lines by result",
		},
		[]string{"result"},
	)

	logFormatDirectives = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "memsafe_log_format_directives_total",
			Help: "Log inputs that contained formatting directives and were written literally",
		},
	)

	accessDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memsafe_access_decisions_total",
			Help: "Total number of access decisions by resulting level",
		},
		[]string{"level"},
	)
)

// SetEnabled turns metric recording on or off.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether metrics are being recorded.
func Enabled() bool {
	return enabled.Load()
}

// RecordAllocation records an allocation request. bytes is observed only for
// successful requests.
func RecordAllocation(kind, result string, bytes uint64) {
	if !Enabled() {
		return
	}
	allocRequests.With(prometheus.Labels{"kind": kind, "result": result}).Inc()
	if result == ResultOK {
		allocBytes.Observe(float64(bytes))
	}
}

// RecordBufferWrite records a shared buffer write.
func RecordBufferWrite(result string) {
	if !Enabled() {
		return
	}
	bufferWrites.WithLabelValues(result).Inc()
}

// RecordPathJoin records a path join.
func RecordPathJoin(result string) {
	if !Enabled() {
		return
	}
	pathJoins.WithLabelValues(result).Inc()
}

// RecordTruncation records a reported truncation for component.
func RecordTruncation(component string) {
	if !Enabled() {
		return
	}
	truncations.WithLabelValues(component).Inc()
}

// RecordNodesReleased adds n released list nodes.
func RecordNodesReleased(n int) {
	if !Enabled() || n <= 0 {
		return
	}
	listNodesReleased.Add(float64(n))
}

// RecordLogMessage records an emitted or dropped log line.
func RecordLogMessage(result string) {
	if !Enabled() {
		return
	}
	logMessages.WithLabelValues(result).Inc()
}

// RecordFormatDirectives counts a log input carrying formatting directives.
func RecordFormatDirectives() {
	if !Enabled() {
		return
	}
	logFormatDirectives.Inc()
}

// RecordAccessDecision records the level an access decision resolved to.
func RecordAccessDecision(level string) {
	if !Enabled() {
		return
	}
	accessDecisions.WithLabelValues(level).Inc()
}
