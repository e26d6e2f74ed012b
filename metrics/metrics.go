// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics - operation counters for the daemon
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/marketd/fault"
)

const namespace = "marketd"

// Metrics - counters and latency per operation
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	dropped    prometheus.CounterFunc
}

// New - create and register the collectors
//
// dropped reports events discarded by a full publishing queue, it may be nil
func New(dropped func() uint64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations by name and result class",
		}, []string{"operation", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_seconds",
			Help:      "Operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	m.registry.MustRegister(m.operations, m.latency)

	if nil != dropped {
		m.dropped = prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events discarded because the publishing queue was full",
		}, func() float64 { return float64(dropped()) })
		m.registry.MustRegister(m.dropped)
	}
	return m
}

// Observe - count one operation
func (m *Metrics) Observe(operation string, err error, elapsed time.Duration) {
	if nil == m {
		return
	}
	m.operations.WithLabelValues(operation, Result(err)).Inc()
	m.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Track - deferred form of Observe
//
//	defer m.Track("Sale.List", time.Now(), &err)
func (m *Metrics) Track(operation string, start time.Time, err *error) {
	m.Observe(operation, *err, time.Since(start))
}

// Counter - the counter for one operation and result
func (m *Metrics) Counter(operation string, result string) prometheus.Counter {
	return m.operations.WithLabelValues(operation, result)
}

// Registry - for serving or inspection
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler - HTTP handler exposing the registry, nil without metrics
func (m *Metrics) Handler() http.Handler {
	if nil == m {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Result - label for an error class
func Result(err error) string {
	switch {
	case nil == err:
		return "ok"
	case fault.IsErrInvalid(err):
		return "invalid"
	case fault.IsErrAuthorisation(err):
		return "authorisation"
	case fault.IsErrState(err):
		return "state"
	case fault.IsErrFunds(err):
		return "funds"
	case fault.IsErrNotFound(err):
		return "not_found"
	case fault.IsErrExists(err):
		return "exists"
	case fault.IsErrProcess(err):
		return "process"
	default:
		return "error"
	}
}
