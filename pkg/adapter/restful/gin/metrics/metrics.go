// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package metrics collects the Prometheus metrics of the REST API,
// both the generic HTTP request metrics and the computed bounds
// metrics, and serves them in the Prometheus text format.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/gtfs-bounds/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gtfsbounds"

// Metrics keeps the collectors in its own registry, so several
// engines (e.g., in tests) may be instantiated in one process.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	feeds    prometheus.Counter
	observed prometheus.Counter
	skipped  prometheus.Counter
	notFound prometheus.Counter
}

// New instantiates a Metrics with a fresh registry which also contains
// the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 10, 30},
		}, []string{"method", "path"}),
		feeds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bounds",
			Name:      "feeds_total",
			Help:      "Total GTFS feeds whose bounds were computed",
		}),
		observed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bounds",
			Name:      "stops_observed_total",
			Help:      "Total valid stop locations",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bounds",
			Name:      "stops_skipped_total",
			Help:      "Total malformed stop records",
		}),
		notFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bounds",
			Name:      "not_found_total",
			Help:      "Total computations without any valid stop location",
		}),
	}
	m.reg.MustRegister(
		m.requests, m.duration,
		m.feeds, m.observed, m.skipped, m.notFound,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware measures the handled requests. Requests which match no
// route are labeled by an empty path, so arbitrary URLs do not create
// new time series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		m.requests.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.duration.WithLabelValues(c.Request.Method, path).Observe(
			time.Since(start).Seconds(),
		)
	}
}

// ObserveReport counts the feeds and stop records of a computed report.
func (m *Metrics) ObserveReport(r *model.Report) {
	m.feeds.Add(float64(len(r.Sources)))
	m.observed.Add(float64(r.Observed))
	m.skipped.Add(float64(r.Skipped))
}

// ObserveNotFound counts a computation which found no valid stop.
func (m *Metrics) ObserveNotFound() {
	m.notFound.Inc()
}

// Handler serves the collected metrics.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Register adds the GET /metrics route to e.
func (m *Metrics) Register(e *gin.Engine) {
	e.GET("/metrics", m.Handler())
}
