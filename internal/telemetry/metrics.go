/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/friendsincode/schedviz/internal/model"
)

const namespace = "schedviz"

// Result label values.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

var (
	// RendersTotal counts chart renders by result.
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renders_total",
		Help:      "Schedule charts rendered, by result.",
	}, []string{"result"})

	// RenderDuration observes the time spent laying out and drawing a chart.
	RenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_seconds",
		Help:      "Time spent laying out and drawing a chart.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	// WorkbookOpsTotal counts workbook saves and loads by result.
	WorkbookOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workbook_operations_total",
		Help:      "Workbook saves and loads, by operation and result.",
	}, []string{"op", "result"})

	// HTTPRequestsTotal counts viewer requests.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Chart viewer HTTP requests.",
	}, []string{"method", "endpoint", "status"})

	// HTTPRequestDuration observes viewer request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Chart viewer HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// HTTPActiveConnections tracks in-flight viewer requests.
	HTTPActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_active_requests",
		Help:      "Chart viewer requests in flight.",
	})
)

// Result classifies err for the result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, model.ErrDataConsistency),
		errors.Is(err, model.ErrInvalidSchedule),
		errors.Is(err, model.ErrMalformedData):
		return ResultInvalid
	default:
		return ResultError
	}
}

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
