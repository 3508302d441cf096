// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Wrapper decorates the handler chain of a [Server].
type Wrapper interface {
	WrapHandler(h http.Handler) http.Handler
}

type metricsWrapper struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsWrapper counts requests and observes their latency by status code.
func NewMetricsWrapper(r prometheus.Registerer) (Wrapper, error) {
	w := &metricsWrapper{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "api",
			Name:      "requests",
			Help:      "number of api requests served",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "api",
			Name:      "request_duration_seconds",
			Help:      "latency of api requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method"}),
	}
	if err := r.Register(w.requests); err != nil {
		return nil, err
	}
	if err := r.Register(w.duration); err != nil {
		return nil, err
	}
	return w, nil
}

func (m *metricsWrapper) WrapHandler(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(m.duration,
		promhttp.InstrumentHandlerCounter(m.requests, h),
	)
}

// NewMetricsHandler exposes [g] in the prometheus text format.
func NewMetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
