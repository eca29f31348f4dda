// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

const (
	QueriesCounter       = "store_queries_total"
	QueryDurationSeconds = "store_query_duration_seconds"
)

// ProvideMetrics returns the metrics relevant to the store package.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: QueriesCounter,
				Help: "The total number of store queries by operation and outcome",
			},
			"type", "outcome",
		),
		touchstone.HistogramVec(
			prometheus.HistogramOpts{
				Name:    QueryDurationSeconds,
				Help:    "A histogram of store query latencies",
				Buckets: []float64{0.0625, 0.125, .25, .5, 1, 5, 10},
			},
			"type",
		),
	)
}

// Measures collects the store metrics from the fx container.
type Measures struct {
	fx.In
	Queries       *prometheus.CounterVec   `name:"store_queries_total"`
	QueryDuration *prometheus.HistogramVec `name:"store_query_duration_seconds"`
}
