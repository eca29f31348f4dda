// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

const (
	UpstreamRequestsCounter = "upstream_requests_total"

	OutcomeLabel = "outcome"

	successOutcome   = "success"
	throttledOutcome = "throttled"
	transportOutcome = "transport_error"
	failureOutcome   = "non_success"
	parseOutcome     = "bad_payload"
)

// ProvideMetrics returns the metrics relevant to this package.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: UpstreamRequestsCounter,
				Help: "The total number of requests sent upstream by outcome",
			},
			OutcomeLabel,
		),
	)
}

// Measures collects the upstream client metrics from the fx container.
type Measures struct {
	fx.In
	Requests *prometheus.CounterVec `name:"upstream_requests_total"`
}
