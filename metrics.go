// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/xmidt-org/touchstone/touchhttp"
	"go.uber.org/fx"
)

// provideMetricMiddleware names per-server request instrumenters so each
// listener reports under its own label.
func provideMetricMiddleware() fx.Option {
	return fx.Provide(
		fx.Annotated{
			Name: "servers.primary.metrics",
			Target: touchhttp.ServerBundle{}.NewInstrumenter(
				touchhttp.ServerLabel, "primary",
			),
		},
		fx.Annotated{
			Name: "servers.health.metrics",
			Target: touchhttp.ServerBundle{}.NewInstrumenter(
				touchhttp.ServerLabel, "health",
			),
		},
	)
}
