// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// vigil is a caching, rate-limited proxy in front of the Steam Web API
// with a quota-guarded AI generation passthrough.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vigilproj/vigil/gemini"
	"github.com/vigilproj/vigil/images"
	"github.com/vigilproj/vigil/ratelimit"
	"github.com/vigilproj/vigil/stats"
	"github.com/vigilproj/vigil/steam"
	"github.com/vigilproj/vigil/store/db"
	"github.com/vigilproj/vigil/store/metric"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/touchstone"
	"github.com/xmidt-org/touchstone/touchhttp"
	"go.uber.org/fx"
)

const (
	applicationName = "vigil"
	apiBase         = "api/v1"
)

var (
	GitCommit = "undefined"
	Version   = "undefined"
	BuildTime = "undefined"
)

func main() {
	v, logger, err := setup(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := fx.New(
		arrange.LoggerFunc(logger.Sugar().Infof),
		arrange.ForViper(v),
		fx.Supply(logger, v),
		touchstone.Provide(),
		touchhttp.Provide(),
		metric.ProvideMetrics(),
		ratelimit.Provide(),
		db.Provide(),
		steam.Provide(),
		gemini.Provide(),
		stats.Provide(),
		images.Provide(),
		provideMetricMiddleware(),
		fx.Provide(
			arrange.UnmarshalKey("prometheus", touchstone.Config{}),
			arrange.UnmarshalKey("prometheus.handler", touchhttp.Config{}),
			candlelight.New,
			func(v *viper.Viper) (candlelight.Config, error) {
				var config candlelight.Config
				err := v.UnmarshalKey("tracing", &config)
				config.ApplicationName = applicationName
				return config, err
			},
		),
		fx.Invoke(BuildServers),
	)

	switch err := app.Err(); {
	case errors.Is(err, pflag.ErrHelp):
		return
	case err == nil:
		app.Run()
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
