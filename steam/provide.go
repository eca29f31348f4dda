// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package steam

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/vigilproj/vigil/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ClientIn is the set of dependencies for the Steam client.
type ClientIn struct {
	fx.In
	Viper    *viper.Viper
	Logger   *zap.Logger
	Limiter  *ratelimit.Limiter `name:"upstream_limiter"`
	Measures Measures
}

// Provide bootstraps the Steam client for the service.
func Provide() fx.Option {
	return fx.Options(
		ProvideMetrics(),
		fx.Provide(newClient),
	)
}

func newClient(in ClientIn) (*Client, error) {
	config := Config{}
	if err := in.Viper.UnmarshalKey("steam", &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steam config: %w", err)
	}
	config.Logger = in.Logger
	if config.APIKey == "" {
		in.Logger.Warn("steam api key not configured, upstream fetches will fail")
	}
	return New(config, in.Limiter, in.Measures.Requests)
}
