// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package gemini

import (
	"fmt"
	"net/http"

	"github.com/spf13/viper"
	"github.com/vigilproj/vigil/ratelimit"
	"github.com/vigilproj/vigil/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServiceIn is the set of dependencies for the generation service.
type ServiceIn struct {
	fx.In
	Viper   *viper.Viper
	Logger  *zap.Logger
	Clients *ratelimit.Keyed `name:"client_limiter"`
	Store   store.S
}

// Provide bootstraps the guarded generation flow.
func Provide() fx.Option {
	return fx.Provide(
		newService,
		fx.Annotated{
			Name: "generate_handler",
			Target: func(s *Service) http.Handler {
				return NewGenerateHandler(s)
			},
		},
	)
}

func newService(in ServiceIn) (*Service, error) {
	config := Config{}
	if err := in.Viper.UnmarshalKey("gemini", &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gemini config: %w", err)
	}
	config.Logger = in.Logger
	client, err := NewClient(config)
	if err != nil {
		return nil, err
	}
	if !client.Ready() {
		in.Logger.Warn("gemini api key not configured, generation requests will be refused")
	}
	guard := NewGuard(in.Clients, in.Store)
	return NewService(guard, client, in.Store, in.Logger), nil
}
