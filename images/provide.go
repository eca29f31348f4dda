// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package images

import (
	"fmt"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// HandlersIn is the set of dependencies for the artwork passthrough.
type HandlersIn struct {
	fx.In
	Viper  *viper.Viper
	Logger *zap.Logger
}

// Provide bootstraps the artwork handlers.
func Provide() fx.Option {
	return fx.Provide(
		newHandlers,
		fx.Annotated{
			Name: "banner_handler",
			Target: func(h *Handlers) http.Handler {
				return http.HandlerFunc(h.Banner)
			},
		},
		fx.Annotated{
			Name: "icon_handler",
			Target: func(h *Handlers) http.Handler {
				return http.HandlerFunc(h.Icon)
			},
		},
	)
}

func newHandlers(in HandlersIn) (*Handlers, error) {
	config := Config{}
	if err := in.Viper.UnmarshalKey("images", &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal images config: %w", err)
	}
	config.Logger = in.Logger
	return New(config), nil
}
