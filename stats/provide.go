// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package stats

import (
	"net/http"

	"github.com/vigilproj/vigil/steam"
	"github.com/vigilproj/vigil/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServiceIn is the set of dependencies for the stats service.
type ServiceIn struct {
	fx.In
	Store  store.S
	Client *steam.Client
	Logger *zap.Logger
}

// Provide bootstraps the cached player document flow.
func Provide() fx.Option {
	return fx.Provide(
		func(in ServiceIn) *Service {
			return NewService(in.Store, in.Client, in.Logger)
		},
		fx.Annotated{
			Name: "player_data_handler",
			Target: func(s *Service) http.Handler {
				return NewPlayerDataHandler(s)
			},
		},
		fx.Annotated{
			Name: "achievements_handler",
			Target: func(s *Service) http.Handler {
				return NewAchievementsHandler(s)
			},
		},
		fx.Annotated{
			Name: "profile_handler",
			Target: func(s *Service) http.Handler {
				return NewProfileHandler(s)
			},
		},
	)
}
