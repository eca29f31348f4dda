// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"

	"github.com/spf13/viper"
	"github.com/vigilproj/vigil/store"
	"github.com/vigilproj/vigil/store/inmem"
	"github.com/vigilproj/vigil/store/metric"
	"github.com/vigilproj/vigil/store/sqlite"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Configs selects the store implementation. A nil Sqlite falls back to the
// in-memory store.
type Configs struct {
	Sqlite *sqlite.Config
}

type SetupIn struct {
	fx.In
	Viper    *viper.Viper
	Measures metric.Measures
	LC       fx.Lifecycle
	Logger   *zap.Logger
}

func Provide() fx.Option {
	return fx.Provide(
		SetupStore,
	)
}

func SetupStore(in SetupIn) (store.S, error) {
	var configs Configs
	if err := in.Viper.UnmarshalKey("store", &configs); err != nil {
		return nil, err
	}

	if configs.Sqlite != nil {
		in.Logger.Info("using sqlite store implementation", zap.String("path", configs.Sqlite.Path))
		s, err := sqlite.Open(*configs.Sqlite)
		if err != nil {
			return nil, err
		}
		in.LC.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return s.Close()
			},
		})
		return store.NewInstrumented(s, in.Measures), nil
	}

	in.Logger.Info("using in memory store implementation")
	return store.NewInstrumented(inmem.New(), in.Measures), nil
}
