// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package ratelimit

import (
	"context"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Deliberately under Steam's published ~200 requests per 5 minutes, leaving
// headroom for clock skew and accounting imprecision.
const (
	defaultUpstreamRequests = 190
	defaultUpstreamWindow   = 5 * time.Minute
)

const (
	defaultClientRequests = 30
	defaultClientWindow   = time.Minute

	// Idle client buckets survive several windows before the sweep
	// reclaims them, bounding memory over an unbounded address space.
	defaultClientSweepEvery = 5 * time.Minute
	defaultClientIdleFor    = 15 * time.Minute
)

type upstreamConfig struct {
	Requests int
	Window   time.Duration
}

type clientConfig struct {
	Requests   int
	Window     time.Duration
	SweepEvery time.Duration
	IdleFor    time.Duration
}

type limiterIn struct {
	fx.In
	Viper     *viper.Viper
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

// Provide makes the two process-wide admission gates available to the fx
// container: the shared upstream bucket and the per-client keyed buckets.
func Provide() fx.Option {
	return fx.Provide(
		fx.Annotated{
			Name:   "upstream_limiter",
			Target: newUpstreamLimiter,
		},
		fx.Annotated{
			Name:   "client_limiter",
			Target: newClientLimiter,
		},
	)
}

func newUpstreamLimiter(in limiterIn) (*Limiter, error) {
	config := upstreamConfig{
		Requests: defaultUpstreamRequests,
		Window:   defaultUpstreamWindow,
	}
	if err := in.Viper.UnmarshalKey("rateLimits.upstream", &config); err != nil {
		return nil, err
	}
	in.Logger.Info("upstream limiter configured",
		zap.Int("requests", config.Requests), zap.Duration("window", config.Window))
	return New(Config{Requests: config.Requests, Window: config.Window})
}

func newClientLimiter(in limiterIn) (*Keyed, error) {
	config := clientConfig{
		Requests:   defaultClientRequests,
		Window:     defaultClientWindow,
		SweepEvery: defaultClientSweepEvery,
		IdleFor:    defaultClientIdleFor,
	}
	if err := in.Viper.UnmarshalKey("rateLimits.client", &config); err != nil {
		return nil, err
	}
	keyed, err := NewKeyed(Config{Requests: config.Requests, Window: config.Window})
	if err != nil {
		return nil, err
	}
	in.Logger.Info("client limiter configured",
		zap.Int("requests", config.Requests), zap.Duration("window", config.Window))

	stop := make(chan struct{})
	done := make(chan struct{})
	in.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sweep(keyed, config.SweepEvery, config.IdleFor, stop, done)
			return nil
		},
		OnStop: func(context.Context) error {
			close(stop)
			<-done
			return nil
		},
	})
	return keyed, nil
}

func sweep(keyed *Keyed, every, idleFor time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			keyed.Prune(idleFor)
		case <-stop:
			return
		}
	}
}
