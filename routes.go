// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/spf13/viper"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/httpaux"
	"github.com/xmidt-org/httpaux/recovery"
	"github.com/xmidt-org/touchstone/touchhttp"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type serversConfig struct {
	Primary serverConfig
	Health  serverConfig
	Metrics serverConfig
}

type serverConfig struct {
	Address string
}

const (
	defaultPrimaryAddress = ":6600"
	defaultMetricsAddress = ":6601"
	defaultHealthAddress  = ":6602"
)

type PrimaryHandlersIn struct {
	fx.In
	PlayerData   http.Handler `name:"player_data_handler"`
	Achievements http.Handler `name:"achievements_handler"`
	Profile      http.Handler `name:"profile_handler"`
	Generate     http.Handler `name:"generate_handler"`
	Banner       http.Handler `name:"banner_handler"`
	Icon         http.Handler `name:"icon_handler"`
}

type ServersIn struct {
	fx.In
	Viper     *viper.Viper
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle

	PrimaryMetrics touchhttp.ServerInstrumenter `name:"servers.primary.metrics"`
	HealthMetrics  touchhttp.ServerInstrumenter `name:"servers.health.metrics"`
	MetricsHandler touchhttp.Handler

	Tracing  candlelight.Tracing
	Handlers PrimaryHandlersIn
}

// BuildServers assembles the three listeners and ties them to the fx
// lifecycle.
func BuildServers(in ServersIn) error {
	config := serversConfig{
		Primary: serverConfig{Address: defaultPrimaryAddress},
		Metrics: serverConfig{Address: defaultMetricsAddress},
		Health:  serverConfig{Address: defaultHealthAddress},
	}
	if err := in.Viper.UnmarshalKey("servers", &config); err != nil {
		return err
	}

	runServer(in.Lifecycle, in.Logger, "primary", config.Primary.Address, primaryHandler(in))
	runServer(in.Lifecycle, in.Logger, "health", config.Health.Address,
		in.HealthMetrics.Then(healthRouter()))
	runServer(in.Lifecycle, in.Logger, "metrics", config.Metrics.Address, metricsRouter(in.MetricsHandler))
	return nil
}

func primaryHandler(in ServersIn) http.Handler {
	router := mux.NewRouter()

	options := []otelmux.Option{
		otelmux.WithTracerProvider(in.Tracing.TracerProvider()),
		otelmux.WithPropagators(in.Tracing.Propagator()),
	}
	router.Use(
		otelmux.Middleware("server_primary", options...),
		candlelight.EchoFirstTraceNodeInfo(in.Tracing.Propagator(), false),
	)

	api := router.PathPrefix(fmt.Sprintf("/%s", apiBase)).Subrouter()
	api.Handle("/steam/user/{id}", in.Handlers.PlayerData).Methods(http.MethodGet)
	api.Handle("/steam/user/{id}/achievements/{appid}", in.Handlers.Achievements).Methods(http.MethodGet)
	api.Handle("/steam/user/{id}/profile", in.Handlers.Profile).Methods(http.MethodGet)
	api.Handle("/gemini/generate", in.Handlers.Generate).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/images/banner/{appid}", in.Handlers.Banner).Methods(http.MethodGet)
	api.Handle("/images/icon/{appid}/{hash}", in.Handlers.Icon).Methods(http.MethodGet)

	chain := alice.New(
		recovery.Middleware(recovery.WithStatusCode(http.StatusInternalServerError)),
		corsHeaders,
	)
	return in.PrimaryMetrics.Then(chain.Then(router))
}

func healthRouter() http.Handler {
	router := mux.NewRouter()
	router.Handle("/health", httpaux.ConstantHandler{
		StatusCode: http.StatusOK,
	}).Methods(http.MethodGet)
	return router
}

func metricsRouter(handler touchhttp.Handler) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", handler).Methods(http.MethodGet)
	return router
}

// corsHeaders lets the browser frontend call the API from another origin.
// The API is public and read-mostly, so the policy is permissive.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Access-Control-Allow-Origin", "*")
		rw.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		rw.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			rw.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(rw, r)
	})
}

func runServer(lc fx.Lifecycle, logger *zap.Logger, name, address string, handler http.Handler) {
	server := &http.Server{
		Addr:    address,
		Handler: handler,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			listener, err := net.Listen("tcp", address)
			if err != nil {
				return err
			}
			logger.Info("starting server", zap.String("server", name), zap.String("address", address))
			go func() {
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server terminated", zap.String("server", name), zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server", zap.String("server", name))
			return server.Shutdown(ctx)
		},
	})
}
