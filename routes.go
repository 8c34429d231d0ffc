// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xmidt-org/httpaux"
	"github.com/xmidt-org/httpaux/recovery"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gamers-hell/magpie/eventapi"
)

// ServersConfig holds the listen addresses. Any server left without an
// address is not started.
type ServersConfig struct {
	Primary ServerConfig
	Metrics ServerConfig
	Health  ServerConfig
}

type ServerConfig struct {
	Address string
}

type PrimaryRoutesIn struct {
	fx.In
	LC       fx.Lifecycle
	Logger   *zap.Logger
	Servers  ServersConfig
	Handlers PrimaryHandlersIn
}

type PrimaryHandlersIn struct {
	fx.In
	GetEvents     eventapi.Handler `name:"get_events_handler"`
	Refresh       eventapi.Handler `name:"refresh_handler"`
	SnapshotInfo  eventapi.Handler `name:"snapshot_info_handler"`
	ClearSnapshot eventapi.Handler `name:"clear_snapshot_handler"`
}

func BuildPrimaryRoutes(in PrimaryRoutesIn) {
	router := mux.NewRouter()
	eventsPath := fmt.Sprintf("/%s/events", apiBase)
	snapshotPath := fmt.Sprintf("/%s/snapshot", apiBase)
	refreshPath := fmt.Sprintf("/%s/refresh", apiBase)
	router.Handle(eventsPath, in.Handlers.GetEvents).Methods(http.MethodGet)
	router.Handle(snapshotPath, in.Handlers.SnapshotInfo).Methods(http.MethodGet)
	router.Handle(snapshotPath, in.Handlers.ClearSnapshot).Methods(http.MethodDelete)
	router.Handle(refreshPath, in.Handlers.Refresh).Methods(http.MethodPost)

	chain := alice.New(recovery.Middleware(recovery.WithStatusCode(555)))
	startServer(in.LC, in.Logger, "primary", in.Servers.Primary, chain.Then(router))
}

type MetricsRoutesIn struct {
	fx.In
	LC       fx.Lifecycle
	Logger   *zap.Logger
	Servers  ServersConfig
	Gatherer prometheus.Gatherer
}

func BuildMetricsRoutes(in MetricsRoutesIn) {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(in.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	startServer(in.LC, in.Logger, "metrics", in.Servers.Metrics, router)
}

type HealthRoutesIn struct {
	fx.In
	LC      fx.Lifecycle
	Logger  *zap.Logger
	Servers ServersConfig
}

func BuildHealthRoutes(in HealthRoutesIn) {
	router := mux.NewRouter()
	router.Handle("/health", httpaux.ConstantHandler{
		StatusCode: http.StatusOK,
	}).Methods(http.MethodGet)
	startServer(in.LC, in.Logger, "health", in.Servers.Health, router)
}

// startServer binds the server to the fx lifecycle. Listening happens
// during OnStart so a bad address fails startup instead of surfacing
// later as a dead endpoint.
func startServer(lc fx.Lifecycle, logger *zap.Logger, name string, config ServerConfig, handler http.Handler) {
	if config.Address == "" {
		logger.Info("server disabled, no address configured", zap.String("server", name))
		return
	}

	server := &http.Server{
		Addr:    config.Address,
		Handler: handler,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", config.Address)
			if err != nil {
				return fmt.Errorf("%s server failed to listen: %w", name, err)
			}
			logger.Info("server listening",
				zap.String("server", name), zap.String("address", config.Address))
			go func() {
				if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
					logger.Error("server terminated", zap.String("server", name), zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
