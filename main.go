// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gamers-hell/magpie/enrich"
	"github.com/gamers-hell/magpie/eventapi"
	"github.com/gamers-hell/magpie/gw2"
	"github.com/gamers-hell/magpie/snapshot"
	"github.com/gamers-hell/magpie/snapshot/db"
	"github.com/gamers-hell/magpie/snapshot/db/metric"
	"github.com/gamers-hell/magpie/source"
)

const (
	applicationName = "magpie"

	apiBase = "api/v1"
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
		source.ProvideMetrics(),
		gw2.ProvideMetrics(),
		enrich.ProvideMetrics(),
		metric.ProvideMetrics(),
		db.Provide(),
		eventapi.ProvideHandlers(),
		fx.Provide(
			unmarshal[touchstone.Config]("prometheus"),
			unmarshal[source.AggregatorConfig]("aggregator"),
			unmarshal[gw2.ClientConfig]("gw2"),
			unmarshal[enrich.PipelineConfig]("pipeline"),
			unmarshal[enrich.RefresherConfig]("refresher"),
			unmarshal[db.Configs]("snapshot"),
			unmarshal[ServersConfig]("servers"),
			newAggregator,
			newClient,
			newPipeline,
			newRefresher,
			func(p *enrich.Pipeline) eventapi.Service { return p },
		),

		fx.Invoke(
			BuildPrimaryRoutes,
			BuildMetricsRoutes,
			BuildHealthRoutes,
			runRefresher,
		),
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

// unmarshal builds a provider for one config section.
func unmarshal[C any](key string) func(v *viper.Viper) (C, error) {
	return func(v *viper.Viper) (C, error) {
		var config C
		err := v.UnmarshalKey(key, &config)
		return config, err
	}
}

func newAggregator(config source.AggregatorConfig, measures source.Measures, logger *zap.Logger) (*source.Aggregator, error) {
	config.Logger = logger
	return source.NewAggregator(config, &measures, sallust.Get)
}

func newClient(config gw2.ClientConfig, measures gw2.Measures, logger *zap.Logger) (*gw2.Client, error) {
	config.Logger = logger
	return gw2.NewClient(config, &measures, sallust.Get)
}

func newPipeline(config enrich.PipelineConfig, aggregator *source.Aggregator, client *gw2.Client,
	store snapshot.S, measures enrich.Measures, logger *zap.Logger,
) (*enrich.Pipeline, error) {
	config.Logger = logger
	return enrich.NewPipeline(config, aggregator, client, store, &measures, sallust.Get)
}

func newRefresher(config enrich.RefresherConfig, pipeline *enrich.Pipeline, logger *zap.Logger) (*enrich.Refresher, error) {
	config.Logger = logger
	return enrich.NewRefresher(config, pipeline)
}

func runRefresher(lc fx.Lifecycle, r *enrich.Refresher) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return r.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return r.Stop(ctx)
		},
	})
}
