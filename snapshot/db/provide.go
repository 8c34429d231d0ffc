// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gamers-hell/magpie/snapshot"
	"github.com/gamers-hell/magpie/snapshot/db/metric"
	"github.com/gamers-hell/magpie/snapshot/dynamodb"
	"github.com/gamers-hell/magpie/snapshot/file"
	"github.com/gamers-hell/magpie/snapshot/inmem"
)

// Configs selects the snapshot backend. The first configured backend
// wins; with none configured the snapshot only lives in memory.
type Configs struct {
	// MaxAge overrides how long a snapshot stays servable.
	// (Optional) Defaults to snapshot.DefaultMaxAge.
	MaxAge time.Duration

	Dynamo *dynamodb.Config
	File   *file.Config
}

type SetupIn struct {
	fx.In
	Configs  Configs
	Measures metric.Measures
	Logger   *zap.Logger
}

func Provide() fx.Option {
	return fx.Options(
		fx.Provide(
			SetupStore,
		),
	)
}

func SetupStore(in SetupIn) (snapshot.S, error) {
	backend, err := setupBackend(in)
	if err != nil {
		return nil, err
	}
	return newInstrumentingStore(in.Measures,
		newExpiringStore(backend, in.Configs.MaxAge, time.Now)), nil
}

func setupBackend(in SetupIn) (snapshot.S, error) {
	if in.Configs.Dynamo != nil {
		in.Logger.Info("using dynamodb snapshot store implementation")
		return dynamodb.NewDynamoDB(*in.Configs.Dynamo)
	}
	if in.Configs.File != nil {
		in.Logger.Info("using file snapshot store implementation",
			zap.String("path", in.Configs.File.Path))
		return file.NewFileStore(in.Configs.File)
	}
	in.Logger.Info("using in memory snapshot store implementation")
	return inmem.NewInMem(), nil
}
