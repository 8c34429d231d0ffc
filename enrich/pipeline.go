// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"

	"github.com/gamers-hell/magpie/gw2"
	"github.com/gamers-hell/magpie/model"
	"github.com/gamers-hell/magpie/snapshot"
	"github.com/gamers-hell/magpie/source"
)

// Errors that can be returned by this package. Since some of these
// errors are returned wrapped, it is safest to use errors.Is() to check
// for them.
var (
	ErrNilMeasures         = errors.New("measures cannot be nil")
	ErrNoAggregator        = errors.New("no aggregator provided")
	ErrNoResolver          = errors.New("no resolver provided")
	ErrNoStore             = errors.New("no snapshot store provided")
	ErrNoPipeline          = errors.New("no pipeline provided")
	ErrNoEvents            = errors.New("no source produced any events")
	ErrRefresherNotStopped = errors.New("refresher is either running or starting")
	ErrRefresherNotRunning = errors.New("refresher is either stopped or stopping")
)

// Aggregator produces the raw event set from the configured sources.
type Aggregator interface {
	Fetch(ctx context.Context) []model.Event
}

// Resolver turns collected identifiers into upstream lookups.
type Resolver interface {
	ResolveDetails(ctx context.Context, ids []int) map[int]gw2.ItemDetail
	ResolvePrices(ctx context.Context, ids []int) map[int]gw2.ItemPrice
	ResolveWaypoints(ctx context.Context, codes []string) map[string]*model.WaypointEntry
}

// PipelineConfig contains config data for the enrichment pipeline.
type PipelineConfig struct {
	// Locale selects the language for derived wiki links.
	// (Optional) Defaults to the model default.
	Locale string

	// Logger to be used by the pipeline.
	// (Optional) By default a no op logger will be used.
	Logger *zap.Logger
}

// Pipeline runs the full aggregation and enrichment flow and keeps its
// latest result in the snapshot store.
type Pipeline struct {
	aggregator Aggregator
	resolver   Resolver
	store      snapshot.S
	locale     string
	logger     *zap.Logger
	getLogger  func(context.Context) *zap.Logger
	measures   *Measures
	now        func() time.Time
}

func NewPipeline(config PipelineConfig, aggregator Aggregator, resolver Resolver, store snapshot.S,
	measures *Measures, getLogger func(context.Context) *zap.Logger,
) (*Pipeline, error) {
	if aggregator == nil {
		return nil, ErrNoAggregator
	}
	if resolver == nil {
		return nil, ErrNoResolver
	}
	if store == nil {
		return nil, ErrNoStore
	}
	if measures == nil {
		return nil, ErrNilMeasures
	}
	if config.Locale == "" {
		config.Locale = model.DefaultLocale
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	if getLogger == nil {
		getLogger = sallust.Get
	}
	return &Pipeline{
		aggregator: aggregator,
		resolver:   resolver,
		store:      store,
		locale:     config.Locale,
		logger:     config.Logger,
		getLogger:  getLogger,
		measures:   measures,
		now:        time.Now,
	}, nil
}

// Events returns the enriched event set, serving the stored snapshot
// when a fresh one exists and rebuilding otherwise.
func (p *Pipeline) Events(ctx context.Context) ([]model.Event, error) {
	s, err := p.store.Load(ctx)
	if err == nil {
		return s.Events, nil
	}
	if !errors.Is(err, snapshot.ErrNoSnapshot) {
		p.contextLogger(ctx).Warn("snapshot load failed, rebuilding", zap.Error(err))
	}
	return p.Refresh(ctx)
}

// Refresh rebuilds the event set from the sources, bypassing any stored
// snapshot, and stores the result. A run where every source failed
// returns ErrNoEvents and leaves the previous snapshot in place.
func (p *Pipeline) Refresh(ctx context.Context) ([]model.Event, error) {
	return p.refresh(ctx, RequestTrigger)
}

func (p *Pipeline) refresh(ctx context.Context, trigger string) ([]model.Event, error) {
	events, err := p.rebuild(ctx)
	outcome := SuccessOutcome
	if err != nil {
		outcome = FailureOutcome
	}
	p.measures.Refreshes.With(prometheus.Labels{
		TriggerLabel: trigger, OutcomeLabel: outcome}).Add(1)
	return events, err
}

func (p *Pipeline) rebuild(ctx context.Context) ([]model.Event, error) {
	logger := p.contextLogger(ctx)

	events := p.aggregator.Fetch(ctx)
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	itemIDs, chatCodes := source.CollectIDs(events)
	details := p.resolver.ResolveDetails(ctx, itemIDs)
	prices := p.resolver.ResolvePrices(ctx, itemIDs)
	waypoints := p.resolver.ResolveWaypoints(ctx, chatCodes)
	Merge(events, details, prices, waypoints, p.locale)

	// a failed save degrades to in-memory behavior, not to an error
	if err := p.store.Save(ctx, snapshot.New(events, p.now())); err != nil {
		logger.Warn("failed storing snapshot", zap.Error(err))
	}

	logger.Info("event set rebuilt",
		zap.Int("events", len(events)),
		zap.Int("items", len(itemIDs)),
		zap.Int("waypoints", len(chatCodes)))
	return events, nil
}

// SnapshotInfo describes the stored snapshot.
func (p *Pipeline) SnapshotInfo(ctx context.Context) (snapshot.Info, error) {
	return p.store.Info(ctx)
}

// ClearSnapshot drops the stored snapshot; the next read rebuilds.
func (p *Pipeline) ClearSnapshot(ctx context.Context) error {
	return p.store.Clear(ctx)
}

func (p *Pipeline) contextLogger(ctx context.Context) *zap.Logger {
	l := p.getLogger(ctx)
	if l == nil {
		l = p.logger
	}
	return l
}
