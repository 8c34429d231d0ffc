// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

var ErrUndefinedIntervalTicker = errors.New("refresher interval ticker is nil")

// refresher states
const (
	stopped int32 = iota
	running
	transitioning
)

const defaultPullInterval = time.Hour

// RefresherConfig contains config data for the background refresher.
type RefresherConfig struct {
	// PullInterval is how often the event set is rebuilt.
	// (Optional) Defaults to 1 hour.
	PullInterval time.Duration

	// Logger to be used by the refresher.
	// (Optional) By default a no op logger will be used.
	Logger *zap.Logger
}

// Refresher rebuilds the event set on an interval so readers keep
// hitting a warm snapshot instead of paying for a rebuild themselves.
type Refresher struct {
	observer *observerConfig
	logger   *zap.Logger
	pipeline *Pipeline
}

type observerConfig struct {
	ticker       *time.Ticker
	pullInterval time.Duration
	shutdown     chan struct{}
	state        int32
}

func NewRefresher(config RefresherConfig, pipeline *Pipeline) (*Refresher, error) {
	if pipeline == nil {
		return nil, ErrNoPipeline
	}
	validateRefresherConfig(&config)
	return &Refresher{
		observer: &observerConfig{
			ticker:       time.NewTicker(config.PullInterval),
			pullInterval: config.PullInterval,
			shutdown:     make(chan struct{}),
		},
		logger:   config.Logger,
		pipeline: pipeline,
	}, nil
}

// Start begins refreshing on an interval. If a refresh loop is already
// in progress, calling Start() returns an error. If you want to restart
// the current loop, call Stop() first.
func (r *Refresher) Start(ctx context.Context) error {
	if r.observer == nil || r.observer.ticker == nil {
		r.logger.Error("refresher ticker is nil")
		return ErrUndefinedIntervalTicker
	}

	if !atomic.CompareAndSwapInt32(&r.observer.state, stopped, transitioning) {
		r.logger.Error("Start called when refresher was not in stopped state", zap.Error(ErrRefresherNotStopped))
		return ErrRefresherNotStopped
	}

	r.observer.ticker.Reset(r.observer.pullInterval)
	go func() {
		for {
			select {
			case <-r.observer.shutdown:
				return
			case <-r.observer.ticker.C:
				if _, err := r.pipeline.refresh(context.Background(), IntervalTrigger); err != nil {
					r.logger.Error("interval refresh failed", zap.Error(err))
				}
			}
		}
	}()

	atomic.SwapInt32(&r.observer.state, running)
	return nil
}

// Stop requests the refresh loop to stop and waits for its goroutine to
// complete. Calling Stop() when the refresher is not running (or while
// one is getting stopped) returns an error.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.observer == nil || r.observer.ticker == nil {
		return nil
	}

	if !atomic.CompareAndSwapInt32(&r.observer.state, running, transitioning) {
		r.logger.Error("Stop called when refresher was not in running state", zap.Error(ErrRefresherNotRunning))
		return ErrRefresherNotRunning
	}

	r.observer.ticker.Stop()
	r.observer.shutdown <- struct{}{}
	atomic.SwapInt32(&r.observer.state, stopped)
	return nil
}

func validateRefresherConfig(config *RefresherConfig) {
	if config.PullInterval == 0 {
		config.PullInterval = defaultPullInterval
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
}
