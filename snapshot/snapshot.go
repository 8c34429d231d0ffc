// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

// Package snapshot persists enriched event sets so restarts and
// repeated reads do not replay the whole enrichment pipeline.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/gamers-hell/magpie/model"
)

const (
	// Key identifies the stored snapshot record across all backends.
	Key = "gw2_event_data_v1"

	// DefaultMaxAge is how long a snapshot remains servable.
	DefaultMaxAge = 24 * time.Hour
)

const (
	// TypeLabel is for labeling metrics with the query type.
	TypeLabel  = "type"
	InsertType = "insert"
	ReadType   = "read"
	DeleteType = "delete"
	InfoType   = "info"
)

// ErrNoSnapshot is returned by Load and Info when no usable snapshot
// exists, whether because none was ever saved or the stored one aged
// out. Callers treat it as "refresh from upstream", not as a failure.
var ErrNoSnapshot = errors.New("no usable snapshot stored")

// Snapshot is one persisted enrichment result. Timestamp is epoch
// milliseconds; the asymmetric precision is kept for compatibility with
// records written by earlier versions of the dataset.
type Snapshot struct {
	Timestamp int64         `json:"timestamp"`
	Events    []model.Event `json:"events"`
}

// New stamps events with the given wall-clock time.
func New(events []model.Event, now time.Time) Snapshot {
	return Snapshot{
		Timestamp: now.UnixMilli(),
		Events:    events,
	}
}

// TakenAt converts the stored timestamp back to wall-clock time.
func (s Snapshot) TakenAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Expired reports whether the snapshot is older than maxAge at now.
func (s Snapshot) Expired(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.TakenAt()) > maxAge
}

// Info describes a stored snapshot without materializing its events.
type Info struct {
	Timestamp time.Time `json:"timestamp"`
	Events    int       `json:"events"`
	Expired   bool      `json:"expired"`
}

// S is the snapshot DAO. Load and Info return ErrNoSnapshot when
// nothing usable is stored; Clear on an empty store is not an error.
type S interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Info(ctx context.Context) (Info, error)
	Clear(ctx context.Context) error
}
