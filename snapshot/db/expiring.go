// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"time"

	"github.com/gamers-hell/magpie/snapshot"
)

// expiringStore enforces the max-age policy on top of any backend.
// Expiry is lazy: an aged-out snapshot is discovered on read, cleared
// from the backend and reported as absent.
type expiringStore struct {
	next   snapshot.S
	maxAge time.Duration
	now    func() time.Time
}

func newExpiringStore(next snapshot.S, maxAge time.Duration, now func() time.Time) snapshot.S {
	if maxAge <= 0 {
		maxAge = snapshot.DefaultMaxAge
	}
	if now == nil {
		now = time.Now
	}
	return &expiringStore{next: next, maxAge: maxAge, now: now}
}

func (e *expiringStore) Save(ctx context.Context, s snapshot.Snapshot) error {
	return e.next.Save(ctx, s)
}

func (e *expiringStore) Load(ctx context.Context) (snapshot.Snapshot, error) {
	s, err := e.next.Load(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if s.Expired(e.now(), e.maxAge) {
		e.next.Clear(ctx)
		return snapshot.Snapshot{}, snapshot.ErrNoSnapshot
	}
	return s, nil
}

// Info reports expired snapshots instead of hiding them, so operators
// can tell "nothing stored" apart from "stored but aged out".
func (e *expiringStore) Info(ctx context.Context) (snapshot.Info, error) {
	info, err := e.next.Info(ctx)
	if err != nil {
		return snapshot.Info{}, err
	}
	info.Expired = e.now().Sub(info.Timestamp) > e.maxAge
	return info, nil
}

func (e *expiringStore) Clear(ctx context.Context) error {
	return e.next.Clear(ctx)
}
