// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gamers-hell/magpie/snapshot"
	"github.com/gamers-hell/magpie/snapshot/db/metric"
)

// instrumentingStore counts query outcomes per type. An absent
// snapshot is a normal miss, not a failure.
type instrumentingStore struct {
	next     snapshot.S
	measures metric.Measures
}

func newInstrumentingStore(measures metric.Measures, next snapshot.S) snapshot.S {
	return &instrumentingStore{next: next, measures: measures}
}

func (i *instrumentingStore) Save(ctx context.Context, s snapshot.Snapshot) error {
	err := i.next.Save(ctx, s)
	i.count(snapshot.InsertType, err)
	return err
}

func (i *instrumentingStore) Load(ctx context.Context) (snapshot.Snapshot, error) {
	s, err := i.next.Load(ctx)
	i.count(snapshot.ReadType, err)
	return s, err
}

func (i *instrumentingStore) Info(ctx context.Context) (snapshot.Info, error) {
	info, err := i.next.Info(ctx)
	i.count(snapshot.InfoType, err)
	return info, err
}

func (i *instrumentingStore) Clear(ctx context.Context) error {
	err := i.next.Clear(ctx)
	i.count(snapshot.DeleteType, err)
	return err
}

func (i *instrumentingStore) count(queryType string, err error) {
	if err != nil && !errors.Is(err, snapshot.ErrNoSnapshot) {
		i.measures.QueryFailure.With(prometheus.Labels{snapshot.TypeLabel: queryType}).Add(1)
		return
	}
	i.measures.QuerySuccess.With(prometheus.Labels{snapshot.TypeLabel: queryType}).Add(1)
}
