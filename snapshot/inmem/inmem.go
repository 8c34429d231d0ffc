// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/gamers-hell/magpie/snapshot"
)

// InMem holds at most one snapshot for the process lifetime. It is the
// fallback backend when no persistent store is configured.
type InMem struct {
	lock sync.Mutex
	snap *snapshot.Snapshot
}

func NewInMem() snapshot.S {
	return &InMem{}
}

func (i *InMem) Save(_ context.Context, s snapshot.Snapshot) error {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.snap = &s
	return nil
}

func (i *InMem) Load(_ context.Context) (snapshot.Snapshot, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	if i.snap == nil {
		return snapshot.Snapshot{}, snapshot.ErrNoSnapshot
	}
	return *i.snap, nil
}

func (i *InMem) Info(_ context.Context) (snapshot.Info, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	if i.snap == nil {
		return snapshot.Info{}, snapshot.ErrNoSnapshot
	}
	return snapshot.Info{
		Timestamp: time.UnixMilli(i.snap.Timestamp),
		Events:    len(i.snap.Events),
	}, nil
}

func (i *InMem) Clear(_ context.Context) error {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.snap = nil
	return nil
}
