// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package gw2

import (
	"sync"

	"github.com/gamers-hell/magpie/model"
)

// idCache is a session-lifetime cache keyed by external id. It also
// carries the in-flight registry that keeps concurrent resolvers from
// issuing duplicate requests for the same id: the first caller to miss
// on an id owns its fetch, later callers wait on the owner's channel and
// then re-read the cache. Entries are never invalidated within a
// session.
type idCache[V any] struct {
	lock     sync.Mutex
	entries  map[int]V
	inflight map[int]chan struct{}
}

func newIDCache[V any]() *idCache[V] {
	return &idCache[V]{
		entries:  map[int]V{},
		inflight: map[int]chan struct{}{},
	}
}

func (c *idCache[V]) get(id int) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	v, ok := c.entries[id]
	return v, ok
}

// begin partitions the requested ids in one atomic step: hits are
// already cached, owned are ids this caller must fetch (registered as
// in-flight before the lock is released), and waits maps ids some other
// caller is already fetching to the channel that closes when it
// finishes. Duplicate ids in the input are folded.
func (c *idCache[V]) begin(ids []int) (hits map[int]V, owned []int, waits map[int]chan struct{}) {
	hits = map[int]V{}
	waits = map[int]chan struct{}{}

	c.lock.Lock()
	defer c.lock.Unlock()
	seen := map[int]bool{}
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		if v, ok := c.entries[id]; ok {
			hits[id] = v
			continue
		}
		if ch, ok := c.inflight[id]; ok {
			waits[id] = ch
			continue
		}
		c.inflight[id] = make(chan struct{})
		owned = append(owned, id)
	}
	return hits, owned, waits
}

// commit stores the fetched values and releases every owned in-flight
// registration, including ids whose chunk failed and yielded no value —
// waiters for those simply find the cache still empty.
func (c *idCache[V]) commit(values map[int]V, owned []int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for id, v := range values {
		c.entries[id] = v
	}
	for _, id := range owned {
		if ch, ok := c.inflight[id]; ok {
			close(ch)
			delete(c.inflight, id)
		}
	}
}

// waypointCache memoizes resolved chat codes for the client's lifetime.
// Only successful resolutions are stored; codes the geography scan never
// matched stay absent and may be looked for again on a later scan.
type waypointCache struct {
	// scan serializes geography walks for one client so concurrent
	// resolvers do not crawl the same continents twice; late arrivals
	// find the cache warm. Independent clients scan independently.
	scan sync.Mutex

	lock    sync.RWMutex
	entries map[string]model.WaypointEntry
}

func newWaypointCache() *waypointCache {
	return &waypointCache{entries: map[string]model.WaypointEntry{}}
}

func (c *waypointCache) get(code string) (model.WaypointEntry, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	e, ok := c.entries[code]
	return e, ok
}

func (c *waypointCache) put(code string, entry model.WaypointEntry) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[code] = entry
}
