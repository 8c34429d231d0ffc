// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package gw2

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	ChunkRequestCounter = "gw2_chunk_requests_total"
	CacheLookupCounter  = "gw2_cache_lookups_total"
	WaypointScanCounter = "gw2_waypoint_scans_total"
)

// Labels
const (
	EndpointLabel = "endpoint"
	CacheLabel    = "cache"
	OutcomeLabel  = "outcome"
)

// Label values
const (
	SuccessOutcome = "success"
	FailureOutcome = "failure"
	HitOutcome     = "hit"
	MissOutcome    = "miss"

	itemsEndpoint  = "items"
	pricesEndpoint = "prices"

	detailsCache = "details"
	pricesCache  = "prices"
)

// ProvideMetrics builds the API client metrics.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(prometheus.CounterOpts{
			Name: ChunkRequestCounter,
			Help: "Number of batched id requests sent upstream, by endpoint and outcome.",
		}, EndpointLabel, OutcomeLabel),
		touchstone.CounterVec(prometheus.CounterOpts{
			Name: CacheLookupCounter,
			Help: "Number of id lookups served from or missing the in-process caches.",
		}, CacheLabel, OutcomeLabel),
		touchstone.CounterVec(prometheus.CounterOpts{
			Name: WaypointScanCounter,
			Help: "Number of geography scans performed to resolve waypoint chat codes.",
		}, OutcomeLabel),
	)
}

// Measures describes the metrics the client uses.
type Measures struct {
	fx.In
	ChunkRequests *prometheus.CounterVec `name:"gw2_chunk_requests_total"`
	CacheLookups  *prometheus.CounterVec `name:"gw2_cache_lookups_total"`
	WaypointScans *prometheus.CounterVec `name:"gw2_waypoint_scans_total"`
}
