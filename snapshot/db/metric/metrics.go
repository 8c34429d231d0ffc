// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"

	"github.com/gamers-hell/magpie/snapshot"
)

const (
	QuerySuccessCounter = "snapshot_query_success_total"
	QueryFailureCounter = "snapshot_query_failure_total"
)

// ProvideMetrics returns the metrics relevant to this package.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(prometheus.CounterOpts{
			Name: QuerySuccessCounter,
			Help: "The total number of successful snapshot store queries.",
		}, snapshot.TypeLabel),
		touchstone.CounterVec(prometheus.CounterOpts{
			Name: QueryFailureCounter,
			Help: "The total number of failed snapshot store queries.",
		}, snapshot.TypeLabel),
	)
}

// Measures describes the snapshot store metrics.
type Measures struct {
	fx.In
	QuerySuccess *prometheus.CounterVec `name:"snapshot_query_success_total"`
	QueryFailure *prometheus.CounterVec `name:"snapshot_query_failure_total"`
}
