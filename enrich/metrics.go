// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	RefreshCounter = "enrich_refreshes_total"
)

// Labels
const (
	OutcomeLabel = "outcome"
	TriggerLabel = "trigger"
)

// Label values
const (
	SuccessOutcome = "success"
	FailureOutcome = "failure"

	IntervalTrigger = "interval"
	RequestTrigger  = "request"
)

// ProvideMetrics builds the enrichment pipeline metrics.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(prometheus.CounterOpts{
			Name: RefreshCounter,
			Help: "Number of enrichment refreshes, by trigger and outcome.",
		}, TriggerLabel, OutcomeLabel),
	)
}

// Measures describes the metrics used by the pipeline and refresher.
type Measures struct {
	fx.In
	Refreshes *prometheus.CounterVec `name:"enrich_refreshes_total"`
}
