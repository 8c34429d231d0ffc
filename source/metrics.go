// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	SourceFetchCounter = "source_fetches_total"
)

// Labels
const (
	SourceLabel  = "source"
	OutcomeLabel = "outcome"
)

// Label Values
const (
	SuccessOutcome = "success"
	FailureOutcome = "failure"
)

// ProvideMetrics returns the Metrics relevant to this package.
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: SourceFetchCounter,
				Help: "Counter for source document fetches, labeled by source and success/failure outcome.",
			},
			SourceLabel,
			OutcomeLabel,
		),
	)
}

type Measures struct {
	fx.In
	SourceFetches *prometheus.CounterVec `name:"source_fetches_total"`
}
