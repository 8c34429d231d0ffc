// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"

	"github.com/gamers-hell/magpie/model"
)

// Errors that can be returned by this package. Since some of these errors
// are returned wrapped, it is safest to use errors.Is() to check for them.
var (
	ErrNilMeasures = errors.New("measures cannot be nil")
	ErrNoSources   = errors.New("at least one source is required")
	ErrBadSource   = errors.New("source configuration is invalid")
)

var (
	errNewRequestFailure  = errors.New("failed creating an HTTP request")
	errDoRequestFailure   = errors.New("http client failed while sending request")
	errNonSuccessResponse = errors.New("source responded with a non-success status code")
	errReadingBodyFailure = errors.New("failed while reading http response body")
	errUnknownShape       = errors.New("source document does not match any accepted shape")
)

const errWrappedFmt = "%w: %s"

// SourceConfig names one event document to aggregate.
type SourceConfig struct {
	// Name is the display name used to tag events when the payload does
	// not carry a sourceName of its own.
	Name string `json:"name" validate:"required"`

	// URL of the JSON document.
	URL string `json:"url" validate:"required,url"`
}

// AggregatorConfig contains config data for the event source aggregator.
type AggregatorConfig struct {
	// Sources are fetched independently; configured order determines the
	// order of the flattened result.
	Sources []SourceConfig

	// HTTPClient refers to the client that will be used to send requests.
	// (Optional) Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger to be used by the aggregator.
	// (Optional) By default a no op logger will be used.
	Logger *zap.Logger
}

// Aggregator fetches every configured source and normalizes the
// heterogeneous document shapes into one flat event sequence.
type Aggregator struct {
	sources   []SourceConfig
	client    *http.Client
	logger    *zap.Logger
	getLogger func(context.Context) *zap.Logger
	measures  *Measures
}

var validate = validator.New()

// NewAggregator creates an Aggregator from the given configuration.
func NewAggregator(config AggregatorConfig, measures *Measures, getLogger func(context.Context) *zap.Logger) (*Aggregator, error) {
	if err := validateAggregatorConfig(&config); err != nil {
		return nil, err
	}
	if measures == nil {
		return nil, ErrNilMeasures
	}
	if getLogger == nil {
		getLogger = sallust.Get
	}
	return &Aggregator{
		sources:   config.Sources,
		client:    config.HTTPClient,
		logger:    config.Logger,
		getLogger: getLogger,
		measures:  measures,
	}, nil
}

// Fetch retrieves every source concurrently and returns the flattened
// event sequence: configured source order first, original intra-source
// order second. A source that fails in any way (transport, status,
// malformed JSON) contributes no events and does not affect the others.
func (a *Aggregator) Fetch(ctx context.Context) []model.Event {
	perSource := make([][]model.Event, len(a.sources))

	var wg sync.WaitGroup
	for i := range a.sources {
		wg.Add(1)
		go func(i int, src SourceConfig) {
			defer wg.Done()
			events, err := a.fetchOne(ctx, src)
			outcome := SuccessOutcome
			if err != nil {
				outcome = FailureOutcome
				l := a.getLogger(ctx)
				if l == nil {
					l = a.logger
				}
				l.Warn("source contributed no events",
					zap.String("source", src.Name), zap.Error(err))
			}
			a.measures.SourceFetches.With(prometheus.Labels{
				SourceLabel: src.Name, OutcomeLabel: outcome}).Add(1)
			perSource[i] = events
		}(i, a.sources[i])
	}
	wg.Wait()

	var all []model.Event
	for _, events := range perSource {
		all = append(all, events...)
	}
	return all
}

func (a *Aggregator) fetchOne(ctx context.Context, src SourceConfig) ([]model.Event, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errNewRequestFailure, err.Error())
	}
	resp, err := a.client.Do(r)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errDoRequestFailure, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: received status %v", errNonSuccessResponse, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errReadingBodyFailure, err.Error())
	}
	return normalize(body, src.Name)
}

// manifest shapes for the nested document form:
// [{expansion, sources: [{sourceName, events: [...]}]}]
type manifestExpansion struct {
	Expansion string           `json:"expansion"`
	Sources   []manifestSource `json:"sources"`
}

type manifestSource struct {
	SourceName string        `json:"sourceName"`
	Events     []model.Event `json:"events"`
}

// wrapped document form: {sourceName, events: [...]}
type wrappedDocument struct {
	SourceName string        `json:"sourceName"`
	Events     []model.Event `json:"events"`
}

// normalize detects the accepted document shapes and returns the flat,
// source-tagged event sequence. Accepted shapes are a bare event array,
// an object with an events field, the nested expansion manifest, and an
// arbitrary object whose array values are concatenated.
func normalize(body []byte, configuredName string) ([]model.Event, error) {
	var head byte
	for _, b := range body {
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' {
			head = b
			break
		}
	}

	switch head {
	case '[':
		// The nested manifest is also an array; treat the document as a
		// manifest only when at least one element carries sources.
		var manifest []manifestExpansion
		if err := json.Unmarshal(body, &manifest); err == nil && isManifest(manifest) {
			return flattenManifest(manifest, configuredName), nil
		}
		var events []model.Event
		if err := json.Unmarshal(body, &events); err != nil {
			return nil, fmt.Errorf(errWrappedFmt, errUnknownShape, err.Error())
		}
		return tagEvents(events, configuredName), nil
	case '{':
		var doc wrappedDocument
		if err := json.Unmarshal(body, &doc); err == nil && doc.Events != nil {
			name := doc.SourceName
			if name == "" {
				name = configuredName
			}
			return tagEvents(doc.Events, name), nil
		}

		// Arbitrary object: concatenate every array-valued field. Keys
		// are visited in sorted order so the result is deterministic.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf(errWrappedFmt, errUnknownShape, err.Error())
		}
		name := configuredName
		if raw, ok := fields["sourceName"]; ok {
			var embedded string
			if err := json.Unmarshal(raw, &embedded); err == nil && embedded != "" {
				name = embedded
			}
		}
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var all []model.Event
		for _, k := range keys {
			var events []model.Event
			if err := json.Unmarshal(fields[k], &events); err == nil {
				all = append(all, events...)
			}
		}
		return tagEvents(all, name), nil
	}
	return nil, errUnknownShape
}

func isManifest(manifest []manifestExpansion) bool {
	for _, exp := range manifest {
		if len(exp.Sources) > 0 {
			return true
		}
	}
	return false
}

func flattenManifest(manifest []manifestExpansion, configuredName string) []model.Event {
	var all []model.Event
	for _, exp := range manifest {
		expansion := exp.Expansion
		if expansion == "" {
			expansion = model.UnknownExpansion
		}
		for _, src := range exp.Sources {
			name := src.SourceName
			if name == "" {
				name = configuredName
			}
			for _, ev := range src.Events {
				ev.Expansion = expansion
				ev.SourceName = name
				applyDefaults(&ev)
				all = append(all, ev)
			}
		}
	}
	return all
}

func tagEvents(events []model.Event, name string) []model.Event {
	tagged := make([]model.Event, 0, len(events))
	for _, ev := range events {
		ev.SourceName = name
		applyDefaults(&ev)
		tagged = append(tagged, ev)
	}
	return tagged
}

func applyDefaults(ev *model.Event) {
	if ev.SourceName == "" {
		ev.SourceName = model.UnknownSource
	}
	if ev.Expansion == "" {
		ev.Expansion = model.UnknownExpansion
	}
	for i := range ev.Loot {
		if ev.Loot[i].Rarity == "" {
			ev.Loot[i].Rarity = model.RarityBasic
		}
	}
}

func validateAggregatorConfig(config *AggregatorConfig) error {
	if len(config.Sources) == 0 {
		return ErrNoSources
	}
	for _, src := range config.Sources {
		if err := validate.Struct(src); err != nil {
			return fmt.Errorf("%w: %q: %s", ErrBadSource, src.Name, err.Error())
		}
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	return nil
}
