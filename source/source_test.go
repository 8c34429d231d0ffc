// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamers-hell/magpie/model"
)

func testMeasures() *Measures {
	return &Measures{
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SourceFetchCounter}, []string{SourceLabel, OutcomeLabel}),
	}
}

func TestNewAggregator(t *testing.T) {
	tcs := []struct {
		Description string
		Config      AggregatorConfig
		Measures    *Measures
		ExpectedErr error
	}{
		{
			Description: "No sources",
			Config:      AggregatorConfig{},
			Measures:    testMeasures(),
			ExpectedErr: ErrNoSources,
		},
		{
			Description: "Source missing a name",
			Config: AggregatorConfig{Sources: []SourceConfig{
				{URL: "https://example.com/events.json"},
			}},
			Measures:    testMeasures(),
			ExpectedErr: ErrBadSource,
		},
		{
			Description: "Source with a malformed URL",
			Config: AggregatorConfig{Sources: []SourceConfig{
				{Name: "bad", URL: "not a url"},
			}},
			Measures:    testMeasures(),
			ExpectedErr: ErrBadSource,
		},
		{
			Description: "Nil measures",
			Config: AggregatorConfig{Sources: []SourceConfig{
				{Name: "ok", URL: "https://example.com/events.json"},
			}},
			ExpectedErr: ErrNilMeasures,
		},
		{
			Description: "Valid configuration",
			Config: AggregatorConfig{Sources: []SourceConfig{
				{Name: "ok", URL: "https://example.com/events.json"},
			}},
			Measures: testMeasures(),
		},
	}
	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			a, err := NewAggregator(tc.Config, tc.Measures, nil)
			if tc.ExpectedErr != nil {
				assert.Nil(a)
				assert.ErrorIs(err, tc.ExpectedErr)
				return
			}
			assert.NoError(err)
			assert.NotNil(a)
		})
	}
}

func TestNormalize(t *testing.T) {
	tcs := []struct {
		Description string
		Body        string
		ExpectedErr bool
		Expected    []model.Event
	}{
		{
			Description: "Bare event array",
			Body:        `[{"name": "Tequatl the Sunless", "expansion": "Core"}]`,
			Expected: []model.Event{
				{Name: "Tequatl the Sunless", Expansion: "Core", SourceName: "configured"},
			},
		},
		{
			Description: "Wrapped document with its own source name",
			Body:        `{"sourceName": "payload-name", "events": [{"name": "The Shatterer"}]}`,
			Expected: []model.Event{
				{Name: "The Shatterer", Expansion: model.UnknownExpansion, SourceName: "payload-name"},
			},
		},
		{
			Description: "Wrapped document without a source name",
			Body:        `{"events": [{"name": "The Shatterer"}]}`,
			Expected: []model.Event{
				{Name: "The Shatterer", Expansion: model.UnknownExpansion, SourceName: "configured"},
			},
		},
		{
			Description: "Expansion manifest",
			Body: `[{
				"expansion": "Heart of Thorns",
				"sources": [{"sourceName": "meta", "events": [{"name": "Chak Gerent"}]}]
			}]`,
			Expected: []model.Event{
				{Name: "Chak Gerent", Expansion: "Heart of Thorns", SourceName: "meta"},
			},
		},
		{
			Description: "Object of arrays, keys in sorted order",
			Body: `{
				"zone-b": [{"name": "Second"}],
				"zone-a": [{"name": "First"}]
			}`,
			Expected: []model.Event{
				{Name: "First", Expansion: model.UnknownExpansion, SourceName: "configured"},
				{Name: "Second", Expansion: model.UnknownExpansion, SourceName: "configured"},
			},
		},
		{
			Description: "Object of arrays with embedded source name",
			Body: `{
				"sourceName": "embedded",
				"bosses": [{"name": "Karka Queen"}]
			}`,
			Expected: []model.Event{
				{Name: "Karka Queen", Expansion: model.UnknownExpansion, SourceName: "embedded"},
			},
		},
		{
			Description: "Loot rarity defaults to Basic",
			Body:        `[{"name": "x", "loot": [{"name": "thing"}]}]`,
			Expected: []model.Event{
				{
					Name: "x", Expansion: model.UnknownExpansion, SourceName: "configured",
					Loot: []model.LootItem{{Name: "thing", Rarity: model.RarityBasic}},
				},
			},
		},
		{
			Description: "Not JSON at all",
			Body:        `<html>best events</html>`,
			ExpectedErr: true,
		},
		{
			Description: "Unparseable array",
			Body:        `[17, "what"]`,
			ExpectedErr: true,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			events, err := normalize([]byte(tc.Body), "configured")
			if tc.ExpectedErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.Expected, events)
		})
	}
}

func TestFetchOrderAndIsolation(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "from-first"}]`))
	}))
	defer first.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()
	last := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "from-last-1"}, {"name": "from-last-2"}]`))
	}))
	defer last.Close()

	a, err := NewAggregator(AggregatorConfig{Sources: []SourceConfig{
		{Name: "first", URL: first.URL},
		{Name: "broken", URL: broken.URL},
		{Name: "last", URL: last.URL},
	}}, testMeasures(), nil)
	require.NoError(err)

	events := a.Fetch(context.Background())

	// configured source order survives concurrent fetching, and the
	// broken source contributes nothing without failing the rest
	require.Len(events, 3)
	assert.Equal("from-first", events[0].Name)
	assert.Equal("from-last-1", events[1].Name)
	assert.Equal("from-last-2", events[2].Name)
	assert.Equal("first", events[0].SourceName)
}
