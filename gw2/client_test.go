// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package gw2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeasures() *Measures {
	return &Measures{
		ChunkRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: ChunkRequestCounter}, []string{EndpointLabel, OutcomeLabel}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: CacheLookupCounter}, []string{CacheLabel, OutcomeLabel}),
		WaypointScans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: WaypointScanCounter}, []string{OutcomeLabel}),
	}
}

func testClient(t *testing.T, address string) *Client {
	c, err := NewClient(ClientConfig{
		Address:           address,
		RequestsPerSecond: 10000,
	}, testMeasures(), nil)
	require.NoError(t, err)
	return c
}

func TestValidateClientConfig(t *testing.T) {
	tcs := []struct {
		Description string
		Input       ClientConfig
		ExpectedErr error
	}{
		{
			Description: "Defaults applied",
			Input:       ClientConfig{},
		},
		{
			Description: "Chunk size over the API limit",
			Input:       ClientConfig{ChunkSize: MaxChunkSize + 1},
			ExpectedErr: ErrChunkSizeTooLarge,
		},
	}
	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			err := validateClientConfig(&tc.Input)
			if tc.ExpectedErr != nil {
				assert.ErrorIs(err, tc.ExpectedErr)
				return
			}
			assert.NoError(err)
			assert.Equal(DefaultAddress, tc.Input.Address)
			assert.Equal(http.DefaultClient, tc.Input.HTTPClient)
			assert.Equal(MaxChunkSize, tc.Input.ChunkSize)
			assert.Equal(float64(defaultRequestsPerSecond), tc.Input.RequestsPerSecond)
			assert.Equal("en", tc.Input.Locale)
			assert.NotNil(tc.Input.Logger)
		})
	}
}

func TestNewClientNilMeasures(t *testing.T) {
	assert := assert.New(t)
	c, err := NewClient(ClientConfig{}, nil, nil)
	assert.Nil(c)
	assert.ErrorIs(err, ErrNilMeasures)
}

func TestResolveDetails(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var requests int
	var requestsLock sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsLock.Lock()
		requests++
		requestsLock.Unlock()
		require.Equal("/v2/items", r.URL.Path)
		require.Equal("19721,68063", r.URL.Query().Get("ids"))
		require.Equal("en", r.URL.Query().Get("lang"))
		w.Write([]byte(`[
			{"id": 19721, "name": "Glob of Ectoplasm", "rarity": "Exotic",
			 "vendor_value": 256, "chat_link": "[&AgFJTQAA]"},
			{"id": 68063, "name": "Amalgamated Gemstone", "rarity": "Rare",
			 "flags": ["AccountBound"]}
		]`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	// duplicate and non-positive ids are folded away
	details := c.ResolveDetails(context.Background(), []int{19721, 68063, 19721, 0, -4})
	require.Len(details, 2)
	assert.Equal("Glob of Ectoplasm", details[19721].Name)
	assert.Equal(int64(256), details[19721].VendorValue)
	assert.False(details[19721].AccountBound())
	assert.True(details[68063].AccountBound())

	// second resolution is served entirely from cache
	details = c.ResolveDetails(context.Background(), []int{19721, 68063})
	assert.Len(details, 2)
	assert.Equal(1, requests)
}

func TestResolveDetailsChunking(t *testing.T) {
	assert := assert.New(t)

	var chunks []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunks = append(chunks, r.URL.Query().Get("ids"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{
		Address:           server.URL,
		ChunkSize:         2,
		RequestsPerSecond: 10000,
	}, testMeasures(), nil)
	assert.NoError(err)

	details := c.ResolveDetails(context.Background(), []int{1, 2, 3, 4, 5})
	assert.Empty(details)
	assert.Equal([]string{"1,2", "3,4", "5"}, chunks)
}

func TestResolveDetailsPartialFailure(t *testing.T) {
	assert := assert.New(t)

	var fail bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fail = !fail
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"id": 3, "name": "Survivor"}, {"id": 4, "name": "Also"}]`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{
		Address:           server.URL,
		ChunkSize:         2,
		RequestsPerSecond: 10000,
	}, testMeasures(), nil)
	assert.NoError(err)

	// first chunk fails, second succeeds; the failed ids are just absent
	details := c.ResolveDetails(context.Background(), []int{1, 2, 3, 4})
	assert.Len(details, 2)
	assert.Equal("Survivor", details[3].Name)
}

func TestResolveUnrequestedIDsDropped(t *testing.T) {
	assert := assert.New(t)

	// the upstream answers with a record nobody asked for
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/items":
			w.Write([]byte(`[{"id": 1, "name": "Requested"}, {"id": 999, "name": "Stray"}]`))
		case "/v2/commerce/prices":
			w.Write([]byte(`[{"id": 1, "sells": {"unit_price": 10}}, {"id": 999, "sells": {"unit_price": 99}}]`))
		}
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	details := c.ResolveDetails(context.Background(), []int{1})
	assert.Len(details, 1)
	assert.Equal("Requested", details[1].Name)

	prices := c.ResolvePrices(context.Background(), []int{1})
	assert.Len(prices, 1)
	assert.Equal(int64(10), prices[1].Sell)

	// the stray records were not cached either
	_, cached := c.details.get(999)
	assert.False(cached)
	_, cached = c.prices.get(999)
	assert.False(cached)
}

func TestResolvePrices(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/v2/commerce/prices", r.URL.Path)
		w.Write([]byte(`[
			{"id": 19721,
			 "sells": {"unit_price": 2048, "quantity": 12000},
			 "buys": {"unit_price": 2040, "quantity": 300}},
			{"id": 24277}
		]`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	prices := c.ResolvePrices(context.Background(), []int{19721, 24277, 99999})
	require.Len(prices, 2)
	assert.Equal(int64(2048), prices[19721].Sell)
	assert.Equal(int64(2040), prices[19721].Buy)
	assert.Equal(int64(300), prices[19721].Demand)

	// missing sells/buys sub-objects default to zero
	assert.Zero(prices[24277].Sell)
	assert.Zero(prices[24277].Buy)

	// unlisted ids have no entry at all
	_, listed := prices[99999]
	assert.False(listed)
}

func TestAuthHeader(t *testing.T) {
	assert := assert.New(t)

	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c, err := NewClient(ClientConfig{
		Address:           server.URL,
		Auth:              Auth{APIKey: "secret-key"},
		RequestsPerSecond: 10000,
	}, testMeasures(), nil)
	assert.NoError(err)

	c.ResolveDetails(context.Background(), []int{1})
	assert.Equal("Bearer secret-key", header)
}

func TestChunkInts(t *testing.T) {
	tcs := []struct {
		Description string
		IDs         []int
		Size        int
		Expected    [][]int
	}{
		{
			Description: "Empty input",
			Size:        200,
		},
		{
			Description: "Single partial chunk",
			IDs:         []int{1, 2, 3},
			Size:        200,
			Expected:    [][]int{{1, 2, 3}},
		},
		{
			Description: "Exact multiple",
			IDs:         []int{1, 2, 3, 4},
			Size:        2,
			Expected:    [][]int{{1, 2}, {3, 4}},
		},
		{
			Description: "Remainder chunk",
			IDs:         []int{1, 2, 3, 4, 5},
			Size:        2,
			Expected:    [][]int{{1, 2}, {3, 4}, {5}},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert.Equal(t, tc.Expected, chunkInts(tc.IDs, tc.Size))
		})
	}
}

func TestJoinInts(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("", joinInts(nil))
	assert.Equal("7", joinInts([]int{7}))
	assert.Equal("1,2,3", joinInts([]int{1, 2, 3}))
}
