// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package gw2

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ItemDetail is the item metadata record returned by the items endpoint.
type ItemDetail struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon"`
	Rarity      string   `json:"rarity"`
	Flags       []string `json:"flags"`
	VendorValue int64    `json:"vendor_value"`
	ChatLink    string   `json:"chat_link"`
}

// AccountBound reports whether the item's flags mark it account bound.
func (d ItemDetail) AccountBound() bool {
	for _, flag := range d.Flags {
		if flag == "AccountBound" {
			return true
		}
	}
	return false
}

// ItemPrice is the trading post listing for one item, in copper. Absent
// sells/buys sub-objects upstream yield zero values here, per the
// documented defaulting policy.
type ItemPrice struct {
	ID     int
	Sell   int64
	Buy    int64
	Demand int64
}

// priceDocument matches the wire shape of the commerce prices endpoint.
type priceDocument struct {
	ID    int `json:"id"`
	Sells struct {
		UnitPrice int64 `json:"unit_price"`
		Quantity  int64 `json:"quantity"`
	} `json:"sells"`
	Buys struct {
		UnitPrice int64 `json:"unit_price"`
		Quantity  int64 `json:"quantity"`
	} `json:"buys"`
}

// ResolveDetails resolves item ids to their detail records. Ids resolved
// earlier in the session are served from cache and generate no network
// traffic; the rest are fetched in bounded chunks. A chunk that fails is
// logged, counted and skipped — its ids are simply missing from the
// result.
func (c *Client) ResolveDetails(ctx context.Context, ids []int) map[int]ItemDetail {
	result, owned, waits := c.details.begin(ids)
	c.countCacheLookups(detailsCache, len(result), len(owned))

	if len(owned) > 0 {
		wanted := idSet(owned)
		fetched := map[int]ItemDetail{}
		for _, chunk := range chunkInts(owned, c.chunkSize) {
			url := fmt.Sprintf("%s/items?ids=%s&lang=%s", c.baseURL, joinInts(chunk), c.locale)
			body, err := c.requestChunk(ctx, itemsEndpoint, url, len(chunk))
			if err != nil {
				continue
			}
			var entries []ItemDetail
			if err := json.Unmarshal(body, &entries); err != nil {
				c.contextLogger(ctx).Warn("skipping undecodable item detail chunk",
					zap.Error(fmt.Errorf(errWrappedFmt, errJSONUnmarshal, err.Error())))
				continue
			}
			// ids nobody asked for are dropped, not cached
			for _, entry := range entries {
				if wanted[entry.ID] {
					fetched[entry.ID] = entry
				}
			}
		}
		c.details.commit(fetched, owned)
		for id, entry := range fetched {
			result[id] = entry
		}
	}

	c.awaitInflight(ctx, waits, func(id int) {
		if entry, ok := c.details.get(id); ok {
			result[id] = entry
		}
	})
	return result
}

// ResolvePrices resolves item ids to trading post prices with the same
// batching, caching and partial-failure policy as ResolveDetails. Items
// that are not tradable simply have no entry in the result.
func (c *Client) ResolvePrices(ctx context.Context, ids []int) map[int]ItemPrice {
	result, owned, waits := c.prices.begin(ids)
	c.countCacheLookups(pricesCache, len(result), len(owned))

	if len(owned) > 0 {
		wanted := idSet(owned)
		fetched := map[int]ItemPrice{}
		for _, chunk := range chunkInts(owned, c.chunkSize) {
			url := fmt.Sprintf("%s/commerce/prices?ids=%s", c.baseURL, joinInts(chunk))
			body, err := c.requestChunk(ctx, pricesEndpoint, url, len(chunk))
			if err != nil {
				continue
			}
			var docs []priceDocument
			if err := json.Unmarshal(body, &docs); err != nil {
				c.contextLogger(ctx).Warn("skipping undecodable price chunk",
					zap.Error(fmt.Errorf(errWrappedFmt, errJSONUnmarshal, err.Error())))
				continue
			}
			for _, doc := range docs {
				if !wanted[doc.ID] {
					continue
				}
				fetched[doc.ID] = ItemPrice{
					ID:     doc.ID,
					Sell:   doc.Sells.UnitPrice,
					Buy:    doc.Buys.UnitPrice,
					Demand: doc.Buys.Quantity,
				}
			}
		}
		c.prices.commit(fetched, owned)
		for id, price := range fetched {
			result[id] = price
		}
	}

	c.awaitInflight(ctx, waits, func(id int) {
		if price, ok := c.prices.get(id); ok {
			result[id] = price
		}
	})
	return result
}

// requestChunk wraps sendRequest with the per-chunk outcome accounting
// and logging shared by the id-batched endpoints.
func (c *Client) requestChunk(ctx context.Context, endpoint, url string, size int) ([]byte, error) {
	body, err := c.sendRequest(ctx, url)
	outcome := SuccessOutcome
	if err != nil {
		outcome = FailureOutcome
		c.contextLogger(ctx).Warn("chunk contributed no entries",
			zap.String("endpoint", endpoint), zap.Int("ids", size), zap.Error(err))
	}
	c.measures.ChunkRequests.With(prometheus.Labels{
		EndpointLabel: endpoint, OutcomeLabel: outcome}).Add(1)
	return body, err
}

// awaitInflight blocks on fetches owned by concurrent callers, then
// collects whatever they managed to cache. A canceled context abandons
// the wait; the affected ids are reported as missing.
func (c *Client) awaitInflight(ctx context.Context, waits map[int]chan struct{}, collect func(id int)) {
	for id, ch := range waits {
		select {
		case <-ch:
			collect(id)
		case <-ctx.Done():
		}
	}
}

func (c *Client) countCacheLookups(cache string, hits, misses int) {
	if hits > 0 {
		c.measures.CacheLookups.With(prometheus.Labels{
			CacheLabel: cache, OutcomeLabel: HitOutcome}).Add(float64(hits))
	}
	if misses > 0 {
		c.measures.CacheLookups.With(prometheus.Labels{
			CacheLabel: cache, OutcomeLabel: MissOutcome}).Add(float64(misses))
	}
}
