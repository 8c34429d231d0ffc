// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package gw2

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gamers-hell/magpie/model"
)

// The API exposes geography, not a chat-code index, so resolving a code
// means walking continents → floors → regions → maps → points of
// interest until the code turns up. That makes this the most expensive
// enrichment step; results are memoized per client and the walk stops
// as soon as every requested code has been located.

const waypointPOIType = "waypoint"

type continentDocument struct {
	ID     int   `json:"id"`
	Floors []int `json:"floors"`
}

type floorDocument struct {
	Regions map[string]struct {
		Maps map[string]struct {
			PointsOfInterest map[string]poiDocument `json:"points_of_interest"`
		} `json:"maps"`
	} `json:"regions"`
}

type poiDocument struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ChatLink string `json:"chat_link"`
}

// ResolveWaypoints resolves chat codes to waypoint names. The returned
// map holds exactly one key per distinct requested code, in the exact
// form it was requested — callers index it blindly — mapped to the
// resolved entry or nil when the code was found nowhere in the
// geography. Surrounding whitespace is ignored for matching only. Any
// upstream failure degrades to nil values, never an error.
func (c *Client) ResolveWaypoints(ctx context.Context, codes []string) map[string]*model.WaypointEntry {
	result := make(map[string]*model.WaypointEntry, len(codes))
	lookup := make(map[string]string, len(codes))
	for _, code := range codes {
		if _, ok := result[code]; ok {
			continue
		}
		result[code] = nil
		if trimmed := strings.TrimSpace(code); trimmed != "" {
			lookup[code] = trimmed
		}
	}
	if len(lookup) == 0 {
		return result
	}

	c.waypoints.scan.Lock()
	defer c.waypoints.scan.Unlock()

	pending := map[string]bool{}
	for _, trimmed := range lookup {
		if _, ok := c.waypoints.get(trimmed); !ok {
			pending[trimmed] = true
		}
	}
	if len(pending) > 0 {
		c.scanGeography(ctx, pending)
	}

	for code, trimmed := range lookup {
		if entry, ok := c.waypoints.get(trimmed); ok {
			e := entry
			result[code] = &e
		}
	}
	return result
}

// scanGeography walks the continent hierarchy caching every matching
// waypoint until pending is drained or the geography runs out. Failed
// floor chunks are skipped; their waypoints stay unresolved.
func (c *Client) scanGeography(ctx context.Context, pending map[string]bool) {
	logger := c.contextLogger(ctx)

	body, err := c.sendRequest(ctx, c.baseURL+"/continents")
	if err != nil {
		logger.Warn("waypoint scan could not list continents", zap.Error(err))
		c.measures.WaypointScans.With(prometheus.Labels{OutcomeLabel: FailureOutcome}).Add(1)
		return
	}
	var continentIDs []int
	if err := json.Unmarshal(body, &continentIDs); err != nil {
		logger.Warn("waypoint scan could not decode continent listing",
			zap.Error(fmt.Errorf(errWrappedFmt, errJSONUnmarshal, err.Error())))
		c.measures.WaypointScans.With(prometheus.Labels{OutcomeLabel: FailureOutcome}).Add(1)
		return
	}

	for _, continentID := range continentIDs {
		if len(pending) == 0 {
			break
		}
		c.scanContinent(ctx, continentID, pending)
	}
	c.measures.WaypointScans.With(prometheus.Labels{OutcomeLabel: SuccessOutcome}).Add(1)
}

func (c *Client) scanContinent(ctx context.Context, continentID int, pending map[string]bool) {
	logger := c.contextLogger(ctx)

	body, err := c.sendRequest(ctx, fmt.Sprintf("%s/continents/%d", c.baseURL, continentID))
	if err != nil {
		logger.Warn("skipping continent", zap.Int("continent", continentID), zap.Error(err))
		return
	}
	var continent continentDocument
	if err := json.Unmarshal(body, &continent); err != nil {
		logger.Warn("skipping undecodable continent",
			zap.Int("continent", continentID),
			zap.Error(fmt.Errorf(errWrappedFmt, errJSONUnmarshal, err.Error())))
		return
	}

	for _, chunk := range chunkInts(continent.Floors, c.chunkSize) {
		if len(pending) == 0 {
			return
		}
		url := fmt.Sprintf("%s/continents/%d/floors?ids=%s", c.baseURL, continentID, joinInts(chunk))
		body, err := c.sendRequest(ctx, url)
		if err != nil {
			logger.Warn("skipping floor chunk", zap.Int("continent", continentID), zap.Error(err))
			continue
		}
		var floors []floorDocument
		if err := json.Unmarshal(body, &floors); err != nil {
			logger.Warn("skipping undecodable floor chunk",
				zap.Int("continent", continentID),
				zap.Error(fmt.Errorf(errWrappedFmt, errJSONUnmarshal, err.Error())))
			continue
		}
		c.harvestFloors(floors, pending)
	}
}

func (c *Client) harvestFloors(floors []floorDocument, pending map[string]bool) {
	for _, floor := range floors {
		for _, region := range floor.Regions {
			for _, floorMap := range region.Maps {
				for _, poi := range floorMap.PointsOfInterest {
					code := strings.TrimSpace(poi.ChatLink)
					if poi.Type != waypointPOIType || poi.Name == "" || !pending[code] {
						continue
					}
					c.waypoints.put(code, model.WaypointEntry{
						Name:     poi.Name,
						WikiLink: model.WikiLink(poi.Name, c.locale),
					})
					delete(pending, code)
					if len(pending) == 0 {
						return
					}
				}
			}
		}
	}
}
