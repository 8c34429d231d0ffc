// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package model

// Item rarities, from most to least valuable.
const (
	RarityAscended   = "Ascended"
	RarityExotic     = "Exotic"
	RarityRare       = "Rare"
	RarityMasterwork = "Masterwork"
	RarityFine       = "Fine"
	RarityBasic      = "Basic"
)

// Sentinel grouping values used when a source document omits the field,
// so grouping by expansion or source never fails.
const (
	UnknownExpansion = "Unknown Expansion"
	UnknownSource    = "Unknown Source"
)

// Event is one in-game occurrence worth tracking. Events are produced by
// the source aggregator and enriched in place by the merge stage; the
// enrichment-derived fields (WikiLink, MapWikiLink, WaypointName,
// WaypointWikiLink and the loot metadata) are owned exclusively by that
// stage.
type Event struct {
	Name      string `json:"name"`
	Map       string `json:"map,omitempty"`
	Location  string `json:"location,omitempty"`
	Expansion string `json:"expansion"`

	// SourceName records which configured source produced this event.
	SourceName string `json:"sourceName"`

	// Code is the waypoint chat code, e.g. "[&BEwDAAA=]". Some source
	// documents spell the field "chatcode" instead; ChatLink() folds the
	// two together.
	Code     string `json:"code,omitempty"`
	ChatCode string `json:"chatcode,omitempty"`

	Notes  string     `json:"notes,omitempty"`
	Loot   []LootItem `json:"loot,omitempty"`
	Bosses []string   `json:"bosses,omitempty"`

	WikiLink         string `json:"wikiLink,omitempty"`
	MapWikiLink      string `json:"mapWikiLink,omitempty"`
	WaypointName     string `json:"waypointName,omitempty"`
	WaypointWikiLink string `json:"waypointWikiLink,omitempty"`
}

// ChatLink returns the waypoint chat code for the event, preferring the
// canonical field over the alternate spelling.
func (e *Event) ChatLink() string {
	if e.Code != "" {
		return e.Code
	}
	return e.ChatCode
}

// MapName returns the map the event takes place on. Sources disagree on
// whether the field is called "map" or "location".
func (e *Event) MapName() string {
	if e.Map != "" {
		return e.Map
	}
	return e.Location
}

// LootItem is one potential reward tied to an event. A zero ID means the
// item has no external identifier and cannot be enriched beyond a
// best-effort wiki link derived from its literal name.
//
// Price, VendorValue and related amounts are denominated in copper, the
// smallest currency unit. A zero or absent price means "no market data",
// not "item is free".
type LootItem struct {
	ID         int    `json:"id,omitempty"`
	Name       string `json:"name"`
	Amount     int    `json:"amount,omitempty"`
	Rarity     string `json:"rarity,omitempty"`
	Guaranteed bool   `json:"guaranteed,omitempty"`

	Price        int64  `json:"price,omitempty"`
	VendorValue  int64  `json:"vendorValue,omitempty"`
	AccountBound bool   `json:"accountBound,omitempty"`
	Icon         string `json:"icon,omitempty"`
	WikiLink     string `json:"wikiLink,omitempty"`
}

// RarityRank maps a rarity to its ordering, 0 being the most valuable.
// Unknown rarities rank below Basic.
func RarityRank(rarity string) int {
	switch rarity {
	case RarityAscended:
		return 0
	case RarityExotic:
		return 1
	case RarityRare:
		return 2
	case RarityMasterwork:
		return 3
	case RarityFine:
		return 4
	case RarityBasic:
		return 5
	}
	return 6
}

// WaypointEntry is the cached resolution of a waypoint chat code. Many
// events may share one entry.
type WaypointEntry struct {
	Name     string `json:"name"`
	WikiLink string `json:"wikiLink"`
}
