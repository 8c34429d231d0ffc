// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

// Package enrich merges upstream item, price and waypoint data into the
// aggregated event set and derives the presentation fields.
package enrich

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gamers-hell/magpie/gw2"
	"github.com/gamers-hell/magpie/model"
)

// Merge projects the resolved lookups onto events in place. Ids and
// codes missing from the lookups leave the corresponding fields at the
// best effort derivable from the event document alone. Merge is
// idempotent; running it twice with the same inputs changes nothing.
func Merge(events []model.Event, details map[int]gw2.ItemDetail, prices map[int]gw2.ItemPrice, waypoints map[string]*model.WaypointEntry, locale string) {
	for i := range events {
		ev := &events[i]
		if ev.Name != "" {
			ev.WikiLink = model.WikiLink(ev.Name, locale)
		}
		if m := ev.MapName(); m != "" {
			ev.MapWikiLink = model.WikiLink(m, locale)
		}
		if wp := waypoints[ev.ChatLink()]; wp != nil {
			ev.WaypointName = wp.Name
			ev.WaypointWikiLink = wp.WikiLink
		}
		for j := range ev.Loot {
			mergeLoot(&ev.Loot[j], details, prices, locale)
		}
	}
}

func mergeLoot(item *model.LootItem, details map[int]gw2.ItemDetail, prices map[int]gw2.ItemPrice, locale string) {
	if detail, ok := details[item.ID]; ok {
		if detail.Name != "" {
			item.Name = detail.Name
		}
		if detail.Rarity != "" {
			item.Rarity = detail.Rarity
		}
		item.Icon = detail.Icon
		item.VendorValue = detail.VendorValue
		item.AccountBound = detail.AccountBound()
	}
	if price, ok := prices[item.ID]; ok {
		item.Price = price.Sell
	}
	// items without an id still get a wiki link from their literal name
	if item.Name != "" {
		item.WikiLink = model.WikiLink(item.Name, locale)
	}
}

// Value is what one copy of the item is worth in copper: the trading
// post sell price when the item is listed, the vendor value otherwise.
func Value(item model.LootItem) int64 {
	if item.Price > 0 {
		return item.Price
	}
	return item.VendorValue
}

// MostValuableDrop picks the loot item worth featuring: highest Value,
// rarer rarity breaking ties. The second return is false when the event
// has no loot.
func MostValuableDrop(e model.Event) (model.LootItem, bool) {
	if len(e.Loot) == 0 {
		return model.LootItem{}, false
	}
	best := e.Loot[0]
	for _, item := range e.Loot[1:] {
		if Value(item) > Value(best) {
			best = item
			continue
		}
		if Value(item) == Value(best) && model.RarityRank(item.Rarity) < model.RarityRank(best.Rarity) {
			best = item
		}
	}
	return best, true
}

// FormatCoins renders copper as the usual gold/silver/copper triple,
// omitting leading zero units. Zero renders as "0c".
func FormatCoins(copper int64) string {
	if copper <= 0 {
		return "0c"
	}
	gold := copper / 10000
	silver := (copper % 10000) / 100
	rest := copper % 100

	var parts []string
	if gold > 0 {
		parts = append(parts, fmt.Sprintf("%dg", gold))
	}
	if gold > 0 || silver > 0 {
		parts = append(parts, fmt.Sprintf("%ds", silver))
	}
	parts = append(parts, fmt.Sprintf("%dc", rest))
	return strings.Join(parts, " ")
}

// Summary is the one-line description of an event used by list views.
func Summary(e model.Event) string {
	var b strings.Builder
	b.WriteString(e.Name)
	if m := e.MapName(); m != "" {
		fmt.Fprintf(&b, " (%s)", m)
	}
	if drop, ok := MostValuableDrop(e); ok {
		fmt.Fprintf(&b, ", top drop: %s (%s)", drop.Name, FormatCoins(Value(drop)))
	}
	return b.String()
}

// ExpansionGroup is one expansion's slice of the event set.
type ExpansionGroup struct {
	Expansion string        `json:"expansion"`
	Events    []model.Event `json:"events"`
}

// GroupByExpansion buckets events by expansion, alphabetically, with
// the unknown bucket last. Event order within a bucket follows the
// input order.
func GroupByExpansion(events []model.Event) []ExpansionGroup {
	buckets := map[string][]model.Event{}
	for _, ev := range events {
		buckets[ev.Expansion] = append(buckets[ev.Expansion], ev)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == model.UnknownExpansion {
			return false
		}
		if names[j] == model.UnknownExpansion {
			return true
		}
		return names[i] < names[j]
	})

	groups := make([]ExpansionGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, ExpansionGroup{Expansion: name, Events: buckets[name]})
	}
	return groups
}
