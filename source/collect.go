// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"sort"

	"github.com/gamers-hell/magpie/model"
)

// MinChatCodeLen filters out truncated or garbage waypoint tokens; real
// chat codes are never shorter than this.
const MinChatCodeLen = 6

// CollectIDs walks the events and returns the unique positive loot item
// ids and the unique plausible waypoint chat codes that require
// enrichment. Both results are sorted so callers see a deterministic
// order regardless of how the events were assembled. Pure function, no
// side effects.
func CollectIDs(events []model.Event) (itemIDs []int, chatCodes []string) {
	idSet := map[int]bool{}
	codeSet := map[string]bool{}

	for i := range events {
		for _, item := range events[i].Loot {
			if item.ID > 0 {
				idSet[item.ID] = true
			}
		}
		if code := events[i].ChatLink(); len(code) >= MinChatCodeLen {
			codeSet[code] = true
		}
	}

	itemIDs = make([]int, 0, len(idSet))
	for id := range idSet {
		itemIDs = append(itemIDs, id)
	}
	sort.Ints(itemIDs)

	chatCodes = make([]string, 0, len(codeSet))
	for code := range codeSet {
		chatCodes = append(chatCodes, code)
	}
	sort.Strings(chatCodes)
	return itemIDs, chatCodes
}
