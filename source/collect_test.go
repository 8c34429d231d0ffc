// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gamers-hell/magpie/model"
)

func TestCollectIDs(t *testing.T) {
	assert := assert.New(t)

	events := []model.Event{
		{
			Code: "[&BNABAAA=]",
			Loot: []model.LootItem{
				{ID: 19721}, {ID: 68063}, {Name: "no id"},
			},
		},
		{
			ChatCode: "[&BEgAAAA=]",
			Loot:     []model.LootItem{{ID: 19721}, {ID: -3}},
		},
		{
			Code: "[&BNABAAA=]", // duplicate waypoint
		},
		{
			Code: "[&x]", // shorter than a real chat code
		},
	}

	ids, codes := CollectIDs(events)

	// ids are deduplicated, sorted and positive
	assert.Equal([]int{19721, 68063}, ids)

	// codes are deduplicated and keep only plausible chat codes
	assert.Equal([]string{"[&BEgAAAA=]", "[&BNABAAA=]"}, codes)
}

func TestCollectIDsEmpty(t *testing.T) {
	assert := assert.New(t)
	ids, codes := CollectIDs(nil)
	assert.Empty(ids)
	assert.Empty(codes)
}
