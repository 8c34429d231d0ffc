// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package eventapi

import (
	"go.uber.org/fx"
)

// ProvideHandlers builds the named HTTP handlers for this API.
func ProvideHandlers() fx.Option {
	return fx.Provide(
		fx.Annotated{
			Name:   "get_events_handler",
			Target: newGetEventsHandler,
		},
		fx.Annotated{
			Name:   "refresh_handler",
			Target: newRefreshHandler,
		},
		fx.Annotated{
			Name:   "snapshot_info_handler",
			Target: newSnapshotInfoHandler,
		},
		fx.Annotated{
			Name:   "clear_snapshot_handler",
			Target: newClearSnapshotHandler,
		},
	)
}
