// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package eventapi

import (
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"
)

type Handler http.Handler

func newGetEventsHandler(s Service) Handler {
	return kithttp.NewServer(
		newGetEventsEndpoint(s),
		decodeGetEventsRequest,
		encodeJSONResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}

func newRefreshHandler(s Service) Handler {
	return kithttp.NewServer(
		newRefreshEndpoint(s),
		decodeEmptyRequest,
		encodeRefreshResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}

func newSnapshotInfoHandler(s Service) Handler {
	return kithttp.NewServer(
		newSnapshotInfoEndpoint(s),
		decodeEmptyRequest,
		encodeJSONResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}

func newClearSnapshotHandler(s Service) Handler {
	return kithttp.NewServer(
		newClearSnapshotEndpoint(s),
		decodeEmptyRequest,
		encodeClearSnapshotResponse,
		kithttp.ServerErrorEncoder(encodeError),
	)
}
