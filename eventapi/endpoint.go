// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package eventapi

import (
	"context"
	"errors"
	"strings"

	"github.com/go-kit/kit/endpoint"

	"github.com/gamers-hell/magpie/enrich"
	"github.com/gamers-hell/magpie/model"
	"github.com/gamers-hell/magpie/snapshot"
)

// Service is the slice of the enrichment pipeline the API needs.
// *enrich.Pipeline satisfies it.
type Service interface {
	Events(ctx context.Context) ([]model.Event, error)
	Refresh(ctx context.Context) ([]model.Event, error)
	SnapshotInfo(ctx context.Context) (snapshot.Info, error)
	ClearSnapshot(ctx context.Context) error
}

func newGetEventsEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		eventsRequest := request.(*getEventsRequest)
		events, err := s.Events(ctx)
		if err != nil {
			return nil, err
		}
		events = filterEvents(events, eventsRequest.expansion, eventsRequest.source)
		if eventsRequest.grouped {
			return enrich.GroupByExpansion(events), nil
		}
		return events, nil
	}
}

func newRefreshEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		events, err := s.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		return &refreshResponse{Events: len(events)}, nil
	}
}

func newSnapshotInfoEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		info, err := s.SnapshotInfo(ctx)
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			return nil, NotFoundErr{Message: "no snapshot stored"}
		}
		if err != nil {
			return nil, err
		}
		return &info, nil
	}
}

func newClearSnapshotEndpoint(s Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		if err := s.ClearSnapshot(ctx); err != nil {
			return nil, err
		}
		return &clearSnapshotResponse{}, nil
	}
}

// filterEvents keeps events matching the requested expansion and
// source. Empty filters match everything; matching ignores case.
func filterEvents(events []model.Event, expansion, source string) []model.Event {
	if expansion == "" && source == "" {
		return events
	}
	filtered := []model.Event{}
	for _, ev := range events {
		if expansion != "" && !strings.EqualFold(ev.Expansion, expansion) {
			continue
		}
		if source != "" && !strings.EqualFold(ev.SourceName, source) {
			continue
		}
		filtered = append(filtered, ev)
	}
	return filtered
}
