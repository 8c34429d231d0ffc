// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package eventapi

import (
	"context"
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// request URL query keys
const (
	expansionQueryKey = "expansion"
	sourceQueryKey    = "source"
	groupedQueryKey   = "grouped"
)

// Response Headers
const (
	MagpieErrorHeaderKey = "X-Magpie-Error"
)

type getEventsRequest struct {
	expansion string
	source    string
	grouped   bool
}

type refreshResponse struct {
	Events int `json:"events"`
}

type clearSnapshotResponse struct{}

func decodeGetEventsRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	query := r.URL.Query()
	grouped := false
	if raw := query.Get(groupedQueryKey); raw != "" {
		parsed, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, BadRequestErr{Message: "grouped query parameter must be a boolean"}
		}
		grouped = parsed
	}
	return &getEventsRequest{
		expansion: query.Get(expansionQueryKey),
		source:    query.Get(sourceQueryKey),
		grouped:   grouped,
	}, nil
}

func decodeEmptyRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	return nil, nil
}

func encodeJSONResponse(ctx context.Context, rw http.ResponseWriter, response interface{}) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	rw.Header().Add("Content-Type", "application/json")
	rw.Write(data)
	return nil
}

func encodeRefreshResponse(ctx context.Context, rw http.ResponseWriter, response interface{}) error {
	r, ok := response.(*refreshResponse)
	if !ok {
		return ErrCasting
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	rw.Header().Add("Content-Type", "application/json")
	rw.WriteHeader(http.StatusAccepted)
	rw.Write(data)
	return nil
}

func encodeClearSnapshotResponse(ctx context.Context, rw http.ResponseWriter, response interface{}) error {
	if _, ok := response.(*clearSnapshotResponse); !ok {
		return ErrCasting
	}
	rw.WriteHeader(http.StatusNoContent)
	return nil
}

func encodeError(ctx context.Context, err error, w http.ResponseWriter) {
	w.Header().Set(MagpieErrorHeaderKey, err.Error())
	if headerer, ok := err.(kithttp.Headerer); ok {
		for k, values := range headerer.Headers() {
			for _, v := range values {
				w.Header().Add(k, v)
			}
		}
	}
	code := http.StatusInternalServerError
	if sc, ok := err.(kithttp.StatusCoder); ok {
		code = sc.StatusCode()
	}
	w.WriteHeader(code)
}
