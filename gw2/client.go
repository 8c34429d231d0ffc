// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package gw2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/xmidt-org/bascule/acquire"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Errors that can be returned by this package. Since some of these errors
// are returned wrapped, it is safest to use errors.Is() to check for them.
var (
	ErrNilMeasures         = errors.New("measures cannot be nil")
	ErrChunkSizeTooLarge   = errors.New("chunk size exceeds the API limit")
	ErrAuthAcquirerFailure = errors.New("failed acquiring auth token")
)

var (
	errNonSuccessResponse = errors.New("the API responded with a non-success status code")
	errNewRequestFailure  = errors.New("failed creating an HTTP request")
	errDoRequestFailure   = errors.New("http client failed while sending request")
	errReadingBodyFailure = errors.New("failed while reading http response body")
	errJSONUnmarshal      = errors.New("failed unmarshaling JSON response payload")
)

const (
	// DefaultAddress is the public Guild Wars 2 API.
	DefaultAddress = "https://api.guildwars2.com"

	// MaxChunkSize is the upstream limit on ids per request.
	MaxChunkSize = 200

	defaultRequestsPerSecond = 5

	errWrappedFmt    = "%w: %s"
	errStatusCodeFmt = "%w: received status %v"
)

// Auth contains authorization data for requests to the API. The v2 API
// accepts an account API key as a bearer token on authenticated
// endpoints; none of the endpoints this client uses require one, but a
// configured key raises the per-key rate limit.
type Auth struct {
	APIKey string
}

// ClientConfig contains config data for the enrichment client.
type ClientConfig struct {
	// Address is the API base URL.
	// (Optional) Defaults to DefaultAddress.
	Address string

	// HTTPClient refers to the client that will be used to send requests.
	// (Optional) Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Auth provides the mechanism to add auth headers to outgoing
	// requests. (Optional) If not provided, no auth headers are added.
	Auth Auth

	// Logger to be used by the client.
	// (Optional) By default a no op logger will be used.
	Logger *zap.Logger

	// ChunkSize bounds how many ids are packed into one request.
	// (Optional) Defaults to MaxChunkSize; values above it are rejected.
	ChunkSize int

	// RequestsPerSecond paces requests to respect upstream rate limits.
	// (Optional) Defaults to 5.
	RequestsPerSecond float64

	// Locale selects the language for names and wiki links.
	// (Optional) Defaults to "en".
	Locale string
}

// Client resolves item ids and waypoint chat codes against the GW2 v2
// API with bounded-size batches, per-session caches and partial-failure
// tolerance. A failed chunk contributes no entries; callers observe
// missing keys, never errors, for unresolvable ids.
type Client struct {
	client    *http.Client
	auth      acquire.Acquirer
	baseURL   string
	logger    *zap.Logger
	getLogger func(context.Context) *zap.Logger
	chunkSize int
	locale    string
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[[]byte]
	measures  *Measures

	details   *idCache[ItemDetail]
	prices    *idCache[ItemPrice]
	waypoints *waypointCache
}

// NewClient creates a Client from the given configuration. The session
// caches belong to the returned instance; independent pipelines get
// independent caches.
func NewClient(config ClientConfig, measures *Measures, getLogger func(context.Context) *zap.Logger) (*Client, error) {
	if err := validateClientConfig(&config); err != nil {
		return nil, err
	}
	if measures == nil {
		return nil, ErrNilMeasures
	}
	if getLogger == nil {
		getLogger = sallust.Get
	}

	return &Client{
		client:    config.HTTPClient,
		auth:      buildAuthAcquirer(config.Auth),
		baseURL:   strings.TrimSuffix(config.Address, "/") + "/v2",
		logger:    config.Logger,
		getLogger: getLogger,
		chunkSize: config.ChunkSize,
		locale:    config.Locale,
		limiter:   rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		breaker:   newBreaker(),
		measures:  measures,
		details:   newIDCache[ItemDetail](),
		prices:    newIDCache[ItemPrice](),
		waypoints: newWaypointCache(),
	}, nil
}

// sendRequest performs one paced GET through the circuit breaker and
// returns the raw body. Any non-2xx status is an error; the policy of
// degrading to "contributes nothing" belongs to the callers.
func (c *Client) sendRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, url)
	})
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errNewRequestFailure, err.Error())
	}
	if err := acquire.AddAuth(r, c.auth); err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrAuthAcquirerFailure, err.Error())
	}
	resp, err := c.client.Do(r)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errDoRequestFailure, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf(errStatusCodeFmt, errNonSuccessResponse, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, errReadingBodyFailure, err.Error())
	}
	return body, nil
}

func (c *Client) contextLogger(ctx context.Context) *zap.Logger {
	l := c.getLogger(ctx)
	if l == nil {
		l = c.logger
	}
	return l
}

func newBreaker() *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "gw2-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})
}

func buildAuthAcquirer(auth Auth) acquire.Acquirer {
	if auth.APIKey != "" {
		if a, err := acquire.NewFixedAuthAcquirer("Bearer " + auth.APIKey); err == nil {
			return a
		}
	}
	return &acquire.DefaultAcquirer{}
}

func validateClientConfig(config *ClientConfig) error {
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = MaxChunkSize
	}
	if config.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: %v > %v", ErrChunkSizeTooLarge, config.ChunkSize, MaxChunkSize)
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaultRequestsPerSecond
	}
	if config.Locale == "" {
		config.Locale = "en"
	}
	return nil
}

// chunkInts partitions ids into consecutive chunks of at most size.
func chunkInts(ids []int, size int) [][]int {
	var chunks [][]int
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func idSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// joinInts renders ids as the comma-separated list the API expects.
func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
