// Package client provides the PokeAPI HTTP client with request pacing,
// optional response caching, retries and a closed error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alopesmendes/PokedexAI/pkg/cache"
	"github.com/alopesmendes/PokedexAI/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for PokeAPI client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_requests_total",
		Help: "Total PokeAPI requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokeapi_request_duration_seconds",
		Help:    "PokeAPI request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_errors_total",
		Help: "Total PokeAPI errors by kind",
	}, []string{"kind"})
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2/"

// Client is the PokeAPI client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager // nil disables caching
	config      Config
	baseURL     *url.URL
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root; resource paths are joined onto it.
	BaseURL string

	// Redis enables response caching and shared 429 cool-downs. Optional.
	Redis *redis.Client

	UserAgent string

	// Timeout bounds connect and whole-request time.
	Timeout time.Duration

	// RequestsPerSecond paces outgoing requests; 0 disables pacing.
	RequestsPerSecond int

	// Retry
	MaxRetries     int // retries after the first attempt
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         "PokedexAI/1.0",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 20,
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        10 * time.Second,
	}
}

// New creates a new PokeAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !baseURL.IsAbs() {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.MaxRetries)
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultRetryConfig().InitialBackoff
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}

	logger := log.With().Str("component", "pokeapi-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis, cache.WithLogger(logger))
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.Timeout}).DialContext

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		rateLimiter: ratelimit.NewTracker(cfg.RequestsPerSecond, cfg.Redis, logger),
		cache:       cacheManager,
		config:      cfg,
		baseURL:     baseURL,
		logger:      logger,
	}, nil
}

func (c *Client) retryConfig() RetryConfig {
	rc := DefaultRetryConfig()
	rc.MaxAttempts = c.config.MaxRetries + 1
	rc.InitialBackoff = c.config.InitialBackoff
	rc.MaxBackoff = c.config.MaxBackoff
	return rc
}

// Do performs an HTTP request with pacing, caching and retries.
// Any non-2xx outcome is returned as an *HTTPStatusError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := c.endpointLabel(req.URL.Path)

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check cache
	cacheKey := cache.KeyForURL(req.URL)
	var cachedEntry *cache.CacheEntry
	if c.cache != nil {
		entry, fresh, err := c.cache.Lookup(ctx, cacheKey)
		switch {
		case err != nil && !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache lookup error")
		case fresh:
			requestsTotal.WithLabelValues(endpoint, "cache").Inc()
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("age", entry.Age()).
				Dur("ttl", entry.TTL()).
				Msg("Serving from cache")
			return cache.EntryToResponse(entry), nil
		case entry != nil && cache.ShouldMakeConditionalRequest(entry):
			cachedEntry = entry
			cache.AddConditionalHeaders(req, entry)
			cache.ConditionalRequestsSent.Inc()
			c.logger.Debug().
				Str("endpoint", endpoint).
				Str("etag", entry.ETag).
				Msg("Making conditional request")
		}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", req.URL.String()).
		Msg("Executing PokeAPI request")

	// Step 2: Execute with retry; every attempt takes a pacing slot
	var resp *http.Response
	err := retryWithBackoff(ctx, c.retryConfig(), func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		var reqErr error
		resp, reqErr = c.httpClient.Do(req)
		if reqErr != nil {
			resp = nil
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Warn().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
			return reqErr
		}

		requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if err := c.rateLimiter.UpdateFromResponse(ctx, resp); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update rate limit state")
		}

		if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
			return nil
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Msg("PokeAPI request error")
			drainAndClose(resp.Body)
			resp = nil
			return statusErr
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Step 3: 304 Not Modified serves the revalidated entry
	if resp.StatusCode == http.StatusNotModified {
		cache.NotModifiedResponses.Inc()
		drainAndClose(resp.Body)
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")

		if err := c.cache.Refresh(ctx, cacheKey, cachedEntry, cache.ExpiryFromHeaders(resp.Header)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		return cache.EntryToResponse(cachedEntry), nil
	}

	// Step 4: Store successful responses
	if c.cache != nil && resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			drainAndClose(resp.Body)
			return nil, err
		}
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		}
	}

	return resp, nil
}

// Get performs a GET request for a path relative to the base URL.
func (c *Client) Get(ctx context.Context, query url.Values, path ...string) (*http.Response, error) {
	u := c.baseURL.JoinPath(path...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// FetchPokemonList fetches one page of the Pokémon index.
func (c *Client) FetchPokemonList(ctx context.Context, offset, limit int) (*PokemonListDTO, error) {
	query := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	dto, err := getJSON[PokemonListDTO](ctx, c, query, "pokemon")
	if err != nil {
		return nil, c.fail("pokemon", err)
	}
	return dto, nil
}

// FetchPokemonForm fetches the form record of a named Pokémon.
func (c *Client) FetchPokemonForm(ctx context.Context, name string) (*PokemonFormDTO, error) {
	dto, err := getJSON[PokemonFormDTO](ctx, c, nil, "pokemon-form", name)
	if err != nil {
		return nil, c.fail("pokemon-form", err)
	}
	return dto, nil
}

// FetchPokemonDetail fetches the full record of a named Pokémon.
func (c *Client) FetchPokemonDetail(ctx context.Context, name string) (*PokemonDetailDTO, error) {
	dto, err := getJSON[PokemonDetailDTO](ctx, c, nil, "pokemon", name)
	if err != nil {
		return nil, c.fail("pokemon", err)
	}
	return dto, nil
}

// fail maps err into the taxonomy and records it.
func (c *Client) fail(endpoint string, err error) error {
	apiErr := ToAPIError(err)
	errorsTotal.WithLabelValues(apiErr.Kind.String()).Inc()
	c.logger.Error().
		Err(err).
		Str("endpoint", endpoint).
		Str("kind", apiErr.Kind.String()).
		Int("status", apiErr.StatusCode).
		Msg("PokeAPI request failed")
	return apiErr
}

// getJSON fetches path and decodes its body into T.
func getJSON[T any](ctx context.Context, c *Client, query url.Values, path ...string) (*T, error) {
	resp, err := c.Get(ctx, query, path...)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrNoBody
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
		return nil, fmt.Errorf("%w: content type %q", ErrNoBody, ct)
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &out, nil
}

// endpointLabel reduces a request path to its resource name, e.g.
// "/api/v2/pokemon-form/pikachu" to "pokemon-form".
func (c *Client) endpointLabel(path string) string {
	rel := strings.TrimPrefix(path, c.baseURL.Path)
	rel = strings.Trim(rel, "/")
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		rel = rel[:i]
	}
	if rel == "" {
		return "root"
	}
	return rel
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	body.Close()
}

// Close closes the client and releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager, or nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
