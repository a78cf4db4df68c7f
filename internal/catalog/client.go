package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stylus/internal/config"
	"stylus/internal/match"
	"stylus/internal/services"
	"stylus/internal/textutil"
)

// Query carries the local-track fields a candidate search runs against.
// MaxResults and MinScore bound the returned candidate set.
type Query struct {
	Title               string
	Artist              string
	DurationHintSeconds float64
	MaxResults          int
	MinScore            float64
}

// Searcher defines the catalog operations the reconciler drives.
type Searcher interface {
	SearchCandidates(ctx context.Context, query Query) ([]Candidate, error)
	TrackDetails(ctx context.Context, catalogID int64) (*Track, error)
}

// Client provides access to the catalog search and detail endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	overfetch  int
	httpClient *http.Client
	limiter    *rate.Limiter
	scorer     *match.Scorer
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a catalog client. Each client owns its rate limiter, so
// concurrent batches pace their requests independently.
func New(cfg config.Catalog, scorer *match.Scorer, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	if scorer == nil {
		return nil, errors.New("scorer required")
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay := cfg.RequestDelay(); delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	client := &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		overfetch:  cfg.Overfetch,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    limiter,
		scorer:     scorer,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchCandidates queries the catalog by free text built from title and
// artist, scores every hit against the local track, drops hits below
// query.MinScore, and returns at most query.MaxResults candidates ordered
// best first.
func (c *Client) SearchCandidates(ctx context.Context, query Query) ([]Candidate, error) {
	text := buildQueryText(query.Title, query.Artist)
	if text == "" {
		return nil, errors.New("query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/search/tracks")
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	params := url.Values{}
	params.Set("q", text)
	if c.overfetch > 0 {
		params.Set("per_page", strconv.Itoa(c.overfetch))
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "catalog", "search",
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "catalog", "search",
			fmt.Sprintf("catalog search returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "catalog", "search",
			"decode search response", err)
	}

	return c.rank(query, payload.Results), nil
}

// TrackDetails fetches the complete tag set for one catalog entry.
func (c *Client) TrackDetails(ctx context.Context, catalogID int64) (*Track, error) {
	if catalogID <= 0 {
		return nil, errors.New("catalog id must be positive")
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/tracks/%d", c.baseURL, catalogID))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if c.apiKey != "" {
		params := url.Values{}
		params.Set("api_key", c.apiKey)
		endpoint.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "catalog", "track details",
			fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "track details",
			fmt.Sprintf("catalog id %d does not resolve", catalogID), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "catalog", "track details",
			fmt.Sprintf("catalog details returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload Track
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrCatalogUnavailable, "catalog", "track details",
			"decode details response", err)
	}
	return &payload, nil
}

// rank scores the wire hits against the local track and keeps the ordered
// survivors.
func (c *Client) rank(query Query, hits []Candidate) []Candidate {
	local := match.Track{
		Title:           query.Title,
		Artist:          query.Artist,
		DurationSeconds: query.DurationHintSeconds,
	}
	scorable := make([]match.Track, len(hits))
	for i, hit := range hits {
		scorable[i] = match.Track{
			Title:           hit.Title,
			MixName:         hit.MixName,
			Artist:          hit.Artists,
			DurationSeconds: hit.DurationSeconds,
		}
	}

	ranked := c.scorer.Rank(local, scorable, query.MinScore, query.MaxResults)
	candidates := make([]Candidate, 0, len(ranked))
	for _, entry := range ranked {
		candidate := hits[entry.Index]
		candidate.Score = entry.Score
		candidates = append(candidates, candidate)
	}
	return candidates
}

// buildQueryText assembles the free-text search from artist and title.
// Bracketed mix suffixes are stripped so "Strobe (Club Edit)" still finds
// entries the catalog stores under the bare title.
func buildQueryText(title, artist string) string {
	title = strings.TrimSpace(textutil.StripBracketed(title))
	artist = strings.TrimSpace(artist)
	return strings.TrimSpace(artist + " " + title)
}
