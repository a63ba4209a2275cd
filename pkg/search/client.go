// Package search grounds extraction prompts with web search results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/apperrors"
)

// Result is one web search hit.
type Result struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	ExtraSnippets []string `json:"extra_snippets,omitempty"`
}

// Searcher issues grounding searches. Implemented by Client; mock in tests.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Config holds configuration for creating a search client.
type Config struct {
	Endpoint    string        // Base URL of the Brave-compatible search API
	APIKey      string        // Subscription token; empty means unconfigured
	Region      string        // Two-letter country code, e.g. "AU"
	ResultCount int           // Results requested per query
	Timeout     time.Duration // Hard bound on one search call
}

// Client calls a Brave-compatible web search API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	region     string
	count      int
	logger     *zap.Logger
}

// NewClient creates a search client. A missing API key is allowed at
// construction; Search fails with the credential error before any network
// call is made.
func NewClient(cfg *Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	count := cfg.ResultCount
	if count == 0 {
		count = 5
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		region:     cfg.Region,
		count:      count,
		logger:     logger.Named("search"),
	}
}

var _ Searcher = (*Client)(nil)

// braveResponse mirrors the subset of the search API response we read.
type braveResponse struct {
	Web struct {
		Results []Result `json:"results"`
	} `json:"web"`
}

// Search issues one web search. An empty result set is returned as an empty
// slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.apiKey == "" {
		return nil, apperrors.ErrNoSearchCredential
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("country", c.region)
	params.Set("count", strconv.Itoa(c.count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Search upstream error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrSearchUpstream, resp.StatusCode)
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	c.logger.Debug("Search completed",
		zap.Int("results", len(parsed.Web.Results)),
		zap.Duration("elapsed", time.Since(start)))

	return parsed.Web.Results, nil
}
