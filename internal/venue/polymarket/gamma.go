// Package polymarket integrates the Polymarket venue: the Gamma metadata
// API for market discovery and the CLOB API for pricing.
package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polydraft/venues/internal/domain"
)

// GammaClient is the REST client for the Polymarket Gamma API, which
// provides market discovery, metadata, and search.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGammaClient creates a new Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
func NewGammaClient(baseURL string) *GammaClient {
	return &GammaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListParams are the raw Gamma listing filters. Nil booleans are omitted
// from the query string.
type ListParams struct {
	Active   *bool
	Closed   *bool
	Archived *bool
	Limit    int
	Offset   int
	Category string
	Search   string
}

// ListMarkets returns a page of raw Gamma markets.
func (g *GammaClient) ListMarkets(ctx context.Context, p ListParams) ([]GammaMarket, error) {
	params := url.Values{}
	if p.Active != nil {
		params.Set("active", strconv.FormatBool(*p.Active))
	}
	if p.Closed != nil {
		params.Set("closed", strconv.FormatBool(*p.Closed))
	}
	if p.Archived != nil {
		params.Set("archived", strconv.FormatBool(*p.Archived))
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		params.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Category != "" {
		params.Set("category", p.Category)
	}
	if p.Search != "" {
		params.Set("search", p.Search)
	}

	path := "/markets"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := g.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: list markets: %w", err)
	}

	var markets []GammaMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode markets: %w", err)
	}

	return markets, nil
}

// GetMarket returns a single raw market by its Gamma id.
func (g *GammaClient) GetMarket(ctx context.Context, id string) (GammaMarket, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(id))

	body, err := g.doGet(ctx, path)
	if err != nil {
		return GammaMarket{}, fmt.Errorf("polymarket/gamma: get market %s: %w", id, err)
	}

	var market GammaMarket
	if err := json.Unmarshal(body, &market); err != nil {
		return GammaMarket{}, fmt.Errorf("polymarket/gamma: decode market: %w", err)
	}

	return market, nil
}

// doGet sends an unauthenticated GET request to the Gamma API.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx HTTP status codes to appropriate errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	switch statusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", domain.ErrUnauthorized, statusCode)
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, truncate(body, 200))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
