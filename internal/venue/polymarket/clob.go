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
)

// ClobClient is the REST client for the Polymarket CLOB (Central Limit
// Order Book) pricing API. Only the public, unauthenticated price endpoints
// are used here.
type ClobClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClobClient creates a new CLOB pricing client.
//
// baseURL is the CLOB API root, e.g. "https://clob.polymarket.com".
func NewClobClient(baseURL string) *ClobClient {
	return &ClobClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetMidpoint returns the orderbook midpoint price for a token, a 0-1
// decimal.
func (c *ClobClient) GetMidpoint(ctx context.Context, tokenID string) (float64, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)

	body, err := c.doGet(ctx, "/midpoint?"+params.Encode())
	if err != nil {
		return 0, fmt.Errorf("polymarket/clob: get midpoint %s: %w", tokenID, err)
	}

	var resp struct {
		Mid string `json:"mid"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("polymarket/clob: decode midpoint: %w", err)
	}

	mid, err := strconv.ParseFloat(resp.Mid, 64)
	if err != nil {
		return 0, fmt.Errorf("polymarket/clob: parse midpoint %q: %w", resp.Mid, err)
	}
	return mid, nil
}

// GetPrice returns the best price for a token on the given side ("buy" or
// "sell"), a 0-1 decimal.
func (c *ClobClient) GetPrice(ctx context.Context, tokenID, side string) (float64, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)
	params.Set("side", side)

	body, err := c.doGet(ctx, "/price?"+params.Encode())
	if err != nil {
		return 0, fmt.Errorf("polymarket/clob: get price %s: %w", tokenID, err)
	}

	var resp struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("polymarket/clob: decode price: %w", err)
	}

	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("polymarket/clob: parse price %q: %w", resp.Price, err)
	}
	return price, nil
}

// doGet sends an unauthenticated GET request to the CLOB API.
func (c *ClobClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
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
