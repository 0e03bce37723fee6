// Package kalshi integrates the Jupiter Predictions venue, whose market
// data and pricing are backed by the Kalshi Trade API v2.
package kalshi

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polydraft/venues/internal/domain"
)

// Client is the REST client for the Kalshi Trade API v2. Market-data
// endpoints work unauthenticated; requests are RSA-signed only when a
// private key has been configured.
type Client struct {
	baseURL    string
	apiKeyID   string
	privateKey *rsa.PrivateKey
	httpClient *http.Client
}

// NewClient creates a new Kalshi REST client.
//
// baseURL is the API root, e.g. "https://api.elections.kalshi.com/trade-api/v2".
func NewClient(baseURL, apiKeyID string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKeyID: apiKeyID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetRSAPrivateKey loads an RSA private key from PEM-encoded bytes and
// enables signed authentication on every subsequent request.
func (c *Client) SetRSAPrivateKey(pemBytes []byte) error {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return fmt.Errorf("kalshi: no PEM block found in private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		// Try PKCS1 as fallback.
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return fmt.Errorf("kalshi: parse private key: %w (pkcs1: %v)", err, pkcs1Err)
		}
		c.privateKey = pkcs1Key
		return nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return fmt.Errorf("kalshi: expected RSA private key, got %T", key)
	}
	c.privateKey = rsaKey
	return nil
}

// ListParams are the raw market listing filters of GET /markets.
type ListParams struct {
	Limit        int
	Cursor       string
	EventTicker  string
	SeriesTicker string
	Status       string
	Tickers      string
	MinCloseTS   int64
	MaxCloseTS   int64
}

// ListMarkets returns one page of markets plus the cursor for the next page.
// An empty returned cursor means the listing is exhausted.
func (c *Client) ListMarkets(ctx context.Context, p ListParams) ([]Market, string, error) {
	params := url.Values{}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Cursor != "" {
		params.Set("cursor", p.Cursor)
	}
	if p.EventTicker != "" {
		params.Set("event_ticker", p.EventTicker)
	}
	if p.SeriesTicker != "" {
		params.Set("series_ticker", p.SeriesTicker)
	}
	if p.Status != "" {
		params.Set("status", p.Status)
	}
	if p.Tickers != "" {
		params.Set("tickers", p.Tickers)
	}
	if p.MinCloseTS > 0 {
		params.Set("min_close_ts", strconv.FormatInt(p.MinCloseTS, 10))
	}
	if p.MaxCloseTS > 0 {
		params.Set("max_close_ts", strconv.FormatInt(p.MaxCloseTS, 10))
	}

	path := "/markets"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, "", fmt.Errorf("kalshi: list markets: %w", err)
	}

	var resp marketsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("kalshi: decode markets: %w", err)
	}

	return resp.Markets, resp.Cursor, nil
}

// GetMarket returns a single market by its ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (Market, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(ticker))

	body, err := c.doGet(ctx, path)
	if err != nil {
		return Market{}, fmt.Errorf("kalshi: get market %s: %w", ticker, err)
	}

	var resp marketResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Market{}, fmt.Errorf("kalshi: decode market: %w", err)
	}

	return resp.Market, nil
}

// doGet builds, optionally signs, sends, and reads a GET request against
// the Kalshi API.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.privateKey != nil {
		if err := c.signRequest(req, http.MethodGet, path); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := c.checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// signRequest adds RSA authentication headers. Kalshi uses RSA-PSS-SHA256
// signatures over the timestamp + method + path message string.
func (c *Client) signRequest(req *http.Request, method, path string) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	message := ts + method + path

	hash := sha256.Sum256([]byte(message))
	signature, err := rsa.SignPSS(rand.Reader, c.privateKey, crypto.SHA256, hash[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return fmt.Errorf("RSA sign: %w", err)
	}

	req.Header.Set("KALSHI-ACCESS-KEY", c.apiKeyID)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", base64.StdEncoding.EncodeToString(signature))
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", ts)

	return nil
}

// checkStatus maps non-2xx HTTP status codes to appropriate errors.
func (c *Client) checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s (%s)", domain.ErrNotFound, apiErr.Message, apiErr.Code)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s (%s)", domain.ErrUnauthorized, apiErr.Message, apiErr.Code)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s (%s)", domain.ErrRateLimited, apiErr.Message, apiErr.Code)
	default:
		return fmt.Errorf("kalshi: HTTP %d: %s (%s)", statusCode, apiErr.Message, apiErr.Code)
	}
}
