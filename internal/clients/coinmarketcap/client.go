// Package coinmarketcap is a minimal CoinMarketCap quote client.
package coinmarketcap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client is a CoinMarketCap crypto quote client
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new CoinMarketCap client
func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "coinmarketcap").Logger(),
	}
}

// Quote represents a crypto quote in USD
type Quote struct {
	PriceUSD        float64
	PercentChange24 float64
}

// quoteResponse mirrors the v2/cryptocurrency/quotes/latest payload shape:
// { "data": { "BTC": [ { "quote": { "USD": { "price": ..., "percent_change_24h": ... } } } ] } }
type quoteResponse struct {
	Data map[string][]struct {
		Quote struct {
			USD struct {
				Price           float64 `json:"price"`
				PercentChange24 float64 `json:"percent_change_24h"`
			} `json:"USD"`
		} `json:"quote"`
	} `json:"data"`
}

// GetQuote fetches the latest USD quote for a crypto symbol (e.g. BTC, ETH)
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{}
	params.Add("symbol", symbol)

	reqURL := c.baseURL + "/v2/cryptocurrency/quotes/latest?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch crypto quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coinmarketcap API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed quoteResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse crypto quote: %w", err)
	}

	entries, ok := parsed.Data[symbol]
	if !ok || len(entries) == 0 {
		return nil, fmt.Errorf("no quote data returned for symbol %s", symbol)
	}

	usd := entries[0].Quote.USD

	c.log.Debug().
		Str("symbol", symbol).
		Float64("price_usd", usd.Price).
		Msg("Fetched crypto quote")

	return &Quote{
		PriceUSD:        usd.Price,
		PercentChange24: usd.PercentChange24,
	}, nil
}
