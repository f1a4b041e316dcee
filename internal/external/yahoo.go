package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/httputil"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
)

const (
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

	yahooQuoteFields = "regularMarketPrice,regularMarketPreviousClose,regularMarketDayHigh," +
		"regularMarketDayLow,regularMarketVolume,marketCap,postMarketPrice,preMarketPrice"
)

type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewYahooClient(baseURL string, timeout time.Duration, retry httputil.RetryConfig) *YahooClient {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &YahooClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
	}
}

func (c *YahooClient) Name() string { return "yahoo" }

// FetchQuote looks up the ticker part of an EXCHANGE:TICKER symbol. Any
// non-200 status, undecodable body or empty result is reported as
// ErrUpstreamUnavailable.
func (c *YahooClient) FetchQuote(ctx context.Context, symbol string) (*market.Quote, error) {
	q := url.Values{}
	q.Set("symbols", market.Ticker(symbol))
	q.Set("fields", yahooQuoteFields)
	endpoint := c.baseURL + "/v7/finance/quote?" + q.Encode()

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w: %w", apperr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned status %d: %w", resp.StatusCode, apperr.ErrUpstreamUnavailable)
	}

	var data struct {
		QuoteResponse struct {
			Result []*market.Quote `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w: %w", apperr.ErrUpstreamUnavailable, err)
	}

	if len(data.QuoteResponse.Result) == 0 || data.QuoteResponse.Result[0] == nil {
		return nil, fmt.Errorf("yahoo: empty result for %s: %w", symbol, apperr.ErrUpstreamUnavailable)
	}
	return data.QuoteResponse.Result[0], nil
}
