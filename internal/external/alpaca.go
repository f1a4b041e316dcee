package external

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
)

type snapshotGetter interface {
	GetSnapshot(symbol string, req marketdata.GetSnapshotRequest) (*marketdata.Snapshot, error)
}

// AlpacaClient maps an Alpaca market-data snapshot onto a Quote. Alpaca has
// no separate pre/post price fields, so its latest trade (which includes
// extended hours) lands in RegularMarketPrice.
type AlpacaClient struct {
	md      snapshotGetter
	timeout time.Duration
}

func NewAlpacaClient(apiKey, apiSecret string, timeout time.Duration) *AlpacaClient {
	return &AlpacaClient{
		md: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		timeout: timeout,
	}
}

func (c *AlpacaClient) Name() string { return "alpaca" }

func (c *AlpacaClient) FetchQuote(ctx context.Context, symbol string) (*market.Quote, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	type result struct {
		snap *marketdata.Snapshot
		err  error
	}
	// The SDK call takes no context; bound it from here.
	ch := make(chan result, 1)
	go func() {
		snap, err := c.md.GetSnapshot(market.Ticker(symbol), marketdata.GetSnapshotRequest{})
		ch <- result{snap, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("alpaca snapshot: %w: %w", apperr.ErrUpstreamUnavailable, ctx.Err())
	case r = <-ch:
	}
	if r.err != nil {
		return nil, fmt.Errorf("alpaca snapshot: %w: %w", apperr.ErrUpstreamUnavailable, r.err)
	}
	if r.snap == nil || (r.snap.LatestTrade == nil && r.snap.DailyBar == nil) {
		return nil, fmt.Errorf("alpaca: empty snapshot for %s: %w", symbol, apperr.ErrUpstreamUnavailable)
	}
	return snapshotQuote(r.snap), nil
}

func snapshotQuote(s *marketdata.Snapshot) *market.Quote {
	var q market.Quote
	if s.LatestTrade != nil && s.LatestTrade.Price > 0 {
		q.RegularMarketPrice = fp(s.LatestTrade.Price)
	}
	if s.DailyBar != nil {
		q.RegularMarketDayHigh = fp(s.DailyBar.High)
		q.RegularMarketDayLow = fp(s.DailyBar.Low)
		q.RegularMarketVolume = fp(float64(s.DailyBar.Volume))
		if q.RegularMarketPrice == nil && s.DailyBar.Close > 0 {
			q.RegularMarketPrice = fp(s.DailyBar.Close)
		}
	}
	if s.PrevDailyBar != nil && s.PrevDailyBar.Close > 0 {
		q.RegularMarketPreviousClose = fp(s.PrevDailyBar.Close)
	}
	return &q
}

func fp(v float64) *float64 { return &v }
