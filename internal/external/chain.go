package external

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/logging"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
)

// QuoteSource fetches a raw quote for an exchange-qualified symbol.
type QuoteSource interface {
	Name() string
	FetchQuote(ctx context.Context, symbol string) (*market.Quote, error)
}

// Chain tries each source in order and returns the first quote.
type Chain struct {
	sources []QuoteSource
	log     *zap.Logger
}

func NewChain(log *zap.Logger, sources ...QuoteSource) *Chain {
	log = logging.OrNop(log)
	return &Chain{sources: sources, log: log.Named("quotes")}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) FetchQuote(ctx context.Context, symbol string) (*market.Quote, error) {
	var errs []error
	for _, s := range c.sources {
		q, err := s.FetchQuote(ctx, symbol)
		if err == nil && q != nil {
			return q, nil
		}
		if err == nil {
			err = errors.New("no quote")
		}
		c.log.Warn("quote source failed",
			zap.String("source", s.Name()),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no quote sources configured: %w", apperr.ErrUpstreamUnavailable)
	}
	return nil, fmt.Errorf("no data for %s: %w: %w", symbol, apperr.ErrUpstreamUnavailable, errors.Join(errs...))
}
