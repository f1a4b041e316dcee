package external

import (
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/config"
	"github.com/kjannette/trahn-stocks-backend/internal/httputil"
	"github.com/kjannette/trahn-stocks-backend/internal/logging"
)

// NewQuoteChain builds the configured provider chain: Yahoo first, then
// Alpaca when both Alpaca keys are set.
func NewQuoteChain(cfg *config.Config, log *zap.Logger) *Chain {
	log = logging.OrNop(log)
	retry := httputil.SingleAttempt
	if cfg.QuoteRetryAttempts > 1 {
		retry = httputil.RetryConfig{
			MaxAttempts: cfg.QuoteRetryAttempts,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    2 * time.Second,
		}
	}
	retry.Logger = log.Named("yahoo")

	sources := []QuoteSource{NewYahooClient(cfg.YahooBaseURL, cfg.QuoteTimeout(), retry)}
	if cfg.AlpacaEnabled() {
		sources = append(sources, NewAlpacaClient(cfg.AlpacaAPIKey, cfg.AlpacaSecretKey, cfg.QuoteTimeout()))
	}
	return NewChain(log, sources...)
}
