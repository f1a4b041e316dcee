package market

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
)

var symbolRegexp = regexp.MustCompile(`(?i)^[A-Z]+:[A-Z0-9.]+$`)

// ValidateSymbol checks the EXCHANGE:TICKER form before any fetch.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("missing symbol: %w", apperr.ErrInvalidInput)
	}
	if !symbolRegexp.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format %q: %w", symbol, apperr.ErrInvalidInput)
	}
	return nil
}

// Ticker strips the exchange prefix: NASDAQ:AAPL -> AAPL.
func Ticker(symbol string) string {
	if _, t, ok := strings.Cut(symbol, ":"); ok {
		return t
	}
	return symbol
}
