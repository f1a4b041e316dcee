package models

import (
	"errors"
	"fmt"
)

const (
	TradeBuy   = "buy"
	TradeShort = "short"

	CloseSell  = "sell"
	CloseCover = "cover"

	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Trade is one simulated position. Datetimes keep the stored ISO string
// form (2006-01-02T15:04:05) so date-prefix comparisons see exactly what
// the ledger holds.
type Trade struct {
	ID              string   `json:"_id" yaml:"id"`
	EntryDatetime   string   `json:"entry_datetime" yaml:"entry_datetime"`
	Type            string   `json:"type" yaml:"type"`
	Symbol          string   `json:"symbol" yaml:"symbol"`
	Shares          int      `json:"shares" yaml:"shares"`
	EntryPrice      float64  `json:"entry_price" yaml:"entry_price"`
	Commission      float64  `json:"commission" yaml:"commission"`
	CloseDatetime   *string  `json:"close_datetime" yaml:"close_datetime"`
	CloseType       *string  `json:"close_type" yaml:"close_type"`
	ClosePrice      *float64 `json:"close_price" yaml:"close_price"`
	PnL             *float64 `json:"pnl" yaml:"pnl"`
	CloseCommission *float64 `json:"close_commission" yaml:"close_commission"`
	Status          string   `json:"status" yaml:"status"`
}

// TradeClose carries the fields written when an open trade is closed.
type TradeClose struct {
	CloseDatetime   string
	CloseType       string
	ClosePrice      float64
	CloseCommission float64
	PnL             float64
}

func (t *Trade) IsOpen() bool   { return t.Status == StatusOpen }
func (t *Trade) IsClosed() bool { return t.Status == StatusClosed }

// Validate checks field domains and the closed <=> close-fields invariant.
func (t *Trade) Validate() error {
	var errs []error

	if t.Symbol == "" {
		errs = append(errs, errors.New("symbol is required"))
	}
	if t.EntryDatetime == "" {
		errs = append(errs, errors.New("entry_datetime is required"))
	}
	if t.Type != TradeBuy && t.Type != TradeShort {
		errs = append(errs, fmt.Errorf("type %q, expected buy|short", t.Type))
	}
	if t.Shares <= 0 {
		errs = append(errs, fmt.Errorf("shares must be positive, got %d", t.Shares))
	}
	if t.EntryPrice < 0 || t.Commission < 0 {
		errs = append(errs, errors.New("entry_price and commission must be non-negative"))
	}

	hasClose := t.CloseDatetime != nil && t.CloseType != nil && t.ClosePrice != nil &&
		t.CloseCommission != nil && t.PnL != nil
	anyClose := t.CloseDatetime != nil || t.CloseType != nil || t.ClosePrice != nil ||
		t.CloseCommission != nil || t.PnL != nil

	switch t.Status {
	case StatusOpen:
		if anyClose {
			errs = append(errs, errors.New("open trade must not carry close fields"))
		}
	case StatusClosed:
		if !hasClose {
			errs = append(errs, errors.New("closed trade requires close_datetime, close_type, close_price, close_commission and pnl"))
		} else if want := CloseTypeFor(t.Type); want != "" && *t.CloseType != want {
			errs = append(errs, fmt.Errorf("close_type %q does not match %s trade", *t.CloseType, t.Type))
		}
	default:
		errs = append(errs, fmt.Errorf("status %q, expected open|closed", t.Status))
	}

	return errors.Join(errs...)
}

// CloseTypeFor returns the closing action for a trade type: sell for buy,
// cover for short.
func CloseTypeFor(tradeType string) string {
	switch tradeType {
	case TradeBuy:
		return CloseSell
	case TradeShort:
		return CloseCover
	}
	return ""
}

// Apply returns a copy of t closed with c.
func (c TradeClose) Apply(t Trade) Trade {
	dt, ct, cp, cc, pnl := c.CloseDatetime, c.CloseType, c.ClosePrice, c.CloseCommission, c.PnL
	t.CloseDatetime = &dt
	t.CloseType = &ct
	t.ClosePrice = &cp
	t.CloseCommission = &cc
	t.PnL = &pnl
	t.Status = StatusClosed
	return t
}
