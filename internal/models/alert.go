package models

import "strings"

const (
	CategoryUnrealizedProfit = "unrealized_profit"
	CategoryRealizedProfit   = "realized_profit"
)

// Alert is an append-only signal or profit notification produced by the bot.
type Alert struct {
	ID         string   `json:"_id" yaml:"id"`
	Ticker     string   `json:"ticker" yaml:"ticker"`
	Action     string   `json:"action" yaml:"action"`
	Category   *string  `json:"category,omitempty" yaml:"category"`
	Price      float64  `json:"price" yaml:"price"`
	EntryPrice *float64 `json:"entry_price,omitempty" yaml:"entry_price"`
	Shares     *int     `json:"shares,omitempty" yaml:"shares"`
	TradeType  *string  `json:"trade_type,omitempty" yaml:"trade_type"`
	PnL        *float64 `json:"pnl,omitempty" yaml:"pnl"`
	PnLPct     *float64 `json:"pnl_pct,omitempty" yaml:"pnl_pct"`
	EMAShort   *float64 `json:"ema_short,omitempty" yaml:"ema_short"`
	EMALong    *float64 `json:"ema_long,omitempty" yaml:"ema_long"`
	EMATrend   *string  `json:"ema_trend,omitempty" yaml:"ema_trend"`
	VWAP       *float64 `json:"vwap,omitempty" yaml:"vwap"`
	RSI        *float64 `json:"rsi,omitempty" yaml:"rsi"`
	Message    string   `json:"message" yaml:"message"`
	CreatedAt  string   `json:"created_at" yaml:"created_at"`
}

// IsProfit reports whether the alert is a profit notification rather than
// a trading signal.
func (a *Alert) IsProfit() bool {
	return a.Category != nil &&
		(*a.Category == CategoryUnrealizedProfit || *a.Category == CategoryRealizedProfit)
}

// TypeLabel is the category when set, otherwise the action.
func (a *Alert) TypeLabel() string {
	if a.Category != nil && *a.Category != "" {
		return *a.Category
	}
	return a.Action
}

// DisplayLabel is the upper-cased human form used for sorting by action.
func (a *Alert) DisplayLabel() string {
	if a.Category != nil {
		switch *a.Category {
		case CategoryUnrealizedProfit:
			return "UNREALIZED PROFIT"
		case CategoryRealizedProfit:
			return "REALIZED PROFIT"
		}
	}
	return strings.ToUpper(strings.ReplaceAll(a.Action, "_", " "))
}
