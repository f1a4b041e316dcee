package filtersort

import (
	"math"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
)

var negInf = math.Inf(-1)

func optional(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func optionalStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// TradeSpec sorts and filters trades. prices feeds the unrealized_pnl key;
// a trade without a known price has no unrealized value.
func TradeSpec(prices models.PriceMap) Spec[models.Trade] {
	return Spec[models.Trade]{
		Symbol:   func(t *models.Trade) string { return t.Symbol },
		Category: func(t *models.Trade) string { return t.Type },
		Date:     func(t *models.Trade) string { return t.EntryDatetime },
		Tabs: map[string]func(*models.Trade) bool{
			models.StatusOpen:   (*models.Trade).IsOpen,
			models.StatusClosed: (*models.Trade).IsClosed,
		},
		Keys: map[string]Key[models.Trade]{
			"symbol":         StringKey(func(t *models.Trade) string { return t.Symbol }),
			"type":           StringKey(func(t *models.Trade) string { return t.Type }),
			"entry_datetime": StringKey(func(t *models.Trade) string { return t.EntryDatetime }),
			"close_datetime": StringKey(func(t *models.Trade) string { return optionalStr(t.CloseDatetime) }),
			"shares":         NumberKey(func(t *models.Trade) (float64, bool) { return float64(t.Shares), true }),
			"entry_price":    NumberKey(func(t *models.Trade) (float64, bool) { return t.EntryPrice, true }),
			"commission":     NumberKey(func(t *models.Trade) (float64, bool) { return t.Commission, true }),
			"close_price":    NumberKey(func(t *models.Trade) (float64, bool) { return optional(t.ClosePrice) }),
			"pnl":            NumberKey(func(t *models.Trade) (float64, bool) { return optional(t.PnL) }),
			"unrealized_pnl": NumberKey(func(t *models.Trade) (float64, bool) {
				if !t.IsOpen() {
					return 0, false
				}
				cur, ok := prices.Lookup(t.Symbol)
				if !ok {
					return 0, false
				}
				return portfolio.UnrealizedPnL(*t, cur), true
			}),
		},
		Default: Sort{Key: "entry_datetime", Dir: Asc},
	}
}

// ClosedTradeSort is the default ordering for the closed-trades view.
var ClosedTradeSort = Sort{Key: "close_datetime", Dir: Asc}

// AlertSpec sorts and filters alerts. The category filter matches the
// category when set, otherwise the action.
func AlertSpec() Spec[models.Alert] {
	return Spec[models.Alert]{
		Symbol:   func(a *models.Alert) string { return a.Ticker },
		Category: func(a *models.Alert) string { return a.TypeLabel() },
		Date:     func(a *models.Alert) string { return a.CreatedAt },
		Tabs: map[string]func(*models.Alert) bool{
			"signal": func(a *models.Alert) bool { return !a.IsProfit() },
			"profit": (*models.Alert).IsProfit,
		},
		Keys: map[string]Key[models.Alert]{
			"created_at": StringKey(func(a *models.Alert) string { return a.CreatedAt }),
			"ticker":     StringKey(func(a *models.Alert) string { return a.Ticker }),
			"action":     StringKey(func(a *models.Alert) string { return a.DisplayLabel() }),
			"price":      NumberKey(func(a *models.Alert) (float64, bool) { return a.Price, true }),
			"pnl":        NumberKey(func(a *models.Alert) (float64, bool) { return optional(a.PnL) }),
			"pnl_pct":    NumberKey(func(a *models.Alert) (float64, bool) { return optional(a.PnLPct) }),
		},
		Default: Sort{Key: "created_at", Dir: Desc},
	}
}
