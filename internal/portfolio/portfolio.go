// Package portfolio derives account and per-trade analytics from a trade
// ledger and a live price map. Everything here is a pure function of its
// inputs plus the analyzer's clock.
package portfolio

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

// StartingCapital is the simulated account's initial cash.
const StartingCapital = 10000.0

const dayLayout = "2006-01-02"

// Balance is the realized account summary.
type Balance struct {
	StartingCapital float64 `json:"startingCapital"`
	TotalPnL        float64 `json:"totalPnl"`
	Balance         float64 `json:"balance"`
	OpenPositions   int     `json:"openPositions"`
}

// Position is an open trade marked to the latest known price.
type Position struct {
	Trade         models.Trade `json:"trade"`
	CurrentPrice  *float64     `json:"currentPrice"`
	UnrealizedPnL *float64     `json:"unrealizedPnl"`
}

// Extreme identifies the trade behind a daily best or worst P&L.
type Extreme struct {
	TradeID  string  `json:"tradeId"`
	Symbol   string  `json:"symbol"`
	PnL      float64 `json:"pnl"`
	Realized bool    `json:"realized"`
}

type Snapshot struct {
	Balance
	Today              string     `json:"today"`
	Positions          []Position `json:"positions"`
	TotalUnrealizedPnL *float64   `json:"totalUnrealizedPnl"`
	TodayBiggestWin    *Extreme   `json:"todayBiggestWin"`
	TodayLargestLoss   *Extreme   `json:"todayLargestLoss"`
}

// ReturnPercent is the account return including open positions, as a
// percentage of starting capital.
func (s *Snapshot) ReturnPercent() float64 {
	total := decimal.NewFromFloat(s.TotalPnL)
	if s.TotalUnrealizedPnL != nil {
		total = total.Add(decimal.NewFromFloat(*s.TotalUnrealizedPnL))
	}
	pct, _ := total.Div(decimal.NewFromFloat(StartingCapital)).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

type Analyzer struct {
	// Location decides the calendar date used for "today".
	Location *time.Location
	Now      func() time.Time
}

func NewAnalyzer(loc *time.Location) *Analyzer {
	return &Analyzer{Location: loc, Now: time.Now}
}

// Today returns the current calendar date in the analyzer's location.
func (a *Analyzer) Today() string {
	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	if a.Location != nil {
		now = now.In(a.Location)
	}
	return now.Format(dayLayout)
}

// ComputeBalance sums realized P&L over closed trades. Closed trades with
// a nil pnl are skipped, not counted as zero.
func ComputeBalance(trades []models.Trade) Balance {
	total := decimal.Zero
	open := 0
	for i := range trades {
		t := &trades[i]
		switch {
		case t.IsOpen():
			open++
		case t.IsClosed() && t.PnL != nil:
			total = total.Add(decimal.NewFromFloat(*t.PnL))
		}
	}
	totalF, _ := total.Float64()
	balF, _ := total.Add(decimal.NewFromFloat(StartingCapital)).Float64()
	return Balance{
		StartingCapital: StartingCapital,
		TotalPnL:        totalF,
		Balance:         balF,
		OpenPositions:   open,
	}
}

// Compute builds the full snapshot. Inputs are not modified.
func (a *Analyzer) Compute(trades []models.Trade, prices models.PriceMap) Snapshot {
	today := a.Today()
	snap := Snapshot{
		Balance:   ComputeBalance(trades),
		Today:     today,
		Positions: make([]Position, 0),
	}

	var closedToday, openPriced []Extreme
	unrealized := decimal.Zero
	priced := 0

	for i := range trades {
		t := trades[i]
		switch {
		case t.IsClosed():
			if t.PnL != nil && ClosedOn(t, today) {
				closedToday = append(closedToday, Extreme{TradeID: t.ID, Symbol: t.Symbol, PnL: *t.PnL, Realized: true})
			}
		case t.IsOpen():
			pos := Position{Trade: t}
			if cur, ok := prices.Lookup(t.Symbol); ok {
				u := UnrealizedPnL(t, cur)
				pos.CurrentPrice = &cur
				pos.UnrealizedPnL = &u
				unrealized = unrealized.Add(decimal.NewFromFloat(u))
				priced++
				openPriced = append(openPriced, Extreme{TradeID: t.ID, Symbol: t.Symbol, PnL: u})
			}
			snap.Positions = append(snap.Positions, pos)
		}
	}

	if priced > 0 {
		u, _ := unrealized.Float64()
		snap.TotalUnrealizedPnL = &u
	}

	candidates := append(closedToday, openPriced...)
	snap.TodayBiggestWin, snap.TodayLargestLoss = extremes(candidates)
	return snap
}

// UnrealizedPnL marks an open trade to cur: (cur - entry) * shares for a
// buy, (entry - cur) * shares for a short.
func UnrealizedPnL(t models.Trade, cur float64) float64 {
	return directional(t.Type, t.EntryPrice, cur, t.Shares)
}

// RealizedPnL is the gross P&L of closing t at closePrice. Commissions are
// recorded separately and not netted.
func RealizedPnL(t models.Trade, closePrice float64) float64 {
	return directional(t.Type, t.EntryPrice, closePrice, t.Shares)
}

func directional(tradeType string, entry, exit float64, shares int) float64 {
	e := decimal.NewFromFloat(entry)
	x := decimal.NewFromFloat(exit)
	diff := x.Sub(e)
	if tradeType == models.TradeShort {
		diff = e.Sub(x)
	}
	out, _ := diff.Mul(decimal.NewFromInt(int64(shares))).Float64()
	return out
}

// ClosedOn compares the stored close datetime's date prefix with day.
func ClosedOn(t models.Trade, day string) bool {
	return t.CloseDatetime != nil && strings.HasPrefix(*t.CloseDatetime, day)
}

// extremes returns the strictly positive max and strictly negative min.
// Ties keep the first candidate seen.
func extremes(candidates []Extreme) (win, loss *Extreme) {
	for i := range candidates {
		c := candidates[i]
		if c.PnL > 0 && (win == nil || c.PnL > win.PnL) {
			win = &c
		}
		if c.PnL < 0 && (loss == nil || c.PnL < loss.PnL) {
			loss = &c
		}
	}
	return win, loss
}
