package risk

import (
	"errors"
	"fmt"

	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
)

var (
	ErrStopLoss   = errors.New("stop-loss")
	ErrTakeProfit = errors.New("take-profit")
)

// Limits holds the account-level circuit breakers from config.
// A zero value for either field disables that check.
type Limits struct {
	StopLossPercent   float64
	TakeProfitPercent float64
}

// Guardian flags when the simulated account crosses a breaker. It never
// blocks anything itself; the poller reports the breach.
type Guardian struct {
	limits Limits
}

func NewGuardian(limits Limits) *Guardian {
	return &Guardian{limits: limits}
}

func (g *Guardian) Enabled() bool {
	return g.limits.StopLossPercent > 0 || g.limits.TakeProfitPercent > 0
}

// PortfolioCheck evaluates the breakers against an account return.
// pnlPercent is a percentage of starting capital (e.g. -8.5 means down 8.5%).
// Returns nil when no breaker tripped.
func (g *Guardian) PortfolioCheck(pnlPercent float64) error {
	if g.limits.StopLossPercent > 0 && pnlPercent <= -g.limits.StopLossPercent {
		return fmt.Errorf("%w triggered: account down %.2f%% (threshold: -%.2f%%)",
			ErrStopLoss, -pnlPercent, g.limits.StopLossPercent)
	}

	if g.limits.TakeProfitPercent > 0 && pnlPercent >= g.limits.TakeProfitPercent {
		return fmt.Errorf("%w triggered: account up %.2f%% (threshold: +%.2f%%)",
			ErrTakeProfit, pnlPercent, g.limits.TakeProfitPercent)
	}

	return nil
}

// Kind names the breaker behind err: "stop-loss", "take-profit", or "" when
// err is nil or not a breaker.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrStopLoss):
		return ErrStopLoss.Error()
	case errors.Is(err, ErrTakeProfit):
		return ErrTakeProfit.Error()
	}
	return ""
}

// Check runs PortfolioCheck on a snapshot's realized plus unrealized return.
func (g *Guardian) Check(s *portfolio.Snapshot) error {
	return g.PortfolioCheck(s.ReturnPercent())
}
