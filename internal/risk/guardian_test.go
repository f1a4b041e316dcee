package risk

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
)

func TestPortfolioCheck_StopLoss_Triggered(t *testing.T) {
	g := NewGuardian(Limits{StopLossPercent: 10})
	err := g.PortfolioCheck(-10.0)
	if !errors.Is(err, ErrStopLoss) {
		t.Fatalf("expected stop-loss to trigger at -10%%, got %v", err)
	}
	if !strings.Contains(err.Error(), "account down 10.00%") {
		t.Fatalf("loss should read as a positive drop, got %q", err.Error())
	}
	t.Logf("Correctly triggered: %v", err)
}

func TestPortfolioCheck_StopLoss_NotTriggered(t *testing.T) {
	g := NewGuardian(Limits{StopLossPercent: 10})
	if err := g.PortfolioCheck(-9.99); err != nil {
		t.Fatalf("expected no trigger at -9.99%%, got: %v", err)
	}
}

func TestPortfolioCheck_TakeProfit_Triggered(t *testing.T) {
	g := NewGuardian(Limits{TakeProfitPercent: 20})
	err := g.PortfolioCheck(20.0)
	if !errors.Is(err, ErrTakeProfit) {
		t.Fatalf("expected take-profit to trigger at +20%%, got %v", err)
	}
	t.Logf("Correctly triggered: %v", err)
}

func TestPortfolioCheck_TakeProfit_NotTriggered(t *testing.T) {
	g := NewGuardian(Limits{TakeProfitPercent: 20})
	if err := g.PortfolioCheck(19.99); err != nil {
		t.Fatalf("expected no trigger at +19.99%%, got: %v", err)
	}
}

func TestPortfolioCheck_BothDisabled(t *testing.T) {
	g := NewGuardian(Limits{})
	if g.Enabled() {
		t.Fatal("zero limits should report disabled")
	}
	if err := g.PortfolioCheck(-99); err != nil {
		t.Fatalf("zero limits should disable all checks, got: %v", err)
	}
	if err := g.PortfolioCheck(99); err != nil {
		t.Fatalf("zero limits should disable all checks, got: %v", err)
	}
}

func TestKind(t *testing.T) {
	g := NewGuardian(Limits{StopLossPercent: 5, TakeProfitPercent: 5})
	cases := []struct {
		err  error
		want string
	}{
		{g.PortfolioCheck(-7.25), "stop-loss"},
		{g.PortfolioCheck(-12.5), "stop-loss"},
		{g.PortfolioCheck(6), "take-profit"},
		{g.PortfolioCheck(0), ""},
		{fmt.Errorf("wrapped: %w", ErrTakeProfit), "take-profit"},
		{errors.New("other"), ""},
	}
	for _, c := range cases {
		if got := Kind(c.err); got != c.want {
			t.Errorf("Kind(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestCheck_UsesUnrealized(t *testing.T) {
	g := NewGuardian(Limits{StopLossPercent: 5})
	unrealized := -400.0
	snap := &portfolio.Snapshot{
		Balance:            portfolio.Balance{TotalPnL: -100},
		TotalUnrealizedPnL: &unrealized,
	}
	if err := g.Check(snap); !errors.Is(err, ErrStopLoss) {
		t.Fatalf("expected stop-loss at -5%%, got %v", err)
	}

	snap.TotalUnrealizedPnL = nil
	if err := g.Check(snap); err != nil {
		t.Fatalf("-1%% realized only should not trigger, got %v", err)
	}
}
