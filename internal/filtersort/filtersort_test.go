package filtersort

import (
	"errors"
	"testing"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

func ids(trades []models.Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.ID
	}
	return out
}

func alertIDs(alerts []models.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleTrades() []models.Trade {
	return []models.Trade{
		{ID: "1", Symbol: "NASDAQ:AAPL", Type: "buy", Shares: 10, EntryPrice: 100, EntryDatetime: "2024-01-01T23:00:00", Status: "open"},
		{ID: "2", Symbol: "NYSE:IBM", Type: "short", Shares: 5, EntryPrice: 150, EntryDatetime: "2024-01-02T00:00:01", Status: "open"},
		{ID: "3", Symbol: "NASDAQ:MSFT", Type: "buy", Shares: 10, EntryPrice: 300, EntryDatetime: "2024-01-01T09:45:00", Status: "closed", PnL: ptr(25.0), CloseDatetime: ptr("2024-01-01T15:00:00")},
		{ID: "4", Symbol: "NASDAQ:AAPL", Type: "buy", Shares: 3, EntryPrice: 101, EntryDatetime: "2023-12-29T10:00:00", Status: "open"},
	}
}

func TestApply_DateRangeInclusiveThroughEndOfDay(t *testing.T) {
	got, err := Apply(sampleTrades(), TradeSpec(nil), Criteria{From: "2024-01-01", To: "2024-01-01"}, Sort{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !equal(ids(got), []string{"3", "1"}) {
		t.Fatalf("expected [3 1], got %v", ids(got))
	}
}

func TestApply_InvalidDates(t *testing.T) {
	cases := []Criteria{
		{From: "2024-1-01"},
		{To: "2024-02-30"},
		{From: "2024-01-05", To: "2024-01-01"},
		{Tab: "pending"},
	}
	for _, c := range cases {
		if _, err := Apply(sampleTrades(), TradeSpec(nil), c, Sort{}); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("criteria %+v: expected ErrInvalidInput, got %v", c, err)
		}
	}
}

func TestApply_UnknownSortKey(t *testing.T) {
	_, err := Apply(sampleTrades(), TradeSpec(nil), Criteria{}, Sort{Key: "quantity"})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestApply_SymbolCaseInsensitiveAndTab(t *testing.T) {
	got, err := Apply(sampleTrades(), TradeSpec(nil), Criteria{Tab: "open", Symbol: "aapl"}, Sort{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// default sort: entry_datetime asc
	if !equal(ids(got), []string{"4", "1"}) {
		t.Fatalf("expected [4 1], got %v", ids(got))
	}
}

func TestApply_CategoryFilter(t *testing.T) {
	got, err := Apply(sampleTrades(), TradeSpec(nil), Criteria{Category: "short"}, Sort{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !equal(ids(got), []string{"2"}) {
		t.Fatalf("expected [2], got %v", ids(got))
	}
}

func TestApply_ToggleKeepsStableTieOrder(t *testing.T) {
	trades := sampleTrades()
	s := Sort{}.Toggle("shares")
	if s.Dir != Asc {
		t.Fatalf("new key should start ascending, got %s", s.Dir)
	}

	asc, err := Apply(trades, TradeSpec(nil), Criteria{}, s)
	if err != nil {
		t.Fatalf("Apply asc: %v", err)
	}
	if !equal(ids(asc), []string{"4", "2", "1", "3"}) {
		t.Fatalf("asc: got %v", ids(asc))
	}

	s = s.Toggle("shares")
	if s.Dir != Desc {
		t.Fatalf("same key should flip to desc, got %s", s.Dir)
	}
	desc, err := Apply(trades, TradeSpec(nil), Criteria{}, s)
	if err != nil {
		t.Fatalf("Apply desc: %v", err)
	}
	// 1 and 3 tie on shares=10 and keep input order.
	if !equal(ids(desc), []string{"1", "3", "2", "4"}) {
		t.Fatalf("desc: got %v", ids(desc))
	}

	if s.Toggle("symbol") != (Sort{Key: "symbol", Dir: Asc}) {
		t.Fatal("switching key should reset to ascending")
	}
}

func TestApply_UnrealizedNullSortsLowest(t *testing.T) {
	prices := models.PriceMap{"NASDAQ:AAPL": 110, "NYSE:IBM": 140}
	got, err := Apply(sampleTrades(), TradeSpec(prices), Criteria{Tab: "open"}, Sort{Key: "unrealized_pnl", Dir: Asc})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// AAPL#4: (110-101)*3=27, IBM short: (150-140)*5=50, AAPL#1: 100
	if !equal(ids(got), []string{"4", "2", "1"}) {
		t.Fatalf("got %v", ids(got))
	}

	got, err = Apply(sampleTrades(), TradeSpec(models.PriceMap{"NYSE:IBM": 140}), Criteria{Tab: "open"}, Sort{Key: "unrealized_pnl", Dir: Asc})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// unpriced trades are -Inf and keep input order among themselves
	if !equal(ids(got), []string{"1", "4", "2"}) {
		t.Fatalf("got %v", ids(got))
	}
}

func TestApply_DoesNotReorderInput(t *testing.T) {
	trades := sampleTrades()
	if _, err := Apply(trades, TradeSpec(nil), Criteria{}, Sort{Key: "symbol", Dir: Desc}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !equal(ids(trades), []string{"1", "2", "3", "4"}) {
		t.Fatalf("input reordered: %v", ids(trades))
	}
}

func sampleAlerts() []models.Alert {
	return []models.Alert{
		{ID: "a", Ticker: "AAPL", Action: "buy_signal", CreatedAt: "2024-01-01T10:00:00"},
		{ID: "b", Ticker: "MSFT", Action: "profit", Category: ptr(models.CategoryRealizedProfit), CreatedAt: "2024-01-02T10:00:00"},
		{ID: "c", Ticker: "aapl", Action: "short_signal", CreatedAt: "2024-01-03T10:00:00"},
		{ID: "d", Ticker: "IBM", Action: "profit", Category: ptr(models.CategoryUnrealizedProfit), CreatedAt: "2024-01-03T11:00:00"},
	}
}

func TestApplyAlerts_DefaultNewestFirst(t *testing.T) {
	got, err := Apply(sampleAlerts(), AlertSpec(), Criteria{}, Sort{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !equal(alertIDs(got), []string{"d", "c", "b", "a"}) {
		t.Fatalf("got %v", alertIDs(got))
	}
}

func TestApplyAlerts_Tabs(t *testing.T) {
	profit, _ := Apply(sampleAlerts(), AlertSpec(), Criteria{Tab: "profit"}, Sort{})
	if !equal(alertIDs(profit), []string{"d", "b"}) {
		t.Fatalf("profit: got %v", alertIDs(profit))
	}
	signal, _ := Apply(sampleAlerts(), AlertSpec(), Criteria{Tab: "signal", Symbol: "AAPL"}, Sort{})
	if !equal(alertIDs(signal), []string{"c", "a"}) {
		t.Fatalf("signal: got %v", alertIDs(signal))
	}
}

func TestApplyAlerts_TypeLabelAndActionSort(t *testing.T) {
	got, err := Apply(sampleAlerts(), AlertSpec(), Criteria{Category: "realized_profit"}, Sort{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !equal(alertIDs(got), []string{"b"}) {
		t.Fatalf("got %v", alertIDs(got))
	}

	got, err = Apply(sampleAlerts(), AlertSpec(), Criteria{}, Sort{Key: "action", Dir: Asc})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// BUY SIGNAL, REALIZED PROFIT, SHORT SIGNAL, UNREALIZED PROFIT
	if !equal(alertIDs(got), []string{"a", "b", "c", "d"}) {
		t.Fatalf("got %v", alertIDs(got))
	}
}

func TestLabels(t *testing.T) {
	got := Labels(sampleAlerts(), AlertSpec())
	want := []string{"buy_signal", "realized_profit", "short_signal", "unrealized_profit"}
	if !equal(got, want) {
		t.Fatalf("got %v", got)
	}
}
