package localstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/localstore"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

func openMem(t *testing.T) *localstore.DB {
	t.Helper()
	db, err := localstore.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTradeStore_RecordCloseGetAll(t *testing.T) {
	db := openMem(t)
	store := db.Trades()
	ctx := context.Background()

	first, err := store.Record(ctx, &models.Trade{
		EntryDatetime: "2024-03-04T09:45:00", Type: models.TradeShort, Symbol: "NYSE:GE",
		Shares: 5, EntryPrice: 50, Status: models.StatusOpen,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated ID")
	}
	second, err := store.Record(ctx, &models.Trade{
		ID: "fixed-id", EntryDatetime: "2024-03-04T10:00:00", Type: models.TradeBuy, Symbol: "NASDAQ:AAPL",
		Shares: 2, EntryPrice: 180, Commission: 1, Status: models.StatusOpen,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if second.ID != "fixed-id" {
		t.Fatalf("expected caller ID to be kept, got %s", second.ID)
	}

	closed, err := store.Close(ctx, first.ID, models.TradeClose{
		CloseDatetime: "2024-03-04T15:00:00", CloseType: models.CloseCover,
		ClosePrice: 45, CloseCommission: 1, PnL: 25,
	})
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closed.IsClosed() || *closed.CloseType != models.CloseCover || *closed.PnL != 25 {
		t.Fatalf("unexpected closed trade: %+v", closed)
	}
	if err := closed.Validate(); err != nil {
		t.Fatalf("closed trade should validate: %v", err)
	}

	_, err = store.Close(ctx, first.ID, models.TradeClose{CloseDatetime: "x", CloseType: models.CloseCover})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("double close: expected ErrInvalidInput, got %v", err)
	}

	_, err = store.Close(ctx, second.ID, models.TradeClose{
		CloseDatetime: "2024-03-04T15:00:00", CloseType: models.CloseCover, ClosePrice: 1, PnL: 1,
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("cover on a buy: expected ErrInvalidInput, got %v", err)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != "fixed-id" {
		t.Fatalf("expected insertion order, got %+v", all)
	}
	if all[1].ClosePrice != nil {
		t.Fatal("open trade should have nil close_price")
	}

	missing, err := store.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil), got %v, %v", missing, err)
	}
}

func TestTradeStore_RejectsInvalid(t *testing.T) {
	store := openMem(t).Trades()
	_, err := store.Record(context.Background(), &models.Trade{
		EntryDatetime: "2024-03-04T09:45:00", Type: "long", Symbol: "NYSE:GE", Shares: 0, Status: models.StatusOpen,
	})
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPriceStore(t *testing.T) {
	store := openMem(t).Prices()
	ctx := context.Background()

	empty, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty map, got %v", empty)
	}

	if err := store.Upsert(ctx, "NASDAQ:AAPL", 180); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Upsert(ctx, "NASDAQ:AAPL", 181.5); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	prices, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if p, ok := prices.Lookup("NASDAQ:AAPL"); !ok || p != 181.5 {
		t.Fatalf("expected 181.5, got %v (ok=%v)", p, ok)
	}
}

func TestAlertStore_GetRecentNewestFirst(t *testing.T) {
	store := openMem(t).Alerts()
	ctx := context.Background()

	for _, at := range []string{"2024-01-01T10:00:00", "2024-01-03T10:00:00", "2024-01-02T10:00:00"} {
		if _, err := store.Record(ctx, &models.Alert{Ticker: "AAPL", Action: "buy_signal", CreatedAt: at, RSI: ptr(55.0)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := store.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recent) != 2 || recent[0].CreatedAt != "2024-01-03T10:00:00" || recent[1].CreatedAt != "2024-01-02T10:00:00" {
		t.Fatalf("unexpected order: %+v", recent)
	}
	if recent[0].RSI == nil || *recent[0].RSI != 55 || recent[0].Category != nil {
		t.Fatalf("optional fields not round-tripped: %+v", recent[0])
	}
}

func TestFundamentalsStore_LatestPerSymbol(t *testing.T) {
	store := openMem(t).Fundamentals()
	ctx := context.Background()

	rows := []models.Fundamentals{
		{Symbol: "NASDAQ:AAPL", Name: ptr("old"), FetchedAt: "2024-01-01T00:00:00"},
		{Symbol: "NASDAQ:AAPL", Name: ptr("new"), FetchedAt: "2024-02-01T00:00:00"},
		{Symbol: "NYSE:IBM", MarketCap: ptr(1.5e11), FetchedAt: "2024-01-15T00:00:00"},
	}
	for i := range rows {
		if err := store.Record(ctx, &rows[i]); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	latest, err := store.GetLatest(ctx)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if len(latest) != 2 || *latest[0].Name != "new" || latest[1].Symbol != "NYSE:IBM" {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	one, err := store.GetBySymbol(ctx, "NYSE:IBM")
	if err != nil || one == nil || *one.MarketCap != 1.5e11 {
		t.Fatalf("GetBySymbol: %+v, %v", one, err)
	}
	none, err := store.GetBySymbol(ctx, "NYSE:NONE")
	if err != nil || none != nil {
		t.Fatalf("expected (nil, nil), got %v, %v", none, err)
	}
}
