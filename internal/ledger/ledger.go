// Package ledger groups the trade, alert, price and fundamentals stores
// behind interfaces so the API, poller and CLI work against either the
// Postgres repositories or the embedded SQLite store.
package ledger

import (
	"context"
	"fmt"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

type TradeStore interface {
	GetAll(ctx context.Context) ([]models.Trade, error)
	Get(ctx context.Context, id string) (*models.Trade, error)
	Record(ctx context.Context, t *models.Trade) (*models.Trade, error)
	Close(ctx context.Context, id string, c models.TradeClose) (*models.Trade, error)
}

type PriceStore interface {
	GetAll(ctx context.Context) (models.PriceMap, error)
	Upsert(ctx context.Context, symbol string, price float64) error
}

type AlertStore interface {
	GetRecent(ctx context.Context, limit int) ([]models.Alert, error)
	Record(ctx context.Context, a *models.Alert) (*models.Alert, error)
}

type FundamentalsStore interface {
	GetLatest(ctx context.Context) ([]models.Fundamentals, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.Fundamentals, error)
	Record(ctx context.Context, f *models.Fundamentals) error
}

type Store struct {
	Driver       string
	Trades       TradeStore
	Prices       PriceStore
	Alerts       AlertStore
	Fundamentals FundamentalsStore

	ping  func(ctx context.Context) error
	close func()
}

// Ping reports whether the backing database answers.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Snapshot reads the ledger and the price map for one compute cycle.
// Either read failing fails the whole snapshot; an empty ledger is never
// substituted for an unreachable one.
func Snapshot(ctx context.Context, trades TradeStore, prices PriceStore) ([]models.Trade, models.PriceMap, error) {
	ts, err := trades.GetAll(ctx)
	if err != nil {
		return nil, nil, Unavailable("read trades", err)
	}
	pm, err := prices.GetAll(ctx)
	if err != nil {
		return nil, nil, Unavailable("read prices", err)
	}
	if pm == nil {
		pm = models.PriceMap{}
	}
	return ts, pm, nil
}

// Unavailable wraps a store error as ErrPersistenceUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrPersistenceUnavailable, err)
}
