package ledger

import (
	"context"
	"fmt"

	"github.com/kjannette/trahn-stocks-backend/internal/config"
	"github.com/kjannette/trahn-stocks-backend/internal/db"
	"github.com/kjannette/trahn-stocks-backend/internal/localstore"
	"github.com/kjannette/trahn-stocks-backend/internal/repository"
)

// Open connects the driver selected by cfg.StoreDriver and migrates it.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		ldb, err := localstore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return NewLocal(ldb), nil

	case config.StoreDriverPostgres:
		pool, err := db.Connect(ctx, cfg.DSN(), db.DefaultPool)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if _, err := db.TestConnection(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver:       config.StoreDriverPostgres,
			Trades:       repository.NewTradeRepo(pool),
			Prices:       repository.NewPriceRepo(pool),
			Alerts:       repository.NewAlertRepo(pool),
			Fundamentals: repository.NewFundamentalsRepo(pool),
			ping:         pool.Ping,
			close:        pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// NewLocal wraps an open SQLite database.
func NewLocal(ldb *localstore.DB) *Store {
	return &Store{
		Driver:       config.StoreDriverSQLite,
		Trades:       ldb.Trades(),
		Prices:       ldb.Prices(),
		Alerts:       ldb.Alerts(),
		Fundamentals: ldb.Fundamentals(),
		ping:         ldb.Ping,
		close:        func() { ldb.Close() },
	}
}
