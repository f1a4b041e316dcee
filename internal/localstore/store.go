// Package localstore is the embedded SQLite ledger used when no Postgres
// server is configured.
package localstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB owns the SQLite handle and hands out per-table stores.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs the schema
// migration. ":memory:" gives a private in-memory ledger.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Trades() *TradeStore { return &TradeStore{db: d.db} }
func (d *DB) Prices() *PriceStore { return &PriceStore{db: d.db} }
func (d *DB) Alerts() *AlertStore { return &AlertStore{db: d.db} }
func (d *DB) Fundamentals() *FundamentalsStore { return &FundamentalsStore{db: d.db} }

type scannable interface {
	Scan(dest ...any) error
}
