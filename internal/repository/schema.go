package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Datetime columns are TEXT so the ledger keeps the exact ISO strings the
// bot wrote; "today" comparisons read the stored date prefix.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS trades (
	seq              BIGSERIAL,
	id               TEXT PRIMARY KEY,
	entry_datetime   TEXT NOT NULL,
	type             TEXT NOT NULL CHECK (type IN ('buy', 'short')),
	symbol           TEXT NOT NULL,
	shares           INTEGER NOT NULL CHECK (shares > 0),
	entry_price      DOUBLE PRECISION NOT NULL CHECK (entry_price >= 0),
	commission       DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (commission >= 0),
	close_datetime   TEXT,
	close_type       TEXT CHECK (close_type IN ('sell', 'cover')),
	close_price      DOUBLE PRECISION,
	pnl              DOUBLE PRECISION,
	close_commission DOUBLE PRECISION,
	status           TEXT NOT NULL CHECK (status IN ('open', 'closed')),
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);

CREATE TABLE IF NOT EXISTS alerts (
	id          TEXT PRIMARY KEY,
	ticker      TEXT NOT NULL,
	action      TEXT NOT NULL DEFAULT '',
	category    TEXT,
	price       DOUBLE PRECISION NOT NULL DEFAULT 0,
	entry_price DOUBLE PRECISION,
	shares      INTEGER,
	trade_type  TEXT,
	pnl         DOUBLE PRECISION,
	pnl_pct     DOUBLE PRECISION,
	ema_short   DOUBLE PRECISION,
	ema_long    DOUBLE PRECISION,
	ema_trend   TEXT,
	vwap        DOUBLE PRECISION,
	rsi         DOUBLE PRECISION,
	message     TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at DESC);

CREATE TABLE IF NOT EXISTS bot_prices (
	symbol     TEXT PRIMARY KEY,
	price      DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS fundamentals (
	id                 BIGSERIAL PRIMARY KEY,
	symbol             TEXT NOT NULL,
	name               TEXT,
	exchange           TEXT,
	description        TEXT,
	market_cap         DOUBLE PRECISION,
	shares_outstanding DOUBLE PRECISION,
	float_shares       DOUBLE PRECISION,
	high_52w           DOUBLE PRECISION,
	low_52w            DOUBLE PRECISION,
	sector             TEXT,
	industry           TEXT,
	fetched_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fundamentals_symbol ON fundamentals(symbol, fetched_at DESC);
`

// Migrate creates the ledger tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("schema migration: %w", err)
	}
	return nil
}
