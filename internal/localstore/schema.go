package localstore

const schemaDDL = `
CREATE TABLE IF NOT EXISTS trades (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	id               TEXT NOT NULL UNIQUE,
	entry_datetime   TEXT NOT NULL,
	type             TEXT NOT NULL CHECK (type IN ('buy', 'short')),
	symbol           TEXT NOT NULL,
	shares           INTEGER NOT NULL CHECK (shares > 0),
	entry_price      REAL NOT NULL CHECK (entry_price >= 0),
	commission       REAL NOT NULL DEFAULT 0 CHECK (commission >= 0),
	close_datetime   TEXT,
	close_type       TEXT CHECK (close_type IN ('sell', 'cover')),
	close_price      REAL,
	pnl              REAL,
	close_commission REAL,
	status           TEXT NOT NULL CHECK (status IN ('open', 'closed')),
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);

CREATE TABLE IF NOT EXISTS alerts (
	id          TEXT PRIMARY KEY,
	ticker      TEXT NOT NULL,
	action      TEXT NOT NULL DEFAULT '',
	category    TEXT,
	price       REAL NOT NULL DEFAULT 0,
	entry_price REAL,
	shares      INTEGER,
	trade_type  TEXT,
	pnl         REAL,
	pnl_pct     REAL,
	ema_short   REAL,
	ema_long    REAL,
	ema_trend   TEXT,
	vwap        REAL,
	rsi         REAL,
	message     TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at);

CREATE TABLE IF NOT EXISTS bot_prices (
	symbol     TEXT PRIMARY KEY,
	price      REAL NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS fundamentals (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol             TEXT NOT NULL,
	name               TEXT,
	exchange           TEXT,
	description        TEXT,
	market_cap         REAL,
	shares_outstanding REAL,
	float_shares       REAL,
	high_52w           REAL,
	low_52w            REAL,
	sector             TEXT,
	industry           TEXT,
	fetched_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fundamentals_symbol ON fundamentals(symbol, fetched_at);
`
