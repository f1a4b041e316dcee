package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

const alertColumns = `id, ticker, action, category, price, entry_price, shares, trade_type,
	pnl, pnl_pct, ema_short, ema_long, ema_trend, vwap, rsi, message, created_at`

type AlertRepo struct {
	pool *pgxpool.Pool
}

func NewAlertRepo(pool *pgxpool.Pool) *AlertRepo {
	return &AlertRepo{pool: pool}
}

// GetRecent returns the newest alerts first.
func (r *AlertRepo) GetRecent(ctx context.Context, limit int) ([]models.Alert, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+alertColumns+` FROM alerts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepo) Record(ctx context.Context, a *models.Alert) (*models.Alert, error) {
	id := a.ID
	if id == "" {
		id = uuid.New().String()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO alerts (`+alertColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		 RETURNING `+alertColumns,
		id, a.Ticker, a.Action, a.Category, a.Price, a.EntryPrice, a.Shares, a.TradeType,
		a.PnL, a.PnLPct, a.EMAShort, a.EMALong, a.EMATrend, a.VWAP, a.RSI, a.Message, a.CreatedAt,
	)
	var out models.Alert
	if err := row.Scan(alertDest(&out)...); err != nil {
		return nil, err
	}
	return &out, nil
}

func alertDest(a *models.Alert) []any {
	return []any{
		&a.ID, &a.Ticker, &a.Action, &a.Category, &a.Price, &a.EntryPrice, &a.Shares, &a.TradeType,
		&a.PnL, &a.PnLPct, &a.EMAShort, &a.EMALong, &a.EMATrend, &a.VWAP, &a.RSI, &a.Message, &a.CreatedAt,
	}
}

func collectAlerts(rows rowsIter) ([]models.Alert, error) {
	out := make([]models.Alert, 0)
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(alertDest(&a)...); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
