package localstore

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

const alertColumns = `id, ticker, action, category, price, entry_price, shares, trade_type,
	pnl, pnl_pct, ema_short, ema_long, ema_trend, vwap, rsi, message, created_at`

type AlertStore struct {
	db *sql.DB
}

func (s *AlertStore) GetRecent(ctx context.Context, limit int) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM alerts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func (s *AlertStore) Record(ctx context.Context, a *models.Alert) (*models.Alert, error) {
	out := *a
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (`+alertColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.Ticker, out.Action, out.Category, out.Price, out.EntryPrice, out.Shares, out.TradeType,
		out.PnL, out.PnLPct, out.EMAShort, out.EMALong, out.EMATrend, out.VWAP, out.RSI, out.Message, out.CreatedAt,
	)
	if err != nil {
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
