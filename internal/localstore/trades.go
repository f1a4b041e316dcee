package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

const tradeColumns = `id, entry_datetime, type, symbol, shares, entry_price, commission,
	close_datetime, close_type, close_price, pnl, close_commission, status`

type TradeStore struct {
	db *sql.DB
}

func (s *TradeStore) GetAll(ctx context.Context) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tradeColumns+` FROM trades ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Trade, 0)
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(tradeDest(&t)...); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *TradeStore) Get(ctx context.Context, id string) (*models.Trade, error) {
	t, err := scanTrade(s.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (s *TradeStore) Record(ctx context.Context, t *models.Trade) (*models.Trade, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("trade: %w: %w", apperr.ErrInvalidInput, err)
	}
	id := t.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.EntryDatetime, t.Type, t.Symbol, t.Shares, t.EntryPrice, t.Commission,
		t.CloseDatetime, t.CloseType, t.ClosePrice, t.PnL, t.CloseCommission, t.Status,
	)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *TradeStore) Close(ctx context.Context, id string, c models.TradeClose) (*models.Trade, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("trade %s not found: %w", id, apperr.ErrInvalidInput)
	}
	if !current.IsOpen() {
		return nil, fmt.Errorf("trade %s already closed: %w", id, apperr.ErrInvalidInput)
	}
	closed := c.Apply(*current)
	if err := closed.Validate(); err != nil {
		return nil, fmt.Errorf("close trade %s: %w: %w", id, apperr.ErrInvalidInput, err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET
			close_datetime = ?, close_type = ?, close_price = ?,
			pnl = ?, close_commission = ?, status = 'closed'
		WHERE id = ? AND status = 'open'`,
		c.CloseDatetime, c.CloseType, c.ClosePrice, c.PnL, c.CloseCommission, id,
	)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("trade %s already closed: %w", id, apperr.ErrInvalidInput)
	}
	return s.Get(ctx, id)
}

func tradeDest(t *models.Trade) []any {
	return []any{
		&t.ID, &t.EntryDatetime, &t.Type, &t.Symbol, &t.Shares, &t.EntryPrice, &t.Commission,
		&t.CloseDatetime, &t.CloseType, &t.ClosePrice, &t.PnL, &t.CloseCommission, &t.Status,
	}
}

func scanTrade(row scannable) (*models.Trade, error) {
	var t models.Trade
	if err := row.Scan(tradeDest(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}
