package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

const tradeColumns = `id, entry_datetime, type, symbol, shares, entry_price, commission,
	close_datetime, close_type, close_price, pnl, close_commission, status`

type TradeRepo struct {
	pool *pgxpool.Pool
}

func NewTradeRepo(pool *pgxpool.Pool) *TradeRepo {
	return &TradeRepo{pool: pool}
}

// GetAll returns the whole ledger in insertion order.
func (r *TradeRepo) GetAll(ctx context.Context) ([]models.Trade, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+tradeColumns+` FROM trades ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

func (r *TradeRepo) Get(ctx context.Context, id string) (*models.Trade, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)
	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// Record inserts a validated trade, assigning an ID when none is set.
func (r *TradeRepo) Record(ctx context.Context, t *models.Trade) (*models.Trade, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("trade: %w: %w", apperr.ErrInvalidInput, err)
	}
	id := t.ID
	if id == "" {
		id = uuid.New().String()
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO trades
		 (id, entry_datetime, type, symbol, shares, entry_price, commission,
		  close_datetime, close_type, close_price, pnl, close_commission, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 RETURNING `+tradeColumns,
		id, t.EntryDatetime, t.Type, t.Symbol, t.Shares, t.EntryPrice, t.Commission,
		t.CloseDatetime, t.CloseType, t.ClosePrice, t.PnL, t.CloseCommission, t.Status,
	)
	return scanTrade(row)
}

// Close writes the close fields onto an open trade. Closed trades are
// never reopened or closed twice.
func (r *TradeRepo) Close(ctx context.Context, id string, c models.TradeClose) (*models.Trade, error) {
	current, err := r.Get(ctx, id)
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

	row := r.pool.QueryRow(ctx,
		`UPDATE trades SET
		   close_datetime = $2, close_type = $3, close_price = $4,
		   pnl = $5, close_commission = $6, status = 'closed'
		 WHERE id = $1 AND status = 'open'
		 RETURNING `+tradeColumns,
		id, c.CloseDatetime, c.CloseType, c.ClosePrice, c.PnL, c.CloseCommission,
	)
	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trade %s already closed: %w", id, apperr.ErrInvalidInput)
		}
		return nil, err
	}
	return t, nil
}

// --- scan helpers ---

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

func collectTrades(rows rowsIter) ([]models.Trade, error) {
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
