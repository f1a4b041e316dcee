package localstore

import (
	"context"
	"database/sql"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

type PriceStore struct {
	db *sql.DB
}

func (s *PriceStore) GetAll(ctx context.Context) (models.PriceMap, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, price FROM bot_prices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(models.PriceMap)
	for rows.Next() {
		var symbol string
		var price float64
		if err := rows.Scan(&symbol, &price); err != nil {
			return nil, err
		}
		out[symbol] = price
	}
	return out, rows.Err()
}

func (s *PriceStore) Upsert(ctx context.Context, symbol string, price float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bot_prices (symbol, price, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			updated_at = excluded.updated_at`,
		symbol, price,
	)
	return err
}
