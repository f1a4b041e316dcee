package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

type PriceRepo struct {
	pool *pgxpool.Pool
}

func NewPriceRepo(pool *pgxpool.Pool) *PriceRepo {
	return &PriceRepo{pool: pool}
}

// GetAll returns the latest price per symbol. Symbols without a price are
// simply absent.
func (r *PriceRepo) GetAll(ctx context.Context) (models.PriceMap, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol, price FROM bot_prices`)
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

func (r *PriceRepo) Upsert(ctx context.Context, symbol string, price float64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bot_prices (symbol, price, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (symbol) DO UPDATE SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at`,
		symbol, price,
	)
	return err
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}
