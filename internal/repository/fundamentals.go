package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

const fundamentalsColumns = `symbol, name, exchange, description, market_cap, shares_outstanding,
	float_shares, high_52w, low_52w, sector, industry, fetched_at`

type FundamentalsRepo struct {
	pool *pgxpool.Pool
}

func NewFundamentalsRepo(pool *pgxpool.Pool) *FundamentalsRepo {
	return &FundamentalsRepo{pool: pool}
}

// GetLatest returns the most recent snapshot for every symbol.
func (r *FundamentalsRepo) GetLatest(ctx context.Context) ([]models.Fundamentals, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ON (symbol) `+fundamentalsColumns+`
		 FROM fundamentals ORDER BY symbol, fetched_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Fundamentals, 0)
	for rows.Next() {
		var f models.Fundamentals
		if err := rows.Scan(fundamentalsDest(&f)...); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FundamentalsRepo) GetBySymbol(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	var f models.Fundamentals
	err := r.pool.QueryRow(ctx,
		`SELECT `+fundamentalsColumns+` FROM fundamentals
		 WHERE symbol = $1 ORDER BY fetched_at DESC LIMIT 1`, symbol,
	).Scan(fundamentalsDest(&f)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *FundamentalsRepo) Record(ctx context.Context, f *models.Fundamentals) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fundamentals (`+fundamentalsColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		f.Symbol, f.Name, f.Exchange, f.Description, f.MarketCap, f.SharesOutstanding,
		f.FloatShares, f.High52w, f.Low52w, f.Sector, f.Industry, f.FetchedAt,
	)
	return err
}

func fundamentalsDest(f *models.Fundamentals) []any {
	return []any{
		&f.Symbol, &f.Name, &f.Exchange, &f.Description, &f.MarketCap, &f.SharesOutstanding,
		&f.FloatShares, &f.High52w, &f.Low52w, &f.Sector, &f.Industry, &f.FetchedAt,
	}
}
