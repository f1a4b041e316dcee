package localstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

const fundamentalsColumns = `symbol, name, exchange, description, market_cap, shares_outstanding,
	float_shares, high_52w, low_52w, sector, industry, fetched_at`

type FundamentalsStore struct {
	db *sql.DB
}

func (s *FundamentalsStore) GetLatest(ctx context.Context) ([]models.Fundamentals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fundamentalsColumns+` FROM fundamentals f
		WHERE f.id = (
			SELECT g.id FROM fundamentals g
			WHERE g.symbol = f.symbol
			ORDER BY g.fetched_at DESC, g.id DESC LIMIT 1
		)
		ORDER BY symbol`)
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

func (s *FundamentalsStore) GetBySymbol(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	var f models.Fundamentals
	err := s.db.QueryRowContext(ctx, `
		SELECT `+fundamentalsColumns+` FROM fundamentals
		WHERE symbol = ? ORDER BY fetched_at DESC, id DESC LIMIT 1`, symbol,
	).Scan(fundamentalsDest(&f)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *FundamentalsStore) Record(ctx context.Context, f *models.Fundamentals) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fundamentals (`+fundamentalsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
