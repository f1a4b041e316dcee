// Package seed loads YAML ledger fixtures (trades, alerts, prices and
// fundamentals) into a store.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/ledger"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

// Fixture is one YAML document. Every section is optional.
type Fixture struct {
	Trades       []models.Trade        `yaml:"trades"`
	Alerts       []models.Alert        `yaml:"alerts"`
	Prices       map[string]float64    `yaml:"prices"`
	Fundamentals []models.Fundamentals `yaml:"fundamentals"`
}

// File is a fixture together with where it came from.
type File struct {
	Path    string
	Fixture Fixture
}

type Result struct {
	Files        int `json:"files"`
	Trades       int `json:"trades"`
	Alerts       int `json:"alerts"`
	Prices       int `json:"prices"`
	Fundamentals int `json:"fundamentals"`
}

// Load expands pattern (doublestar syntax, e.g. fixtures/**/*.yaml) and
// decodes every match in path order. Unknown keys are rejected.
func Load(pattern string) ([]File, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w: %w", pattern, apperr.ErrInvalidInput, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no fixtures match %q: %w", pattern, apperr.ErrInvalidInput)
	}
	slices.Sort(matches)

	files := make([]File, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		fx, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		files = append(files, File{Path: path, Fixture: fx})
	}
	return files, nil
}

// Decode parses one or more YAML documents and merges them.
func Decode(data []byte) (Fixture, error) {
	var out Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var fx Fixture
		err := dec.Decode(&fx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Fixture{}, fmt.Errorf("decode fixture: %w: %w", apperr.ErrInvalidInput, err)
		}
		out.Trades = append(out.Trades, fx.Trades...)
		out.Alerts = append(out.Alerts, fx.Alerts...)
		out.Fundamentals = append(out.Fundamentals, fx.Fundamentals...)
		for sym, p := range fx.Prices {
			if out.Prices == nil {
				out.Prices = make(map[string]float64)
			}
			out.Prices[sym] = p
		}
	}
	return out, nil
}

// Apply writes every fixture to store. Trades go through the store's
// validation, so a fixture violating the closed-trade invariant fails
// with ErrInvalidInput. Writes already made are not rolled back.
func Apply(ctx context.Context, store *ledger.Store, files []File) (Result, error) {
	var res Result
	for _, f := range files {
		fx := f.Fixture
		for i := range fx.Trades {
			if _, err := store.Trades.Record(ctx, &fx.Trades[i]); err != nil {
				return res, fmt.Errorf("%s: trade %d: %w", f.Path, i, err)
			}
			res.Trades++
		}
		for i := range fx.Alerts {
			if _, err := store.Alerts.Record(ctx, &fx.Alerts[i]); err != nil {
				return res, fmt.Errorf("%s: alert %d: %w", f.Path, i, err)
			}
			res.Alerts++
		}
		symbols := make([]string, 0, len(fx.Prices))
		for sym := range fx.Prices {
			symbols = append(symbols, sym)
		}
		slices.Sort(symbols)
		for _, sym := range symbols {
			if err := store.Prices.Upsert(ctx, sym, fx.Prices[sym]); err != nil {
				return res, fmt.Errorf("%s: price %s: %w", f.Path, sym, err)
			}
			res.Prices++
		}
		for i := range fx.Fundamentals {
			if err := store.Fundamentals.Record(ctx, &fx.Fundamentals[i]); err != nil {
				return res, fmt.Errorf("%s: fundamentals %d: %w", f.Path, i, err)
			}
			res.Fundamentals++
		}
		res.Files++
	}
	return res, nil
}
