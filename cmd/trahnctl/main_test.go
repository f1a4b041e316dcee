package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/filtersort"
)

func TestPrintJSON_Indented(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, map[string]any{"session": "regular", "price": nil}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"price\": null") {
		t.Fatalf("expected indented output with explicit null, got %q", buf.String())
	}
	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestFilterFlags(t *testing.T) {
	f := filterFlags{tab: "open", symbol: "aapl", from: "2024-03-01", sort: "pnl", dir: "desc"}
	s, err := f.order()
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if s != (filtersort.Sort{Key: "pnl", Dir: filtersort.Desc}) {
		t.Fatalf("unexpected sort: %+v", s)
	}
	if c := f.criteria(); c.Tab != "open" || c.Symbol != "aapl" || c.From != "2024-03-01" {
		t.Fatalf("unexpected criteria: %+v", c)
	}

	f.dir = "up"
	if _, err := f.order(); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
