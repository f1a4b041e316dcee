package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("QUOTE_TIMEOUT_SECONDS", "")
	t.Setenv("POLL_INTERVAL_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("expected postgres default, got %s", cfg.StoreDriver)
	}
	if cfg.QuoteTimeoutSeconds != 10 || cfg.PollIntervalSeconds != 60 {
		t.Fatalf("unexpected timing defaults: %+v", cfg)
	}
}

func TestValidate_SQLite(t *testing.T) {
	cfg := &Config{
		StoreDriver:         StoreDriverSQLite,
		SQLitePath:          ":memory:",
		MarketTimezone:      "America/New_York",
		QuoteTimeoutSeconds: 10,
		PollIntervalSeconds: 60,
		AlertsLimit:         200,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "America/New_York" {
		t.Fatalf("Location: %v %v", loc, err)
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := &Config{
		StoreDriver:    "mongo",
		MarketTimezone: "Nowhere/Special",
	}
	err := cfg.Validate()
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	for _, want := range []string{"STORE_DRIVER", "Nowhere/Special", "QUOTE_TIMEOUT_SECONDS", "POLL_INTERVAL_SECONDS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TRAHN_TEST_INT", "not-a-number")
	if got := envInt("TRAHN_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	t.Setenv("TRAHN_TEST_FLOAT", "2.5")
	if got := envFloat("TRAHN_TEST_FLOAT", 0); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
}
