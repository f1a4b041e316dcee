package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	// Secrets (from .env)
	AlpacaAPIKey    string
	AlpacaSecretKey string
	WebhookURL      string
	BotName         string
	APIKey          string
	CORSAllowOrigin string

	// Storage
	StoreDriver string
	SQLitePath  string
	DBHost      string
	DBPort      int
	DBName      string
	DBUser      string
	DBPassword  string

	// API
	APIPort     int
	AlertsLimit int

	// Market data
	MarketTimezone      string
	YahooBaseURL        string
	QuoteTimeoutSeconds int
	QuoteRetryAttempts  int

	// Risk Management
	StopLossPercent   float64
	TakeProfitPercent float64

	// Timing
	PollIntervalSeconds int

	// Logging
	LogLevel  string
	LogFormat string

	location *time.Location
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Secrets
		AlpacaAPIKey:    envStr("ALPACA_API_KEY", ""),
		AlpacaSecretKey: envStr("ALPACA_SECRET_KEY", ""),
		WebhookURL:      envStr("WEBHOOK_URL", ""),
		BotName:         envStr("BOT_NAME", "TrahnStocks"),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// Storage
		StoreDriver: strings.ToLower(envStr("STORE_DRIVER", StoreDriverPostgres)),
		SQLitePath:  envStr("SQLITE_PATH", "trahn_stocks.db"),
		DBHost:      envStr("DB_HOST", "localhost"),
		DBPort:      envInt("DB_PORT", 5432),
		DBName:      envStr("DB_NAME", "trahn_stocks"),
		DBUser:      envStr("DB_USER", ""),
		DBPassword:  envStr("DB_PASSWORD", ""),

		// API
		APIPort:     envInt("API_PORT", 3001),
		AlertsLimit: envInt("ALERTS_LIMIT", 200),

		// Market data
		MarketTimezone:      envStr("MARKET_TIMEZONE", market.DefaultTimezone),
		YahooBaseURL:        envStr("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		QuoteTimeoutSeconds: envInt("QUOTE_TIMEOUT_SECONDS", 10),
		QuoteRetryAttempts:  envInt("QUOTE_RETRY_ATTEMPTS", 1),

		// Risk Management
		StopLossPercent:   envFloat("STOP_LOSS_PERCENT", 0),
		TakeProfitPercent: envFloat("TAKE_PROFIT_PERCENT", 0),

		// Timing
		PollIntervalSeconds: envInt("POLL_INTERVAL_SECONDS", 60),

		// Logging
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "json"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	loc, err := market.LoadLocation(c.MarketTimezone)
	if err != nil {
		errs = append(errs, err.Error())
	}
	c.location = loc

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBUser == "" {
			errs = append(errs, "DB_USER is required for the postgres store")
		}
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required for the sqlite store")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER %q, expected postgres|sqlite", c.StoreDriver))
	}

	if c.QuoteTimeoutSeconds <= 0 {
		errs = append(errs, "QUOTE_TIMEOUT_SECONDS must be positive")
	}
	if c.PollIntervalSeconds <= 0 {
		errs = append(errs, "POLL_INTERVAL_SECONDS must be positive")
	}
	if c.AlertsLimit <= 0 {
		errs = append(errs, "ALERTS_LIMIT must be positive")
	}

	if c.AlpacaAPIKey == "" || c.AlpacaSecretKey == "" {
		fmt.Fprintln(os.Stderr, "[WARN] ALPACA_API_KEY/ALPACA_SECRET_KEY not set - no fallback quote provider")
	}
	if c.StopLossPercent == 0 && c.TakeProfitPercent == 0 {
		fmt.Fprintln(os.Stderr, "[WARN] STOP_LOSS_PERCENT and TAKE_PROFIT_PERCENT are both 0 - no portfolio circuit breakers active")
	}
	if c.APIKey == "" {
		fmt.Fprintln(os.Stderr, "[WARN] API_KEY not set - REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %w:\n  %s", apperr.ErrInvalidInput, strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Trahn Stocks Dashboard Configuration ===")
	fmt.Printf("Store: %s\n", c.StoreDriver)
	if c.StoreDriver == StoreDriverSQLite {
		fmt.Printf("  SQLite: %s\n", c.SQLitePath)
	} else {
		fmt.Printf("  Postgres: %s:%d/%s\n", c.DBHost, c.DBPort, c.DBName)
	}
	fmt.Println("--------------------------------------")
	fmt.Printf("Market Timezone: %s\n", c.MarketTimezone)
	fmt.Printf("Quote Timeout: %ds (attempts: %d)\n", c.QuoteTimeoutSeconds, c.QuoteRetryAttempts)
	fmt.Printf("Alpaca Fallback: %s\n", boolLabel(c.AlpacaEnabled(), "configured", "not set"))
	fmt.Printf("Poll Interval: %ds\n", c.PollIntervalSeconds)
	fmt.Println("--------------------------------------")
	fmt.Println("Risk Configuration:")
	fmt.Printf("  Stop-Loss: %.1f%%\n", c.StopLossPercent)
	fmt.Printf("  Take-Profit: %.1f%%\n", c.TakeProfitPercent)
	fmt.Printf("  Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Location returns the market timezone resolved by Validate, loading it on
// first use if Validate was skipped.
func (c *Config) Location() (*time.Location, error) {
	if c.location != nil {
		return c.location, nil
	}
	loc, err := market.LoadLocation(c.MarketTimezone)
	if err != nil {
		return nil, err
	}
	c.location = loc
	return loc, nil
}

func (c *Config) AlpacaEnabled() bool {
	return c.AlpacaAPIKey != "" && c.AlpacaSecretKey != ""
}

func (c *Config) QuoteTimeout() time.Duration {
	return time.Duration(c.QuoteTimeoutSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
