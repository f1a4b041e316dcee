// trahnctl inspects and seeds the trading ledger from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/config"
	"github.com/kjannette/trahn-stocks-backend/internal/logging"
)

var (
	sqlitePath string
	color      bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trahnctl",
		Short: "Inspect the simulated stock trading ledger",
		Long: `trahnctl reads the same configuration as the server (.env and
environment) and prints sessions, quotes, portfolio analytics, trades and
alerts as JSON. It can also seed the ledger from YAML fixtures.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "Use the SQLite ledger at this path instead of STORE_DRIVER")
	rootCmd.PersistentFlags().BoolVar(&color, "color", false, "Colorize JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(portfolioCmd())
	rootCmd.AddCommand(tradesCmd())
	rootCmd.AddCommand(closeCmd())
	rootCmd.AddCommand(alertsCmd())
	rootCmd.AddCommand(seedCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads and validates configuration, applying --sqlite.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sqlitePath != "" {
		cfg.StoreDriver = config.StoreDriverSQLite
		cfg.SQLitePath = sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *zap.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level, "console")
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	out := pretty.Pretty(data)
	if color {
		out = pretty.Color(out, nil)
	}
	_, err = w.Write(out)
	return err
}
