package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kjannette/trahn-stocks-backend/internal/external"
	"github.com/kjannette/trahn-stocks-backend/internal/filtersort"
	"github.com/kjannette/trahn-stocks-backend/internal/ledger"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
	"github.com/kjannette/trahn-stocks-backend/internal/seed"
)

const datetimeLayout = "2006-01-02T15:04:05"

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Print the current market session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			c := market.NewClassifier(loc)
			now := c.Time()
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"session":   market.Classify(now, loc),
				"timestamp": now.Format(time.RFC3339),
				"timezone":  loc.String(),
			})
		},
	}
}

func quoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote EXCHANGE:TICKER",
		Short: "Fetch a live quote and resolve the session price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := args[0]
			if err := market.ValidateSymbol(symbol); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			chain := external.NewQuoteChain(cfg, newLogger())
			q, err := chain.FetchQuote(cmd.Context(), symbol)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), market.Resolve(*q, market.NewClassifier(loc).Current()))
		},
	}
}

func portfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Compute balance, unrealized P&L and today's extremes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			trades, prices, err := ledger.Snapshot(cmd.Context(), store.Trades, store.Prices)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), portfolio.NewAnalyzer(loc).Compute(trades, prices))
		},
	}
}

// filterFlags binds the filter and sort options shared by trades and alerts.
type filterFlags struct {
	tab, symbol, category, from, to, sort, dir string
}

func (f *filterFlags) bind(cmd *cobra.Command, defaultTab string) {
	cmd.Flags().StringVar(&f.tab, "tab", defaultTab, "Tab to show")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "Case-insensitive symbol substring")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Sort key")
	cmd.Flags().StringVar(&f.dir, "dir", "asc", "Sort direction (asc|desc)")
}

func (f *filterFlags) criteria() filtersort.Criteria {
	return filtersort.Criteria{Tab: f.tab, Symbol: f.symbol, Category: f.category, From: f.from, To: f.to}
}

func (f *filterFlags) order() (filtersort.Sort, error) {
	dir, err := filtersort.ParseDir(f.dir)
	if err != nil {
		return filtersort.Sort{}, err
	}
	return filtersort.Sort{Key: f.sort, Dir: dir}, nil
}

func tradesCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List trades (tabs: all, open, closed)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.order()
			if err != nil {
				return err
			}
			if s.Key == "" && f.tab == models.StatusClosed {
				s = filtersort.ClosedTradeSort
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			trades, prices, err := ledger.Snapshot(cmd.Context(), store.Trades, store.Prices)
			if err != nil {
				return err
			}
			out, err := filtersort.Apply(trades, filtersort.TradeSpec(prices), f.criteria(), s)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	f.bind(cmd, "all")
	cmd.Flags().StringVar(&f.category, "type", "", "Trade type (buy|short)")
	return cmd
}

func closeCmd() *cobra.Command {
	var (
		price      float64
		commission float64
		at         string
	)
	cmd := &cobra.Command{
		Use:   "close TRADE_ID",
		Short: "Close an open trade at a price, recording its realized P&L",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if price <= 0 {
				return fmt.Errorf("--price must be positive")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			if at == "" {
				at = time.Now().In(loc).Format(datetimeLayout)
			} else if _, err := time.Parse(datetimeLayout, at); err != nil {
				return fmt.Errorf("--at must look like %s: %w", datetimeLayout, err)
			}

			store, err := ledger.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.Trades.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("trade %s not found", args[0])
			}

			closed, err := store.Trades.Close(cmd.Context(), t.ID, models.TradeClose{
				CloseDatetime:   at,
				CloseType:       models.CloseTypeFor(t.Type),
				ClosePrice:      price,
				CloseCommission: commission,
				PnL:             portfolio.RealizedPnL(*t, price),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), closed)
		},
	}
	cmd.Flags().Float64Var(&price, "price", 0, "Close price")
	cmd.Flags().Float64Var(&commission, "commission", 0, "Close commission")
	cmd.Flags().StringVar(&at, "at", "", "Close datetime (defaults to now in the market timezone)")
	return cmd
}

func alertsCmd() *cobra.Command {
	var (
		f     filterFlags
		limit int
		types bool
	)
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List recent alerts (tabs: all, signal, profit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.order()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.AlertsLimit
			}
			store, err := ledger.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			alerts, err := store.Alerts.GetRecent(cmd.Context(), limit)
			if err != nil {
				return ledger.Unavailable("read alerts", err)
			}
			if types {
				return printJSON(cmd.OutOrStdout(), filtersort.Labels(alerts, filtersort.AlertSpec()))
			}
			out, err := filtersort.Apply(alerts, filtersort.AlertSpec(), f.criteria(), s)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	f.bind(cmd, "all")
	cmd.Flags().StringVar(&f.category, "type", "", "Alert category or action")
	cmd.Flags().IntVar(&limit, "limit", 0, "Alerts to read (defaults to ALERTS_LIMIT)")
	cmd.Flags().BoolVar(&types, "types", false, "Print the distinct alert type labels instead")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed GLOB",
		Short: "Load YAML fixtures (e.g. 'fixtures/**/*.yaml') into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := seed.Apply(cmd.Context(), store, files)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
