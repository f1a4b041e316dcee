package api

import (
	"net/http"

	"github.com/kjannette/trahn-stocks-backend/internal/filtersort"
	"github.com/kjannette/trahn-stocks-backend/internal/ledger"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
)

// openTradeJSON is an open trade marked to the latest known price.
type openTradeJSON struct {
	models.Trade
	CurrentPrice  *float64 `json:"current_price"`
	UnrealizedPnL *float64 `json:"unrealized_pnl"`
}

// handleTrades returns the ledger in stored order. Query parameters, when
// present, run it through the trade filter and sort table.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.URL.RawQuery == "" {
		trades, err := s.store.Trades.GetAll(r.Context())
		if err != nil {
			s.writeFailure(w, ledger.Unavailable("read trades", err), "failed to fetch trades")
			return
		}
		writeJSON(w, http.StatusOK, trades)
		return
	}

	trades, prices, err := ledger.Snapshot(r.Context(), s.store.Trades, s.store.Prices)
	if err != nil {
		s.writeFailure(w, err, "failed to fetch trades")
		return
	}
	sort, err := parseSort(r)
	if err != nil {
		s.writeFailure(w, err, "invalid sort")
		return
	}
	out, err := filtersort.Apply(trades, filtersort.TradeSpec(prices), parseCriteria(r), sort)
	if err != nil {
		s.writeFailure(w, err, "failed to filter trades")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOpenTrades(w http.ResponseWriter, r *http.Request) {
	trades, prices, err := ledger.Snapshot(r.Context(), s.store.Trades, s.store.Prices)
	if err != nil {
		s.writeFailure(w, err, "failed to fetch trades")
		return
	}

	sort, err := parseSort(r)
	if err != nil {
		s.writeFailure(w, err, "invalid sort")
		return
	}
	c := parseCriteria(r)
	c.Tab = "open"
	out, err := filtersort.Apply(trades, filtersort.TradeSpec(prices), c, sort)
	if err != nil {
		s.writeFailure(w, err, "failed to filter trades")
		return
	}

	rows := make([]openTradeJSON, len(out))
	for i, t := range out {
		rows[i] = openTradeJSON{Trade: t}
		if cur, ok := prices.Lookup(t.Symbol); ok {
			u := portfolio.UnrealizedPnL(t, cur)
			rows[i].CurrentPrice = &cur
			rows[i].UnrealizedPnL = &u
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleClosedTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.store.Trades.GetAll(r.Context())
	if err != nil {
		s.writeFailure(w, ledger.Unavailable("read trades", err), "failed to fetch trades")
		return
	}

	sort, err := parseSort(r)
	if err != nil {
		s.writeFailure(w, err, "invalid sort")
		return
	}
	if sort.Key == "" {
		sort = filtersort.ClosedTradeSort
	}
	c := parseCriteria(r)
	c.Tab = "closed"
	out, err := filtersort.Apply(trades, filtersort.TradeSpec(nil), c, sort)
	if err != nil {
		s.writeFailure(w, err, "failed to filter trades")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	trades, err := s.store.Trades.GetAll(r.Context())
	if err != nil {
		s.writeFailure(w, ledger.Unavailable("read trades", err), "failed to fetch balance")
		return
	}
	writeJSON(w, http.StatusOK, portfolio.ComputeBalance(trades))
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	prices, err := s.store.Prices.GetAll(r.Context())
	if err != nil {
		s.writeFailure(w, ledger.Unavailable("read prices", err), "failed to fetch prices")
		return
	}
	if prices == nil {
		prices = models.PriceMap{}
	}
	writeJSON(w, http.StatusOK, prices)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	trades, prices, err := ledger.Snapshot(r.Context(), s.store.Trades, s.store.Prices)
	if err != nil {
		s.writeFailure(w, err, "failed to compute portfolio")
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.Compute(trades, prices))
}
