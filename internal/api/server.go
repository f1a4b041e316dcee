package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/apperr"
	"github.com/kjannette/trahn-stocks-backend/internal/external"
	"github.com/kjannette/trahn-stocks-backend/internal/filtersort"
	"github.com/kjannette/trahn-stocks-backend/internal/ledger"
	"github.com/kjannette/trahn-stocks-backend/internal/logging"
	"github.com/kjannette/trahn-stocks-backend/internal/market"
	"github.com/kjannette/trahn-stocks-backend/internal/portfolio"
)

const maxQueryLimit = 1000

// Deps are the components the handlers compose.
type Deps struct {
	Store      *ledger.Store
	Quotes     external.QuoteSource
	Classifier *market.Classifier
	Analyzer   *portfolio.Analyzer
	Hub        *Hub
	Log        *zap.Logger
}

type Options struct {
	Port        int
	APIKey      string
	CORSOrigin  string
	AlertsLimit int
}

type Server struct {
	store       *ledger.Store
	quotes      external.QuoteSource
	classifier  *market.Classifier
	analyzer    *portfolio.Analyzer
	hub         *Hub
	log         *zap.Logger
	httpServer  *http.Server
	apiKey      string
	alertsLimit int
}

func NewServer(d Deps, o Options) *Server {
	log := logging.OrNop(d.Log)
	if o.AlertsLimit <= 0 {
		o.AlertsLimit = 200
	}
	s := &Server{
		store:       d.Store,
		quotes:      d.Quotes,
		classifier:  d.Classifier,
		analyzer:    d.Analyzer,
		hub:         d.Hub,
		log:         log.Named("api"),
		apiKey:      o.APIKey,
		alertsLimit: o.AlertsLimit,
	}

	mux := http.NewServeMux()

	// Market routes
	mux.HandleFunc("GET /v1/session", s.handleSession)
	mux.HandleFunc("GET /v1/stock-live", s.handleStockLive)

	// Ledger routes
	mux.HandleFunc("GET /v1/trades", s.handleTrades)
	mux.HandleFunc("GET /v1/trades/open", s.handleOpenTrades)
	mux.HandleFunc("GET /v1/trades/closed", s.handleClosedTrades)
	mux.HandleFunc("GET /v1/balance", s.handleBalance)
	mux.HandleFunc("GET /v1/prices", s.handlePrices)
	mux.HandleFunc("GET /v1/portfolio", s.handlePortfolio)

	// Alert and fundamentals routes
	mux.HandleFunc("GET /v1/alerts", s.handleAlerts)
	mux.HandleFunc("GET /v1/alerts/types", s.handleAlertTypes)
	mux.HandleFunc("GET /v1/fundamentals", s.handleFundamentals)

	if s.hub != nil {
		mux.HandleFunc("GET /v1/stream", s.handleStream)
	}

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(mux, o.CORSOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", o.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	return s
}

// Handler exposes the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- query helpers ---

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// parseCriteria reads tab, symbol, type, from and to. Validation happens
// in filtersort.Apply.
func parseCriteria(r *http.Request) filtersort.Criteria {
	q := r.URL.Query()
	return filtersort.Criteria{
		Tab:      q.Get("tab"),
		Symbol:   strings.TrimSpace(q.Get("symbol")),
		Category: q.Get("type"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}
}

// parseSort reads sort and dir. An empty sort key leaves the choice to the
// caller's default.
func parseSort(r *http.Request) (filtersort.Sort, error) {
	q := r.URL.Query()
	dir, err := filtersort.ParseDir(q.Get("dir"))
	if err != nil {
		return filtersort.Sort{}, err
	}
	return filtersort.Sort{Key: q.Get("sort"), Dir: dir}, nil
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeFailure logs err and answers with its mapped status. Client errors
// echo the message; everything else gets the generic text in msg.
func (s *Server) writeFailure(w http.ResponseWriter, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusBadRequest {
		writeError(w, status, err.Error())
		return
	}
	s.log.Error(msg, zap.Error(err))
	writeError(w, status, msg)
}
