package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kjannette/trahn-stocks-backend/internal/market"
)

type sessionJSON struct {
	Session   market.Session `json:"session"`
	Timestamp string         `json:"timestamp"`
	Timezone  string         `json:"timezone"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	now := s.classifier.Time()
	writeJSON(w, http.StatusOK, sessionJSON{
		Session:   market.Classify(now, s.classifier.Zone()),
		Timestamp: now.Format(time.RFC3339),
		Timezone:  s.classifier.Zone().String(),
	})
}

func (s *Server) handleStockLive(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if err := market.ValidateSymbol(symbol); err != nil {
		s.writeFailure(w, err, "invalid symbol")
		return
	}

	quote, err := s.quotes.FetchQuote(r.Context(), symbol)
	if err != nil {
		s.writeFailure(w, err, "no quote data")
		return
	}

	res := market.Resolve(*quote, s.classifier.Current())
	s.log.Debug("stock-live",
		zap.String("symbol", symbol),
		zap.String("session", string(res.Session)))
	writeJSON(w, http.StatusOK, res)
}
