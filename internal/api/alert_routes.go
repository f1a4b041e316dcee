package api

import (
	"net/http"

	"github.com/kjannette/trahn-stocks-backend/internal/filtersort"
	"github.com/kjannette/trahn-stocks-backend/internal/ledger"
	"github.com/kjannette/trahn-stocks-backend/internal/models"
)

// handleAlerts returns the most recent alerts, newest first unless a sort
// is requested.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.store.Alerts.GetRecent(r.Context(), parseLimit(r, s.alertsLimit))
	if err != nil {
		s.writeFailure(w, ledger.Unavailable("read alerts", err), "failed to fetch alerts")
		return
	}

	sort, err := parseSort(r)
	if err != nil {
		s.writeFailure(w, err, "invalid sort")
		return
	}
	out, err := filtersort.Apply(alerts, filtersort.AlertSpec(), parseCriteria(r), sort)
	if err != nil {
		s.writeFailure(w, err, "failed to filter alerts")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAlertTypes lists the distinct type labels for the filter dropdown.
func (s *Server) handleAlertTypes(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.store.Alerts.GetRecent(r.Context(), parseLimit(r, s.alertsLimit))
	if err != nil {
		s.writeFailure(w, ledger.Unavailable("read alerts", err), "failed to fetch alerts")
		return
	}
	labels := filtersort.Labels(alerts, filtersort.AlertSpec())
	if labels == nil {
		labels = []string{}
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		f, err := s.store.Fundamentals.GetBySymbol(ctx, symbol)
		if err != nil {
			s.writeFailure(w, ledger.Unavailable("read fundamentals", err), "failed to fetch fundamentals")
			return
		}
		if f == nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, f)
		return
	}

	all, err := s.store.Fundamentals.GetLatest(ctx)
	if err != nil {
		s.writeFailure(w, ledger.Unavailable("read fundamentals", err), "failed to fetch fundamentals")
		return
	}
	if all == nil {
		all = []models.Fundamentals{}
	}
	writeJSON(w, http.StatusOK, all)
}
