package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Database string `json:"database"`
	Driver   string `json:"driver"`
	Stream   *int   `json:"streamClients,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if err := s.store.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
	}

	services := healthServices{Database: dbStatus, Driver: s.store.Driver}
	if s.hub != nil {
		n := s.hub.Clients()
		services.Stream = &n
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	})
}
