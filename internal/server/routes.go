package server

import (
	"net/http"
	"strings"
	"time"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Holdings
	mux.HandleFunc("/api/holdings/", s.routeHoldings)
	mux.HandleFunc("/api/holdings", s.handleHoldingList)

	// Sync
	mux.HandleFunc("/api/sync", s.handleSync)
}

// routeHoldings dispatches /api/holdings/{ticker} by method.
func (s *Server) routeHoldings(w http.ResponseWriter, r *http.Request) {
	ticker := PathParam(r, "/api/holdings/", "")
	ticker = strings.TrimSuffix(ticker, "/")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleHoldingGet(w, r, ticker)
	case http.MethodPut:
		s.handleHoldingUpsert(w, r, ticker)
	case http.MethodDelete:
		s.handleHoldingDelete(w, r, ticker)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}
