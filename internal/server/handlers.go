package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/interfaces"
	"github.com/avaldsgard/divvy/internal/models"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// --- Holdings handlers ---

func (s *Server) handleHoldingList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filter := interfaces.HoldingFilter{}

	q := r.URL.Query()
	if owned := q.Get("owned"); owned != "" {
		filter.OwnedOnly = owned == "true" || owned == "1"
	}
	if minYield := q.Get("min_yield"); minYield != "" {
		v, err := strconv.ParseFloat(minYield, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid min_yield: "+minYield)
			return
		}
		filter.MinDividendYieldPct = v
	}
	if recs := q.Get("recommendation"); recs != "" {
		for _, part := range strings.Split(recs, ",") {
			rec := models.ParseRecommendation(part)
			if rec == "" {
				WriteError(w, http.StatusBadRequest, "Unknown recommendation: "+part)
				return
			}
			filter.Recommendations = append(filter.Recommendations, rec)
		}
	}

	holdings, err := s.app.HoldingService.List(r.Context(), filter)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing holdings: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": holdings,
		"count":    len(holdings),
	})
}

func (s *Server) handleHoldingGet(w http.ResponseWriter, r *http.Request, ticker string) {
	holding, err := s.app.HoldingService.Get(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Holding not found: %s", ticker))
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error getting holding: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, holding)
}

func (s *Server) handleHoldingUpsert(w http.ResponseWriter, r *http.Request, ticker string) {
	var input models.ManualInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	holding, err := s.app.HoldingService.UpsertManual(r.Context(), ticker, input)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving holding: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, holding)
}

func (s *Server) handleHoldingDelete(w http.ResponseWriter, r *http.Request, ticker string) {
	if err := s.app.HoldingService.Delete(r.Context(), ticker); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Holding not found: %s", ticker))
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting holding: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": models.NormalizeTicker(ticker),
	})
}

// --- Sync handler ---

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Tickers          []string `json:"tickers"`
		DiscountPct      float64  `json:"discount_pct"`
		ConfirmReduction bool     `json:"confirm_reduction"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	report, err := s.app.HoldingService.Sync(r.Context(), interfaces.SyncOptions{
		Tickers:          req.Tickers,
		DiscountPct:      req.DiscountPct,
		ConfirmReduction: req.ConfirmReduction,
	})
	if err != nil {
		if errors.Is(err, models.ErrRowCountRegression) {
			WriteError(w, http.StatusConflict, fmt.Sprintf("Sync blocked: %v", err))
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Sync error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, report)
}
