package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/api/middleware"
	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/service"
)

// AdminHandler is the privileged path: stats overrides, destructive resets,
// phase control and standings upkeep. Routes are gated by RequireAdmin and
// every service call receives the request-scoped AuthContext.
type AdminHandler struct {
	statsService  *service.StatsService
	seasonService *service.SeasonService
}

func NewAdminHandler(statsService *service.StatsService, seasonService *service.SeasonService) *AdminHandler {
	return &AdminHandler{
		statsService:  statsService,
		seasonService: seasonService,
	}
}

func (h *AdminHandler) GetDivisionStats(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.statsService.GetDivisionChallengeStats(r.Context(), auth, urlParam(r, "division"))
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			http.Error(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"players": stats})
}

func (h *AdminHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var patch service.StatsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	stats, err := h.statsService.UpdateChallengeStats(r.Context(), auth, urlParam(r, "player"), urlParam(r, "division"), patch)
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			http.Error(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ResetDivisionStats(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.statsService.ResetDivisionChallengeStats(r.Context(), auth, urlParam(r, "division")); err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			http.Error(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SetPhaseRequest struct {
	Phase         string     `json:"phase"`
	Phase1EndAt   *time.Time `json:"phase1EndAt"`
	Phase2StartAt *time.Time `json:"phase2StartAt"`
}

func (h *AdminHandler) SetPhase(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetPhaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	phase := domain.Phase(req.Phase)
	if !phase.IsValid() {
		http.Error(w, "phase must be 'scheduled' or 'challenge'", http.StatusBadRequest)
		return
	}

	season, err := h.seasonService.SetPhase(r.Context(), auth, urlParam(r, "division"), service.SetPhaseInput{
		Phase:         phase,
		Phase1EndAt:   req.Phase1EndAt,
		Phase2StartAt: req.Phase2StartAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			http.Error(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, season)
}

type UpdateStandingsRequest struct {
	Entries []service.RankEntry `json:"entries"`
}

func (h *AdminHandler) UpdateStandings(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateStandingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Entries) == 0 {
		http.Error(w, "entries are required", http.StatusBadRequest)
		return
	}

	if err := h.seasonService.UpdateStandings(r.Context(), auth, urlParam(r, "division"), req.Entries); err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			http.Error(w, "Admin privileges required", http.StatusForbidden)
			return
		}
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
