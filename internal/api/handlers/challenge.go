package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/frbcapl/pool-league-backend/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ChallengeHandler struct {
	challengeService   *service.ChallengeService
	eligibilityService *service.EligibilityService
	statsService       *service.StatsService
}

func NewChallengeHandler(challengeService *service.ChallengeService, eligibilityService *service.EligibilityService, statsService *service.StatsService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService:   challengeService,
		eligibilityService: eligibilityService,
		statsService:       statsService,
	}
}

// urlParam decodes a path segment; player names arrive percent-encoded.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

type ValidateChallengeRequest struct {
	SenderName          string     `json:"senderName"`
	ReceiverName        string     `json:"receiverName"`
	Division            string     `json:"division"`
	IsRematch           bool       `json:"isRematch"`
	OriginalChallengeID *uuid.UUID `json:"originalChallengeId"`
}

func (h *ChallengeHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SenderName == "" || req.ReceiverName == "" || req.Division == "" {
		http.Error(w, "senderName, receiverName and division are required", http.StatusBadRequest)
		return
	}

	err := h.eligibilityService.CanChallenge(r.Context(), service.ChallengeInput{
		ChallengerName:      req.SenderName,
		DefenderName:        req.ReceiverName,
		DivisionName:        req.Division,
		IsRematch:           req.IsRematch,
		OriginalChallengeID: req.OriginalChallengeID,
	})
	writeValidation(w, err)
}

type ValidateDefenseRequest struct {
	DefenderName   string `json:"defenderName"`
	ChallengerName string `json:"challengerName"`
	Division       string `json:"division"`
}

func (h *ChallengeHandler) ValidateDefense(w http.ResponseWriter, r *http.Request) {
	var req ValidateDefenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DefenderName == "" || req.ChallengerName == "" || req.Division == "" {
		http.Error(w, "defenderName, challengerName and division are required", http.StatusBadRequest)
		return
	}

	err := h.eligibilityService.ValidateDefenseAcceptance(r.Context(), req.DefenderName, req.ChallengerName, req.Division)
	writeValidation(w, err)
}

func (h *ChallengeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetChallengeStats(r.Context(), urlParam(r, "player"), urlParam(r, "division"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ChallengeHandler) GetLimits(w http.ResponseWriter, r *http.Request) {
	limits, err := h.statsService.GetChallengeLimits(r.Context(), urlParam(r, "player"), urlParam(r, "division"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

type EligibleOpponentsResponse struct {
	EligibleOpponents []*service.Opponent `json:"eligibleOpponents"`
}

func (h *ChallengeHandler) GetEligibleOpponents(w http.ResponseWriter, r *http.Request) {
	opponents, err := h.eligibilityService.ListEligibleOpponents(r.Context(), urlParam(r, "player"), urlParam(r, "division"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EligibleOpponentsResponse{EligibleOpponents: opponents})
}

type IssueChallengeRequest struct {
	SenderName          string     `json:"senderName"`
	ReceiverName        string     `json:"receiverName"`
	Division            string     `json:"division"`
	IsRematch           bool       `json:"isRematch"`
	OriginalChallengeID *uuid.UUID `json:"originalChallengeId"`
}

func (h *ChallengeHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.SenderName == "" || req.ReceiverName == "" || req.Division == "" {
		http.Error(w, "senderName, receiverName and division are required", http.StatusBadRequest)
		return
	}

	record, err := h.challengeService.Issue(r.Context(), service.ChallengeInput{
		ChallengerName:      req.SenderName,
		DefenderName:        req.ReceiverName,
		DivisionName:        req.Division,
		IsRematch:           req.IsRematch,
		OriginalChallengeID: req.OriginalChallengeID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *ChallengeHandler) challengeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid challenge id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ChallengeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := h.challengeID(w, r)
	if !ok {
		return
	}
	record, err := h.challengeService.Accept(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *ChallengeHandler) Decline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.challengeID(w, r)
	if !ok {
		return
	}
	record, err := h.challengeService.Decline(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type CompleteChallengeRequest struct {
	WinnerName string `json:"winnerName"`
}

func (h *ChallengeHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.challengeID(w, r)
	if !ok {
		return
	}

	var req CompleteChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.WinnerName == "" {
		http.Error(w, "winnerName is required", http.StatusBadRequest)
		return
	}

	record, err := h.challengeService.Complete(r.Context(), id, req.WinnerName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.challengeID(w, r)
	if !ok {
		return
	}
	record, err := h.challengeService.GetChallenge(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *ChallengeHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	records, err := h.challengeService.ListPlayerChallenges(r.Context(), urlParam(r, "player"), urlParam(r, "division"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"challenges": records})
}
