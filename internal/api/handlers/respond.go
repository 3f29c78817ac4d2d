package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/frbcapl/pool-league-backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR [handlers.writeJSON] failed to encode response: %v", err)
	}
}

// ValidationResponse is the shape the league client consumes from the
// validate endpoints.
type ValidationResponse struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
	Code    string   `json:"code,omitempty"`
}

// writeValidation turns a rule-check outcome into the client's isValid/errors
// payload. Infrastructure failures still surface as 500s.
func writeValidation(w http.ResponseWriter, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, ValidationResponse{IsValid: true})
		return
	}
	code := domain.ReasonCode(err)
	if code == "InternalError" {
		log.Printf("ERROR [handlers.writeValidation] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ValidationResponse{
		IsValid: false,
		Errors:  []string{err.Error()},
		Code:    code,
	})
}

// writeServiceError maps service errors to HTTP statuses for the non-validate
// endpoints.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrChallengeNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrDivisionNotFound),
		errors.Is(err, domain.ErrSeasonNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": err.Error(),
			"code":  domain.ReasonCode(err),
		})
	case domain.IsRuleViolation(err):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": err.Error(),
			"code":  domain.ReasonCode(err),
		})
	default:
		log.Printf("ERROR [handlers.writeServiceError] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
