package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/boost"
	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/ledger"
	"github.com/mineforge/jobs/internal/logger"
)

// AdminHandler serves the operator endpoints: catalog reload, booster
// grants, ledger flush and XP resets.
type AdminHandler struct {
	catalog  *catalog.Store
	ledger   ledger.Service
	boosters *boost.Manager
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(cat *catalog.Store, ledgerSvc ledger.Service, boosters *boost.Manager) *AdminHandler {
	return &AdminHandler{
		catalog:  cat,
		ledger:   ledgerSvc,
		boosters: boosters,
	}
}

// HandleReloadCatalog re-reads the catalog file. A rejected reload keeps the
// previous catalog serving and reports the validation error.
func (h *AdminHandler) HandleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(r.Context()); err != nil {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  ErrMsgReloadFailed,
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "reloaded",
		"version": h.catalog.Current().Version(),
	})
}

// GrantBoosterRequest is the request body for granting a booster
type GrantBoosterRequest struct {
	PlayerID         string  `json:"player_id" validate:"required,uuid"`
	Key              string  `json:"key" validate:"required"`
	Scope            string  `json:"scope" validate:"required,oneof=global job"`
	JobKey           string  `json:"job_key,omitempty"`
	Multiplier       float64 `json:"multiplier" validate:"required,gt=0"`
	RequiredJobLevel int     `json:"required_job_level,omitempty" validate:"min=0"`
	Charges          int     `json:"charges,omitempty" validate:"min=0"`
	DurationSeconds  int     `json:"duration_seconds" validate:"required,gt=0"`
}

// HandleGrantBooster activates a booster for a player
func (h *AdminHandler) HandleGrantBooster(w http.ResponseWriter, r *http.Request) {
	var req GrantBoosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  ErrMsgInvalidRequest,
			"fields": FormatValidationError(err),
		})
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidPlayerID)
		return
	}

	booster := &domain.Booster{
		Key:              req.Key,
		PlayerID:         playerID,
		Scope:            domain.BoosterScope(req.Scope),
		JobKey:           req.JobKey,
		Multiplier:       req.Multiplier,
		RequiredJobLevel: req.RequiredJobLevel,
		Charges:          req.Charges,
		ExpiresAt:        time.Now().Add(time.Duration(req.DurationSeconds) * time.Second),
	}

	if err := h.boosters.Grant(r.Context(), booster); err != nil {
		logger.FromContext(r.Context()).Error("Booster grant failed", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgGrantBoosterFailed)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "granted", "key": req.Key})
}

// HandleRevokeBooster deactivates a booster
func (h *AdminHandler) HandleRevokeBooster(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	if !h.boosters.Revoke(playerID, key) {
		respondError(w, http.StatusNotFound, "Booster not active")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "revoked", "key": key})
}

// HandleResetXP performs the administrative XP reset for one (player, job)
func (h *AdminHandler) HandleResetXP(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}
	jobKey := chi.URLParam(r, "jobKey")

	err := h.ledger.ResetXP(r.Context(), playerID, jobKey)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"status": "reset", "job": jobKey})
	case errors.Is(err, domain.ErrNotJoined):
		respondError(w, http.StatusNotFound, ErrMsgNotJoined)
	default:
		logger.FromContext(r.Context()).Error("XP reset failed", "error", err, "player_id", playerID, "job", jobKey)
		respondError(w, http.StatusInternalServerError, ErrMsgResetFailed)
	}
}

// HandleSaveLedger forces a full flush of dirty ledger entries
func (h *AdminHandler) HandleSaveLedger(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.SaveAll(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("Manual ledger flush failed", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgSaveFailed)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
