package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/ledger"
	"github.com/mineforge/jobs/internal/logger"
)

// JobHandler serves catalog and ledger queries plus join/leave
type JobHandler struct {
	catalog *catalog.Store
	ledger  ledger.Service
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(cat *catalog.Store, ledgerSvc ledger.Service) *JobHandler {
	return &JobHandler{
		catalog: cat,
		ledger:  ledgerSvc,
	}
}

// jobInfo is the public job listing shape
type jobInfo struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	MaxLevel    int    `json:"max_level"`
}

// HandleGetJobs returns all configured jobs
func (h *JobHandler) HandleGetJobs(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Current()

	jobs := snap.Jobs()
	out := make([]jobInfo, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, jobInfo{
			Key:         job.Key,
			DisplayName: job.DisplayName,
			Description: job.Description,
			MaxLevel:    job.Curve[len(job.Curve)-1].Level,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"version": snap.Version(),
		"jobs":    out,
	})
}

// HandleGetPlayerJobs returns a player's ledger entries
func (h *JobHandler) HandleGetPlayerJobs(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}

	entries, err := h.ledger.Entries(r.Context(), playerID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get player entries", "error", err, "player_id", playerID)
		respondError(w, http.StatusInternalServerError, ErrMsgGetEntriesFailed)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player_id": playerID,
		"jobs":      entries,
	})
}

// HandleJoin enrolls a player in a job
func (h *JobHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}
	jobKey := chi.URLParam(r, "jobKey")

	err := h.ledger.Join(r.Context(), playerID, jobKey)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, map[string]string{"status": "joined", "job": jobKey})
	case errors.Is(err, domain.ErrJobNotFound):
		respondError(w, http.StatusNotFound, ErrMsgJobNotFound)
	case errors.Is(err, domain.ErrAlreadyJoined):
		respondError(w, http.StatusConflict, ErrMsgAlreadyJoined)
	case errors.Is(err, domain.ErrJobLimitExceeded):
		respondError(w, http.StatusConflict, ErrMsgJobLimitExceeded)
	default:
		logger.FromContext(r.Context()).Error("Join failed", "error", err, "player_id", playerID, "job", jobKey)
		respondError(w, http.StatusInternalServerError, ErrMsgJoinFailed)
	}
}

// HandleLeave removes a player from a job
func (h *JobHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}
	jobKey := chi.URLParam(r, "jobKey")

	err := h.ledger.Leave(r.Context(), playerID, jobKey)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"status": "left", "job": jobKey})
	case errors.Is(err, domain.ErrNotJoined):
		respondError(w, http.StatusNotFound, ErrMsgNotJoined)
	default:
		logger.FromContext(r.Context()).Error("Leave failed", "error", err, "player_id", playerID, "job", jobKey)
		respondError(w, http.StatusInternalServerError, ErrMsgLeaveFailed)
	}
}

// parsePlayerID extracts and validates the playerID URL parameter
func parsePlayerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	playerID, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidPlayerID)
		return uuid.Nil, false
	}
	return playerID, true
}
