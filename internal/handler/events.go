package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/classify"
)

// EventSubmitter accepts raw game events for asynchronous processing
type EventSubmitter interface {
	Submit(ev classify.RawEvent) bool
}

// EventHandler is the host adapter's HTTP entry point for raw game events
type EventHandler struct {
	pipeline EventSubmitter
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(pipeline EventSubmitter) *EventHandler {
	return &EventHandler{pipeline: pipeline}
}

// SubmitEventRequest is the request body for reporting a raw game event
type SubmitEventRequest struct {
	Kind     string `json:"kind" validate:"required"`
	PlayerID string `json:"player_id,omitempty" validate:"omitempty,uuid"`
	World    string `json:"world,omitempty"`
	Material string `json:"material,omitempty"`
	Quantity int    `json:"quantity,omitempty" validate:"min=0"`

	Coords struct {
		X int `json:"x"`
		Y int `json:"y"`
		Z int `json:"z"`
	} `json:"coords"`

	Entities []EntityRefBody `json:"entities,omitempty"`
	Killer   *EntityRefBody  `json:"killer,omitempty"`
	Catch    *CatchRefBody   `json:"catch,omitempty"`
}

// EntityRefBody identifies an entity involved in an event
type EntityRefBody struct {
	ID   string `json:"id" validate:"required,uuid"`
	Type string `json:"type"`
}

// CatchRefBody identifies a fishing catch
type CatchRefBody struct {
	ID      string `json:"id" validate:"required,uuid"`
	Species string `json:"species"`
}

// HandleSubmitEvent enqueues a raw event for classification. The response
// acknowledges acceptance only; rewards settle asynchronously.
func (h *EventHandler) HandleSubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req SubmitEventRequest
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

	ev, err := req.toRawEvent()
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}

	if !h.pipeline.Submit(ev) {
		respondError(w, http.StatusServiceUnavailable, ErrMsgIntakeFull)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (r *SubmitEventRequest) toRawEvent() (classify.RawEvent, error) {
	ev := classify.RawEvent{
		Kind:       classify.EventKind(r.Kind),
		World:      r.World,
		Material:   r.Material,
		Quantity:   r.Quantity,
		Coords:     classify.Coords{X: r.Coords.X, Y: r.Coords.Y, Z: r.Coords.Z},
		OccurredAt: time.Now(),
	}

	if r.PlayerID != "" {
		id, err := uuid.Parse(r.PlayerID)
		if err != nil {
			return classify.RawEvent{}, err
		}
		ev.PlayerID = id
	}

	for _, e := range r.Entities {
		ref, err := e.toRef()
		if err != nil {
			return classify.RawEvent{}, err
		}
		ev.Entities = append(ev.Entities, ref)
	}

	if r.Killer != nil {
		ref, err := r.Killer.toRef()
		if err != nil {
			return classify.RawEvent{}, err
		}
		ev.Killer = &ref
	}

	if r.Catch != nil {
		id, err := uuid.Parse(r.Catch.ID)
		if err != nil {
			return classify.RawEvent{}, err
		}
		ev.Catch = &classify.CatchRef{ID: id, Species: r.Catch.Species}
	}

	return ev, nil
}

func (e *EntityRefBody) toRef() (classify.EntityRef, error) {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return classify.EntityRef{}, err
	}
	return classify.EntityRef{ID: id, Type: e.Type}, nil
}
