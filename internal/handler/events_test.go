package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineforge/jobs/internal/classify"
)

type recordingSubmitter struct {
	events []classify.RawEvent
	accept bool
}

func (s *recordingSubmitter) Submit(ev classify.RawEvent) bool {
	if s.accept {
		s.events = append(s.events, ev)
	}
	return s.accept
}

func submitEvent(sub *recordingSubmitter, body string) *httptest.ResponseRecorder {
	h := NewEventHandler(sub)
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleSubmitEvent(rec, req)
	return rec
}

func TestHandleSubmitEvent(t *testing.T) {
	sub := &recordingSubmitter{accept: true}
	player := uuid.New()

	body := `{
		"kind": "block_break",
		"player_id": "` + player.String() + `",
		"world": "world",
		"material": "stone",
		"quantity": 1,
		"coords": {"x": 10, "y": 64, "z": -3}
	}`
	rec := submitEvent(sub, body)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	require.Len(t, sub.events, 1)
	ev := sub.events[0]
	assert.Equal(t, classify.EventBlockBreak, ev.Kind)
	assert.Equal(t, player, ev.PlayerID)
	assert.Equal(t, "stone", ev.Material)
	assert.Equal(t, 10, ev.Coords.X)
	assert.False(t, ev.OccurredAt.IsZero())
}

func TestHandleSubmitEvent_KillerAndCatch(t *testing.T) {
	sub := &recordingSubmitter{accept: true}
	killer := uuid.New()
	catch := uuid.New()

	body := `{
		"kind": "entity_kill",
		"entities": [{"id": "` + uuid.NewString() + `", "type": "zombie"}],
		"killer": {"id": "` + killer.String() + `", "type": "player"},
		"catch": {"id": "` + catch.String() + `", "species": "cod"}
	}`
	rec := submitEvent(sub, body)
	require.Equal(t, http.StatusAccepted, rec.Code)

	ev := sub.events[0]
	require.NotNil(t, ev.Killer)
	assert.Equal(t, killer, ev.Killer.ID)
	require.NotNil(t, ev.Catch)
	assert.Equal(t, "cod", ev.Catch.Species)
	assert.Len(t, ev.Entities, 1)
}

func TestHandleSubmitEvent_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{`},
		{"missing kind", `{"player_id": "` + uuid.NewString() + `"}`},
		{"bad player id", `{"kind": "block_break", "player_id": "not-a-uuid"}`},
		{"bad killer id", `{"kind": "entity_kill", "killer": {"id": "nope"}}`},
		{"negative quantity", `{"kind": "block_break", "quantity": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &recordingSubmitter{accept: true}
			rec := submitEvent(sub, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, sub.events)
		})
	}
}

func TestHandleSubmitEvent_IntakeFull(t *testing.T) {
	sub := &recordingSubmitter{accept: false}

	rec := submitEvent(sub, `{"kind": "block_break", "material": "stone"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgIntakeFull)
}
