package event

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mineforge/jobs/internal/classify"
)

func TestIntake_SubmitAndDrain(t *testing.T) {
	in := NewIntake(16)

	var mu sync.Mutex
	var seen []classify.EventKind
	in.Start(2, func(_ context.Context, ev classify.RawEvent) {
		mu.Lock()
		seen = append(seen, ev.Kind)
		mu.Unlock()
	})

	for i := 0; i < 10; i++ {
		assert.True(t, in.Submit(classify.RawEvent{Kind: classify.EventBlockBreak, PlayerID: uuid.New()}))
	}

	in.Stop()
	assert.Len(t, seen, 10)
}

func TestIntake_FullBufferDropsWithoutBlocking(t *testing.T) {
	in := NewIntake(2)
	// No workers started, so the buffer fills

	assert.True(t, in.Submit(classify.RawEvent{Kind: classify.EventBlockBreak}))
	assert.True(t, in.Submit(classify.RawEvent{Kind: classify.EventBlockBreak}))
	assert.False(t, in.Submit(classify.RawEvent{Kind: classify.EventBlockBreak}))
}

func TestIntake_StopDrainsBufferedEvents(t *testing.T) {
	in := NewIntake(16)

	// Buffer events before any worker runs
	for i := 0; i < 5; i++ {
		assert.True(t, in.Submit(classify.RawEvent{Kind: classify.EventHarvest}))
	}

	var mu sync.Mutex
	count := 0
	in.Start(1, func(context.Context, classify.RawEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	in.Stop()

	assert.Equal(t, 5, count)
}
