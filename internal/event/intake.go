// Package event decouples the engine from the host's callback threading
// model: game-event handlers submit raw events to a buffered intake that
// pipeline workers drain.
package event

import (
	"context"
	"sync"

	"github.com/mineforge/jobs/internal/classify"
	"github.com/mineforge/jobs/internal/logger"
	"github.com/mineforge/jobs/internal/metrics"
)

// Handler consumes one raw event
type Handler func(ctx context.Context, ev classify.RawEvent)

// Intake is the inbound raw-event queue
type Intake struct {
	events chan classify.RawEvent
	quit   chan struct{}
	wg     sync.WaitGroup
}

// NewIntake creates an intake with the given buffer size
func NewIntake(buffer int) *Intake {
	return &Intake{
		events: make(chan classify.RawEvent, buffer),
		quit:   make(chan struct{}),
	}
}

// Submit enqueues a raw event without blocking. The host's event thread must
// never stall on the engine, so a full buffer drops the event and reports it;
// sizing the buffer is the deployment's concern.
func (in *Intake) Submit(ev classify.RawEvent) bool {
	select {
	case in.events <- ev:
		return true
	default:
		metrics.EventsRejected.WithLabelValues("intake_full").Inc()
		logger.Warn("Event intake full, dropping event", "kind", string(ev.Kind))
		return false
	}
}

// Start launches worker goroutines draining the intake
func (in *Intake) Start(workers int, handler Handler) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		in.wg.Add(1)
		go in.drain(handler)
	}
}

func (in *Intake) drain(handler Handler) {
	defer in.wg.Done()
	for {
		select {
		case ev := <-in.events:
			handler(context.Background(), ev)
		case <-in.quit:
			// Drain what is already buffered before exiting
			for {
				select {
				case ev := <-in.events:
					handler(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

// Stop drains buffered events and stops the workers
func (in *Intake) Stop() {
	close(in.quit)
	in.wg.Wait()
}
