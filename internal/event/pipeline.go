package event

import (
	"context"

	"github.com/mineforge/jobs/internal/classify"
	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/reward"
)

// PayoutSink consumes the instructions the pipeline produces
type PayoutSink interface {
	Dispatch(instr domain.PayoutInstruction)
}

// Pipeline wires intake, classifier, reward engine and payout sink together:
// raw event in, payout instructions out.
type Pipeline struct {
	intake     *Intake
	classifier *classify.Classifier
	engine     *reward.Engine
	sink       PayoutSink
	workers    int
}

// NewPipeline creates a pipeline
func NewPipeline(intake *Intake, classifier *classify.Classifier, engine *reward.Engine, sink PayoutSink, workers int) *Pipeline {
	return &Pipeline{
		intake:     intake,
		classifier: classifier,
		engine:     engine,
		sink:       sink,
		workers:    workers,
	}
}

// Submit feeds one raw event into the pipeline
func (p *Pipeline) Submit(ev classify.RawEvent) bool {
	return p.intake.Submit(ev)
}

// Start begins draining the intake
func (p *Pipeline) Start() {
	p.intake.Start(p.workers, p.handle)
}

// Stop drains and stops the pipeline workers
func (p *Pipeline) Stop() {
	p.intake.Stop()
}

func (p *Pipeline) handle(ctx context.Context, ev classify.RawEvent) {
	for _, action := range p.classifier.Classify(ctx, ev) {
		for _, instr := range p.engine.Reward(ctx, action) {
			p.sink.Dispatch(instr)
		}
	}
}
