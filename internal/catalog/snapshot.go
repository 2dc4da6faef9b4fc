package catalog

import (
	"fmt"

	"github.com/mineforge/jobs/internal/domain"
)

// ruleKey identifies a reward rule within a job
type ruleKey struct {
	action  domain.ActionType
	subType string
}

// Snapshot is one immutable, fully-validated view of the job catalog.
// Snapshots are built once by the loader and never mutated, so concurrent
// readers need no locking. Reloads produce a fresh snapshot that the Store
// swaps in atomically.
type Snapshot struct {
	version     string
	jobs        map[string]*domain.Job
	order       []string
	rules       map[string]map[ruleKey]*domain.RewardRule
	actionIndex map[domain.ActionType]struct{}
}

// Version returns the catalog version string from the config file
func (s *Snapshot) Version() string {
	return s.version
}

// Jobs returns all jobs in config order
func (s *Snapshot) Jobs() []*domain.Job {
	out := make([]*domain.Job, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.jobs[key])
	}
	return out
}

// Job returns the job with the given key
func (s *Snapshot) Job(key string) (*domain.Job, bool) {
	j, ok := s.jobs[key]
	return j, ok
}

// HasJob reports whether the catalog defines the given job
func (s *Snapshot) HasJob(key string) bool {
	_, ok := s.jobs[key]
	return ok
}

// Rule looks up the reward rule for (job, action, subType). Lookup order is
// exact sub-type match, then the wildcard sub-type, then a miss. Job designers
// rely on wildcard rules as catch-alls, so this order is contractual.
func (s *Snapshot) Rule(jobKey string, action domain.ActionType, subType string) (*domain.RewardRule, bool) {
	jobRules, ok := s.rules[jobKey]
	if !ok {
		return nil, false
	}
	if r, ok := jobRules[ruleKey{action: action, subType: subType}]; ok {
		return r, true
	}
	if r, ok := jobRules[ruleKey{action: action, subType: domain.SubTypeAny}]; ok {
		return r, true
	}
	return nil, false
}

// RewardsAction reports whether any job has a rule for the action type.
// The classifier uses this as its cheap reject path before doing any
// integration lookups.
func (s *Snapshot) RewardsAction(action domain.ActionType) bool {
	_, ok := s.actionIndex[action]
	return ok
}

// LevelFor returns the level and income multiplier for the given XP in the
// given job: the greatest curve step whose threshold does not exceed xp.
func (s *Snapshot) LevelFor(jobKey string, xp float64) (int, float64, error) {
	job, ok := s.jobs[jobKey]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobKey)
	}
	level, mult := levelAt(job.Curve, xp)
	return level, mult, nil
}

// levelAt walks the curve to the greatest step with threshold <= xp.
// The loader guarantees the curve is non-empty, starts at threshold 0, and
// is strictly increasing, so the first step always matches.
func levelAt(curve domain.LevelCurve, xp float64) (int, float64) {
	level := curve[0].Level
	mult := curve[0].Multiplier
	for _, step := range curve[1:] {
		if step.Threshold > xp {
			break
		}
		level = step.Level
		mult = step.Multiplier
	}
	return level, mult
}
