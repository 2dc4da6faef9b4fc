package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mineforge/jobs/internal/domain"
	"github.com/mineforge/jobs/internal/validation"
)

//go:embed schema.json
var schemaJSON []byte

// Sentinel errors for catalog loading
var (
	ErrInvalidCatalog     = errors.New("invalid catalog configuration")
	ErrDuplicateJobKey    = errors.New("duplicate job key")
	ErrDuplicateRule      = errors.New("duplicate reward rule")
	ErrUnknownAction      = errors.New("unknown action type")
	ErrNonMonotonicCurve  = errors.New("level curve thresholds must be strictly increasing")
	ErrCurveMustStartAtZero = errors.New("level curve must start at threshold 0")
)

// knownActions is the set of action types the classifier can produce
var knownActions = map[domain.ActionType]struct{}{
	domain.ActionBreak:   {},
	domain.ActionPlace:   {},
	domain.ActionKill:    {},
	domain.ActionFish:    {},
	domain.ActionCraft:   {},
	domain.ActionSmelt:   {},
	domain.ActionBrew:    {},
	domain.ActionEnchant: {},
	domain.ActionHarvest: {},
	domain.ActionBreed:   {},
	domain.ActionTame:    {},
	domain.ActionShear:   {},
	domain.ActionRepair:  {},
}

// fileConfig mirrors the catalog JSON document
type fileConfig struct {
	Version string       `json:"version"`
	Jobs    []domain.Job `json:"jobs"`
}

// Loader parses and validates job catalog files
type Loader struct {
	schema *validation.SchemaValidator
}

// NewLoader creates a catalog loader with the embedded schema compiled
func NewLoader() (*Loader, error) {
	schema, err := validation.NewSchemaValidator("jobs.schema.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog schema: %w", err)
	}
	return &Loader{schema: schema}, nil
}

// Load reads, validates and builds a catalog snapshot from a JSON file.
// Any error rejects the whole file; a partially valid catalog is never
// produced.
func (l *Loader) Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return l.LoadBytes(data)
}

// LoadBytes validates and builds a catalog snapshot from raw JSON
func (l *Loader) LoadBytes(data []byte) (*Snapshot, error) {
	if err := l.schema.ValidateBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return buildSnapshot(&cfg)
}

// buildSnapshot runs semantic validation and constructs the immutable snapshot
func buildSnapshot(cfg *fileConfig) (*Snapshot, error) {
	snap := &Snapshot{
		version:     cfg.Version,
		jobs:        make(map[string]*domain.Job, len(cfg.Jobs)),
		rules:       make(map[string]map[ruleKey]*domain.RewardRule, len(cfg.Jobs)),
		actionIndex: make(map[domain.ActionType]struct{}),
	}

	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if _, exists := snap.jobs[job.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateJobKey, job.Key)
		}

		if err := validateCurve(job); err != nil {
			return nil, err
		}

		jobRules := make(map[ruleKey]*domain.RewardRule, len(job.Rules))
		for j := range job.Rules {
			rule := &job.Rules[j]
			if err := normalizeRule(job.Key, rule); err != nil {
				return nil, err
			}
			key := ruleKey{action: rule.Action, subType: rule.SubType}
			if _, exists := jobRules[key]; exists {
				return nil, fmt.Errorf("%w: job %s, action %s, sub-type %s",
					ErrDuplicateRule, job.Key, rule.Action, rule.SubType)
			}
			jobRules[key] = rule
			snap.actionIndex[rule.Action] = struct{}{}
		}

		snap.jobs[job.Key] = job
		snap.rules[job.Key] = jobRules
		snap.order = append(snap.order, job.Key)
	}

	return snap, nil
}

// normalizeRule validates a rule and fills scaling defaults
func normalizeRule(jobKey string, rule *domain.RewardRule) error {
	if _, ok := knownActions[rule.Action]; !ok {
		return fmt.Errorf("%w: job %s, action %q", ErrUnknownAction, jobKey, rule.Action)
	}

	switch rule.Scaling {
	case "":
		rule.Scaling = domain.ScalingLinear
	case domain.ScalingLinear:
	case domain.ScalingDiminishing:
		if rule.ScalingExponent <= 0 || rule.ScalingExponent > 1 {
			return fmt.Errorf("%w: job %s, action %s: diminishing scaling needs exponent in (0, 1], got %v",
				ErrInvalidCatalog, jobKey, rule.Action, rule.ScalingExponent)
		}
	default:
		return fmt.Errorf("%w: job %s: unknown scaling mode %q", ErrInvalidCatalog, jobKey, rule.Scaling)
	}

	return nil
}

// validateCurve enforces the monotonicity invariants of a level curve
func validateCurve(job *domain.Job) error {
	if len(job.Curve) == 0 {
		return fmt.Errorf("%w: job %s has an empty level curve", ErrInvalidCatalog, job.Key)
	}
	if job.Curve[0].Threshold != 0 {
		return fmt.Errorf("%w: job %s", ErrCurveMustStartAtZero, job.Key)
	}

	for i := 1; i < len(job.Curve); i++ {
		prev, cur := job.Curve[i-1], job.Curve[i]
		if cur.Threshold <= prev.Threshold {
			return fmt.Errorf("%w: job %s, step %d (%v after %v)",
				ErrNonMonotonicCurve, job.Key, i, cur.Threshold, prev.Threshold)
		}
		if cur.Level <= prev.Level {
			return fmt.Errorf("%w: job %s: levels must be strictly increasing, step %d",
				ErrInvalidCatalog, job.Key, i)
		}
	}

	return nil
}
