package metrics

// Metric names
const (
	MetricNameActionsClassified = "jobs_actions_classified_total"
	MetricNameEventsRejected    = "jobs_events_rejected_total"
	MetricNamePayoutsEmitted    = "jobs_payouts_emitted_total"
	MetricNamePayoutFailures    = "jobs_payout_failures_total"
	MetricNamePayoutDeadLetters = "jobs_payout_dead_letters_total"
	MetricNameLevelUps          = "jobs_level_ups_total"
	MetricNameLedgerSaves       = "jobs_ledger_saves_total"
	MetricNameLedgerSaveErrors  = "jobs_ledger_save_errors_total"
	MetricNameCatalogReloads    = "jobs_catalog_reloads_total"
	MetricNameRewardDuration    = "jobs_reward_duration_seconds"
	MetricNameHTTPRequestsTotal = "http_requests_total"
	MetricNameHTTPDuration      = "http_request_duration_seconds"
)

// Metric help text
const (
	HelpTextActionsClassified = "Total number of job actions produced by the classifier"
	HelpTextEventsRejected    = "Total number of raw events rejected before classification"
	HelpTextPayoutsEmitted    = "Total number of payout instructions emitted"
	HelpTextPayoutFailures    = "Total number of failed economy dispatch attempts"
	HelpTextPayoutDeadLetters = "Total number of payouts written to the dead letter file"
	HelpTextLevelUps          = "Total number of job level ups"
	HelpTextLedgerSaves       = "Total number of ledger entries saved"
	HelpTextLedgerSaveErrors  = "Total number of ledger save failures"
	HelpTextCatalogReloads    = "Total number of catalog reload attempts"
	HelpTextRewardDuration    = "Reward computation latency in seconds"
	HelpTextHTTPRequestsTotal = "Total number of HTTP requests"
	HelpTextHTTPDuration      = "HTTP request latency in seconds"
)

// Metric label names
const (
	LabelAction = "action"
	LabelJob    = "job"
	LabelReason = "reason"
	LabelStatus = "status"
	LabelMethod = "method"
	LabelPath   = "path"
)

// HTTPLatencyBuckets are the histogram buckets for HTTP request durations
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// RewardLatencyBuckets are the histogram buckets for reward computations
var RewardLatencyBuckets = []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025}
