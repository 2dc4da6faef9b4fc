package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics
var (
	ActionsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActionsClassified,
			Help: HelpTextActionsClassified,
		},
		[]string{LabelAction},
	)

	EventsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsRejected,
			Help: HelpTextEventsRejected,
		},
		[]string{LabelReason},
	)

	RewardDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameRewardDuration,
			Help:    HelpTextRewardDuration,
			Buckets: RewardLatencyBuckets,
		},
	)
)

// Payout metrics
var (
	PayoutsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePayoutsEmitted,
			Help: HelpTextPayoutsEmitted,
		},
		[]string{LabelJob},
	)

	PayoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePayoutFailures,
			Help: HelpTextPayoutFailures,
		},
	)

	PayoutDeadLetters = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePayoutDeadLetters,
			Help: HelpTextPayoutDeadLetters,
		},
	)

	LevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
		[]string{LabelJob},
	)
)

// Persistence metrics
var (
	LedgerSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerSaves,
			Help: HelpTextLedgerSaves,
		},
	)

	LedgerSaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerSaveErrors,
			Help: HelpTextLedgerSaveErrors,
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogReloads,
			Help: HelpTextCatalogReloads,
		},
		[]string{LabelStatus},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPDuration,
			Help:    HelpTextHTTPDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)
