package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	entriesCommitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "ledger",
		Name:      "entries_committed_total",
		Help:      "Number of ledger entries committed, labeled by activity type.",
	}, []string{"activity_type"})

	pointsAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "ledger",
		Name:      "points_awarded_total",
		Help:      "Total points awarded across committed entries, labeled by activity type.",
	}, []string{"activity_type"})

	rejectedSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "ledger",
		Name:      "submissions_rejected_total",
		Help:      "Number of submissions rejected before any state mutation.",
	}, []string{"activity_type"})

	notifierFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rewards_engine",
		Subsystem: "notifier",
		Name:      "failures_total",
		Help:      "Downstream observer failures, labeled by target. Never fails the record call.",
	}, []string{"target"})
)

func init() {
	prometheus.MustRegister(entriesCommitted, pointsAwarded, rejectedSubmissions, notifierFailures)
}

// RecordEntryCommitted tracks a committed ledger entry and its point value.
func RecordEntryCommitted(activityType string, points int64) {
	entriesCommitted.WithLabelValues(activityType).Inc()
	pointsAwarded.WithLabelValues(activityType).Add(float64(points))
}

// RecordRejectedSubmission tracks a submission rejected during validation.
func RecordRejectedSubmission(activityType string) {
	rejectedSubmissions.WithLabelValues(activityType).Inc()
}

// RecordNotifierFailure tracks a swallowed downstream failure.
func RecordNotifierFailure(target string) {
	notifierFailures.WithLabelValues(target).Inc()
}
