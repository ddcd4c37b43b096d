package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	partsScheduledCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "obra",
		Subsystem: "planner",
		Name:      "parts_scheduled_total",
		Help:      "Scheduled parts produced by previews, labeled by plan mode.",
	}, []string{"mode"})

	incompleteCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obra",
		Subsystem: "planner",
		Name:      "incomplete_distributions_total",
		Help:      "Distributions that hit the day-advance ceiling with hours left over.",
	})

	loadLookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obra",
		Subsystem: "planner",
		Name:      "load_lookup_failures_total",
		Help:      "Existing-load lookups that failed and fell back to an empty calendar.",
	})

	distributedHours = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "obra",
		Subsystem: "planner",
		Name:      "distributed_hours",
		Help:      "Hours distributed per preview.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	partsCommittedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obra",
		Subsystem: "planner",
		Name:      "parts_committed_total",
		Help:      "Scheduled parts persisted as activities.",
	})

	partsFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obra",
		Subsystem: "planner",
		Name:      "parts_failed_total",
		Help:      "Scheduled parts that failed to persist.",
	})

	eventsPublishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obra",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Activity events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(
		partsScheduledCounter,
		incompleteCounter,
		loadLookupFailures,
		distributedHours,
		partsCommittedCounter,
		partsFailedCounter,
		eventsPublishFailures,
	)
}

// RecordPreview counts the outcome of one distribution.
func RecordPreview(mode string, parts int, hours float64, incomplete bool) {
	partsScheduledCounter.WithLabelValues(mode).Add(float64(parts))
	if hours > 0 {
		distributedHours.Observe(hours)
	}
	if incomplete {
		incompleteCounter.Inc()
	}
}

func RecordLoadLookupFailure() {
	loadLookupFailures.Inc()
}

// RecordCommit counts persisted and failed parts of one commit.
func RecordCommit(created, failed int) {
	partsCommittedCounter.Add(float64(created))
	partsFailedCounter.Add(float64(failed))
}

func RecordPublishFailure() {
	eventsPublishFailures.Inc()
}
