package observability

import "github.com/prometheus/client_golang/prometheus"

// Chat pipeline and publish gate counters. HTTP traffic is instrumented
// separately by the middleware package.
var (
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_cache_lookups_total",
			Help: "Answer cache lookups by result (hit|miss|error).",
		},
		[]string{"result"},
	)

	AdmissionRejects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_admission_rejected_total",
			Help: "Chat requests rejected by the sliding-window admission controller.",
		},
	)

	ProviderAnswers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_provider_answers_total",
			Help: "Provider calls by provider and outcome (ok|degraded).",
		},
		[]string{"provider", "outcome"},
	)

	PublishOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questions_publish_total",
			Help: "Publish gate outcomes (created|duplicate|invalid).",
		},
		[]string{"result"},
	)

	SessionsPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_sessions_pruned_total",
			Help: "Expired chat sessions deleted by the sweeper.",
		},
	)
)

func init() {
	prometheus.MustRegister(CacheLookups, AdmissionRejects, ProviderAnswers, PublishOutcomes, SessionsPruned)
}
