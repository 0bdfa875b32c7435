package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestDomainMetrics_Registered(t *testing.T) {
	CacheLookups.WithLabelValues("hit").Inc()
	PublishOutcomes.WithLabelValues("created").Inc()
	ProviderAnswers.WithLabelValues("mock:ollama", "degraded").Inc()
	AdmissionRejects.Inc()
	SessionsPruned.Add(2)

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	want := map[string]bool{
		"chat_cache_lookups_total":      false,
		"chat_admission_rejected_total": false,
		"chat_provider_answers_total":   false,
		"questions_publish_total":       false,
		"chat_sessions_pruned_total":    false,
	}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("metric %s not registered", name)
		}
	}
}
