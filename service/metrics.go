package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters shared by the ingestion and query services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	documents   *prometheus.CounterVec
	persistence *prometheus.CounterVec
	queries     *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	searchFails *prometheus.CounterVec
}

// NewMetrics registers the service metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		documents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "documents_ingested_total",
			Help:      "Ingestion attempts by outcome.",
		}, []string{"outcome"}),
		persistence: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "child_records_failed_total",
			Help:      "Section and citation writes that failed after the document was stored.",
		}, []string{"kind"}),
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "queries_total",
			Help:      "Queries by operation and search type.",
		}, []string{"operation", "search_type"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "generation_fallbacks_total",
			Help:      "Generations replaced by the static fallback text.",
		}, []string{"operation"}),
		searchFails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "search_failures_total",
			Help:      "Searches that failed and were treated as empty.",
		}, []string{"operation"}),
	}
}

func (m *Metrics) documentOutcome(outcome string) {
	if m != nil {
		m.documents.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) childFailed(kind string) {
	if m != nil {
		m.persistence.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) query(operation, searchType string) {
	if m != nil {
		m.queries.WithLabelValues(operation, searchType).Inc()
	}
}

func (m *Metrics) fallback(operation string) {
	if m != nil {
		m.fallbacks.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) searchFailed(operation string) {
	if m != nil {
		m.searchFails.WithLabelValues(operation).Inc()
	}
}
