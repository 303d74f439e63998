package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "searchdemo"

// Search service and pipeline metrics.
var (
	ServiceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_requests_total",
			Help:      "Total number of calls to the search service",
		},
		[]string{"driver", "op", "status"},
	)

	ServiceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "service_request_duration_seconds",
			Help:      "Search service call duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"driver", "op"},
	)

	ServiceRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_retries_total",
			Help:      "Retried search service calls",
		},
		[]string{"op"},
	)

	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_documents_total",
			Help:      "Documents processed by the ingestor",
		},
		[]string{"result"}, // "accepted" / "rejected"
	)

	IndexRecreationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_recreations_total",
			Help:      "Destructive index recreations",
		},
	)

	AnswerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_requests_total",
			Help:      "Chat completion requests for grounded answers",
		},
		[]string{"provider", "status"},
	)

	AnswerTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_tokens_total",
			Help:      "Tokens consumed by chat completions",
		},
		[]string{"provider", "type"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Must be called once from the composition root.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			ServiceRequestsTotal,
			ServiceRequestDuration,
			ServiceRetriesTotal,
			IngestDocumentsTotal,
			IndexRecreationsTotal,
			AnswerRequestsTotal,
			AnswerTokensTotal,
		)
	})
}
