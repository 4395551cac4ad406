package council

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xiaot623/gogo/council/internal/adapter/llm"
	"github.com/xiaot623/gogo/council/internal/domain"
)

var (
	metricDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "council",
		Name:      "dispatches_total",
		Help:      "Number of council dispatches by execution mode.",
	}, []string{"mode"})
	metricQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "council",
		Name:      "queries_total",
		Help:      "Number of model queries by backend and outcome.",
	}, []string{"backend", "outcome"})
	metricQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "council",
		Name:      "query_duration_seconds",
		Help:      "Latency of individual model queries.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"backend"})
	metricDispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "council",
		Name:      "dispatch_duration_seconds",
		Help:      "Wall-clock time of whole council dispatches.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
	}, []string{"mode"})
)

func recordQuery(out domain.Outcome, elapsed time.Duration) {
	outcome := "success"
	if !out.Succeeded() {
		outcome = "failure"
		if kind := llm.KindOf(out.Err); kind != "" {
			outcome = string(kind)
		}
	}
	metricQueries.WithLabelValues(string(out.Backend), outcome).Inc()
	metricQueryDuration.WithLabelValues(string(out.Backend)).Observe(elapsed.Seconds())
}

func recordDispatch(mode domain.ExecutionMode, elapsed time.Duration) {
	metricDispatches.WithLabelValues(string(mode)).Inc()
	metricDispatchDuration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}
