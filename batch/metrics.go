package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

const (
	outcomeExtracted = "extracted"
	outcomeCached    = "cached"
	outcomeFailed    = "failed"
)

var (
	documentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawlref_batch_documents_total",
			Help: "Documents processed by batch runners, by outcome",
		},
		[]string{"outcome"},
	)

	cacheBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawlref_cache_breaker_state",
			Help: "Result cache circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

func recordOutcome(outcome string) {
	documentsTotal.WithLabelValues(outcome).Inc()
}

func recordBreakerState(state gobreaker.State) {
	var v float64
	switch state {
	case gobreaker.StateClosed:
		v = 0
	case gobreaker.StateHalfOpen:
		v = 1
	case gobreaker.StateOpen:
		v = 2
	}
	cacheBreakerState.Set(v)
}
