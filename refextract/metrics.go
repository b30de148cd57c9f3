package refextract

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jongio/crawlref/textenc"
	"github.com/jongio/crawlref/urlutil"
)

// Document kinds used as metric labels.
const (
	KindMarkup = "markup"
	KindSWF    = "swf"
)

var (
	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawlref_extraction_duration_seconds",
			Help:    "Duration of reference extraction per document in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"kind"},
	)

	documentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawlref_documents_total",
			Help: "Total number of documents processed",
		},
		[]string{"kind"},
	)

	referencesFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawlref_references_found_total",
			Help: "Total number of unique references found, by pass",
		},
		[]string{"pass"},
	)

	candidatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawlref_candidates_dropped_total",
			Help: "Total number of candidates discarded, by pass and reason",
		},
		[]string{"pass", "reason"},
	)
)

func recordDocument(kind string, elapsed time.Duration) {
	documentsTotal.With(prometheus.Labels{"kind": kind}).Inc()
	extractionDuration.With(prometheus.Labels{"kind": kind}).Observe(elapsed.Seconds())
}

func recordFound(pass string, n int) {
	if n > 0 {
		referencesFound.With(prometheus.Labels{"pass": pass}).Add(float64(n))
	}
}

func recordDropped(pass string, err error) {
	candidatesDropped.With(prometheus.Labels{
		"pass":   pass,
		"reason": dropReason(err),
	}).Inc()
}

// dropReason categorizes candidate errors for metric labels.
func dropReason(err error) string {
	switch {
	case errors.Is(err, errFiltered):
		return "filtered"
	case errors.Is(err, textenc.ErrUnencodable):
		return "unencodable"
	case errors.Is(err, urlutil.ErrInvalidURL):
		return "invalid_url"
	default:
		return "other"
	}
}

// CreateMetricsServer creates a configured HTTP server for Prometheus metrics.
func CreateMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
