package web

import (
	"net/http"
	"strconv"

	"github.com/nasermirzaei89/skintalk/viewstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "skintalk"

type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

func newMetrics(sessions *viewstate.Registry) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "board_mutations_total",
			Help:      "Successful board mutations by operation.",
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.mutations,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions",
			Help:      "Visitor sessions held in memory.",
		}, func() float64 { return float64(sessions.Len()) }),
		collectors.NewGoCollector(),
	)

	return m
}

func (m *metrics) mutated(operation string) {
	m.mutations.WithLabelValues(operation).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// middleware must wrap the mux directly: the mux sets r.Pattern on the request it is given.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		m.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
