package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "merklevote"

// Metrics holds the node's Prometheus collectors on a private registry.
// It satisfies accumulator.Observer.
type Metrics struct {
	registry *prometheus.Registry

	admitOps   *prometheus.CounterVec
	rebuildDur prometheus.Summary
	leafCount  prometheus.Gauge
	proofOps   *prometheus.CounterVec
	verifyOps  *prometheus.CounterVec
	voteOps    *prometheus.CounterVec
	requestCtr *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		admitOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "admit_operations_total",
				Help:      "Incremented for each admit, labeled by whether the identifier was new.",
			},
			[]string{"admitted"},
		),
		rebuildDur: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Namespace: namespace,
				Name:      "rebuild_duration_seconds",
				Help:      "Summary of how long a tree rebuild takes to complete.",
			},
		),
		leafCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "leaf_count",
				Help:      "Number of leaves in the most recently built tree.",
			},
		),
		proofOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "proof_operations_total",
				Help:      "Incremented for each proof request, labeled by whether the identifier was a member.",
			},
			[]string{"found"},
		),
		verifyOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verify_operations_total",
				Help:      "Incremented for each verification, labeled by outcome.",
			},
			[]string{"valid"},
		),
		voteOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vote_operations_total",
				Help:      "Incremented for each vote submission, labeled by result.",
			},
			[]string{"result"},
		),
		requestCtr: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Incremented for each API request received.",
			},
			[]string{"path", "status"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.admitOps,
		m.rebuildDur,
		m.leafCount,
		m.proofOps,
		m.verifyOps,
		m.voteOps,
		m.requestCtr,
	)
	return m
}

func (m *Metrics) ObserveAdmit(admitted bool) {
	m.admitOps.WithLabelValues(strconv.FormatBool(admitted)).Inc()
}

func (m *Metrics) ObserveRebuild(leafCount int, seconds float64) {
	m.rebuildDur.Observe(seconds)
	m.leafCount.Set(float64(leafCount))
}

func (m *Metrics) ObserveProof(found bool) {
	m.proofOps.WithLabelValues(strconv.FormatBool(found)).Inc()
}

func (m *Metrics) ObserveVerify(valid bool) {
	m.verifyOps.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

// ObserveVote counts a vote submission; result is "accepted" or an error class
func (m *Metrics) ObserveVote(result string) {
	m.voteOps.WithLabelValues(result).Inc()
}

// ObserveRequest counts an API request by path and status code
func (m *Metrics) ObserveRequest(path string, status int) {
	m.requestCtr.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
