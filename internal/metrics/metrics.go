// Package metrics exposes Prometheus collectors for assessments, team
// analysis and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hugo"

// Metrics owns its registry so several instances (tests, CLI runs) never
// collide on registration. Every method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	assessments   *prometheus.CounterVec
	lowConfidence *prometheus.CounterVec
	teamAnalyses  *prometheus.CounterVec
	teamSize      prometheus.Histogram
	sessionSteps  *prometheus.CounterVec
	reportCache   *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	lexiconReload *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "completed_total",
			Help:      "Completed assessments by modality and final type.",
		}, []string{"modality", "final_type"}),
		lowConfidence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assessment",
			Name:      "low_confidence_total",
			Help:      "Completed assessments flagged as low confidence.",
		}, []string{"modality"}),
		teamAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "analyses_total",
			Help:      "Team analyses by synergy label.",
		}, []string{"label"}),
		teamSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "members",
			Help:      "Roster size of analyzed teams.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 10, 12, 16},
		}),
		sessionSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "steps_total",
			Help:      "Chat session inputs by the state they were received in and outcome.",
		}, []string{"state", "outcome"}),
		reportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "report_cache_total",
			Help:      "Team report cache lookups by result.",
		}, []string{"result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		lexiconReload: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lexicon",
			Name:      "reloads_total",
			Help:      "Question bank reloads by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.assessments,
		m.lowConfidence,
		m.teamAnalyses,
		m.teamSize,
		m.sessionSteps,
		m.reportCache,
		m.httpDuration,
		m.lexiconReload,
	)
	return m
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) AssessmentCompleted(modality, finalType string, lowConfidence bool) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(modality, finalType).Inc()
	if lowConfidence {
		m.lowConfidence.WithLabelValues(modality).Inc()
	}
}

func (m *Metrics) TeamAnalyzed(label string, members int) {
	if m == nil {
		return
	}
	m.teamAnalyses.WithLabelValues(label).Inc()
	m.teamSize.Observe(float64(members))
}

// SessionStep records one input; outcome is "ok", "reprompt" or "error".
func (m *Metrics) SessionStep(state, outcome string) {
	if m == nil {
		return
	}
	m.sessionSteps.WithLabelValues(state, outcome).Inc()
}

func (m *Metrics) ReportCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.reportCache.WithLabelValues(result).Inc()
}

func (m *Metrics) LexiconReloaded(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.lexiconReload.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
