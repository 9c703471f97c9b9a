// Package metrics exports Prometheus counters for sessions served by the
// SSH host.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/companion-arcade/internal/core"
)

// Recorder holds the session metrics on its own registry. A nil Recorder
// records nothing, so callers never need to check.
type Recorder struct {
	reg       *prometheus.Registry
	started   *prometheus.CounterVec
	completed *prometheus.CounterVec
	accuracy  *prometheus.HistogramVec
	active    prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_sessions_started_total",
			Help: "Sessions started, by game.",
		}, []string{LabelGame}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_sessions_completed_total",
			Help: "Sessions that produced a result, by game and result tier.",
		}, []string{LabelGame, LabelTier}),
		accuracy: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arcade_session_accuracy",
			Help:    "Final accuracy (0-100) of completed sessions.",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}, []string{LabelGame}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arcade_sessions_active",
			Help: "Sessions currently open.",
		}),
	}
	r.reg.MustRegister(r.started, r.completed, r.accuracy, r.active)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// SessionStarted counts a new session and marks it active.
func (r *Recorder) SessionStarted(game string) {
	if r == nil {
		return
	}
	r.started.WithLabelValues(game).Inc()
	r.active.Inc()
}

// SessionCompleted records a session's single result.
func (r *Recorder) SessionCompleted(game string, res core.MiniGameResult) {
	if r == nil {
		return
	}
	r.completed.WithLabelValues(game, string(res.Result)).Inc()
	r.accuracy.WithLabelValues(game).Observe(res.Accuracy)
}

// SessionClosed marks a session inactive, with or without a result.
func (r *Recorder) SessionClosed() {
	if r == nil {
		return
	}
	r.active.Dec()
}
