// Package telemetry exposes transition and asset metrics to Prometheus.
// Every method is safe on a nil *Metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/younwookim/stagehand/internal/application/state"
)

const namespace = "stagehand"

// Metrics implements orchestrator.Metrics, assets.Observer and game.LiveGauge
type Metrics struct {
	transitions  *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	assetPrepare *prometheus.HistogramVec
	scenesLive   prometheus.Gauge
	rejected     prometheus.Counter
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Finished state transitions by outcome.",
		}, []string{"from", "to", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Time from action to the new scene taking control.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"to"}),
		assetPrepare: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "asset_prepare_duration_seconds",
			Help:      "Duration of game asset preparations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"result"}),
		scenesLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scenes_live",
			Help:      "Scenes created and not yet disposed.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_rejected_total",
			Help:      "Actions ignored because a transition was in flight.",
		}),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.duration, m.assetPrepare, m.scenesLive, m.rejected} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveTransition records a finished transition
func (m *Metrics) ObserveTransition(from, to state.ApplicationState, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from.String(), to.String(), result(err)).Inc()
	if err == nil {
		m.duration.WithLabelValues(to.String()).Observe(d.Seconds())
	}
}

// IncRejected counts an action dropped by the transition guard
func (m *Metrics) IncRejected() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

// ObserveAssetPrepare records a game asset preparation
func (m *Metrics) ObserveAssetPrepare(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.assetPrepare.WithLabelValues(result(err)).Observe(d.Seconds())
}

// SetLiveScenes sets the live scene gauge
func (m *Metrics) SetLiveScenes(n int) {
	if m == nil {
		return
	}
	m.scenesLive.Set(float64(n))
}
