package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/stagehand/internal/application/state"
)

func newMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	return m, reg
}

func TestMetrics_ObserveTransition(t *testing.T) {
	m, _ := newMetrics(t)

	m.ObserveTransition(state.StateStart, state.StateCutscene, 20*time.Millisecond, nil)
	m.ObserveTransition(state.StateCutscene, state.StateGame, time.Second, errors.New("boom"))
	m.ObserveTransition(state.StateCutscene, state.StateGame, time.Second, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("Start", "Cutscene", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("Cutscene", "Game", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("Cutscene", "Game", "ok")))
	// Only successful transitions feed the duration histogram.
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestMetrics_RejectedAndLive(t *testing.T) {
	m, _ := newMetrics(t)

	m.IncRejected()
	m.IncRejected()
	m.SetLiveScenes(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejected))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.scenesLive))
}

func TestMetrics_ObserveAssetPrepare(t *testing.T) {
	m, _ := newMetrics(t)

	m.ObserveAssetPrepare(time.Millisecond, nil)
	m.ObserveAssetPrepare(time.Millisecond, errors.New("missing"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.assetPrepare))
}

func TestMetrics_RegisteredNames(t *testing.T) {
	m, reg := newMetrics(t)
	m.ObserveTransition(state.StateStart, state.StateCutscene, time.Millisecond, nil)
	m.ObserveAssetPrepare(time.Millisecond, nil)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"stagehand_transitions_total",
		"stagehand_transition_duration_seconds",
		"stagehand_asset_prepare_duration_seconds",
		"stagehand_scenes_live",
		"stagehand_transitions_rejected_total",
	}, names)
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition(state.StateStart, state.StateCutscene, time.Second, nil)
		m.IncRejected()
		m.ObserveAssetPrepare(time.Second, nil)
		m.SetLiveScenes(1)
	})
}
