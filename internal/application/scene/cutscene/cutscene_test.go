package cutscene

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/stagehand/internal/application/assets"
	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/orchestrator/orchestratortest"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/engine"
)

type importerFunc func(ctx context.Context, path string) (*engine.MeshData, error)

func (f importerFunc) LoadModel(ctx context.Context, path string) (*engine.MeshData, error) {
	return f(ctx, path)
}

func newBuilder(t *testing.T, autoAdvance time.Duration) *Builder {
	t.Helper()
	logger := log.New(io.Discard)
	e, err := engine.New(1280, 720, logger)
	require.NoError(t, err)

	p := assets.NewPreparer(assets.PreparerConfig{
		Importer: importerFunc(func(ctx context.Context, path string) (*engine.MeshData, error) {
			return engine.BoxData(path, 1), nil
		}),
		PlayerModel: "player.gltf",
		Logger:      logger,
	})
	return &Builder{
		Engine:      e,
		Slot:        assets.NewSlot(context.Background(), p),
		AutoAdvance: autoAdvance,
		Logger:      logger,
	}
}

func TestBuild_StartsPreparationAndPrebuildsGame(t *testing.T) {
	b := newBuilder(t, 0)
	host := &orchestratortest.Host{}

	sc, err := b.Build(context.Background(), host)
	require.NoError(t, err)
	require.NoError(t, sc.WhenReady(context.Background()))

	assert.True(t, b.Slot.Pending())
	assert.Equal(t, []state.ApplicationState{state.StateGame}, host.Prebuilt())

	s := sc.(*engine.Scene)
	assert.NotNil(t, s.ActiveCamera())
	assert.NotEmpty(t, s.Lights())
	assert.Len(t, s.Meshes(), boxCount)
}

func TestBuild_NextButtonDispatchesNext(t *testing.T) {
	b := newBuilder(t, 0)
	host := &orchestratortest.Host{}

	sc, err := b.Build(context.Background(), host)
	require.NoError(t, err)

	btn := sc.(*engine.Scene).GUI().Control(ButtonNext)
	require.NotNil(t, btn)
	assert.Equal(t, "NEXT", btn.Label)
	btn.Activate()

	assert.Equal(t, []state.Action{state.ActionNext}, host.Actions())
}

func TestBuild_BoxesOrbit(t *testing.T) {
	b := newBuilder(t, 0)
	sc, err := b.Build(context.Background(), &orchestratortest.Host{})
	require.NoError(t, err)
	s := sc.(*engine.Scene)

	box := s.Mesh("box0")
	before := box.Node.WorldPosition()
	s.Update(1, scene.Input{})
	after := box.Node.WorldPosition()

	assert.False(t, before.ApproxEqual(after))
	assert.InDelta(t, before.Len(), after.Len(), 1e-4, "boxes stay on the orbit")
}

func TestBuild_AutoAdvanceFiresOnce(t *testing.T) {
	b := newBuilder(t, time.Second)
	host := &orchestratortest.Host{}

	sc, err := b.Build(context.Background(), host)
	require.NoError(t, err)

	for i := 0; i < 59; i++ {
		sc.Update(1.0/60, scene.Input{})
	}
	assert.Empty(t, host.Actions())

	for i := 0; i < 120; i++ {
		sc.Update(1.0/60, scene.Input{})
	}
	assert.Equal(t, []state.Action{state.ActionNext}, host.Actions())
}

func TestBuild_AutoAdvanceRetriesWhileRejected(t *testing.T) {
	b := newBuilder(t, time.Millisecond)
	host := &orchestratortest.Host{Answers: []error{
		orchestrator.ErrTransitionRejected,
		orchestrator.ErrTransitionRejected,
	}}

	sc, err := b.Build(context.Background(), host)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		sc.Update(1.0/60, scene.Input{})
	}
	assert.Equal(t, []state.Action{state.ActionNext}, host.Actions())
}

func TestBuild_CancelledContextSkipsSideEffects(t *testing.T) {
	b := newBuilder(t, 0)
	host := &orchestratortest.Host{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, host)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, b.Slot.Pending())
	assert.Empty(t, host.Prebuilt())
}
