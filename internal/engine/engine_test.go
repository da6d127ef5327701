package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/stagehand/internal/application/scene"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(1280, 720, log.New(io.Discard))
	require.NoError(t, err)
	return e
}

func TestNode_WorldPositionFollowsParent(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	child.SetParent(root)
	child.Position = mgl32.Vec3{0, 0, -5}

	root.Position = mgl32.Vec3{1, 2, 3}
	pos := child.WorldPosition()
	assert.InDelta(t, 1, pos.X(), 1e-5)
	assert.InDelta(t, 2, pos.Y(), 1e-5)
	assert.InDelta(t, -2, pos.Z(), 1e-5)

	// Rotating the parent half a turn around Y flips the child's offset.
	root.Rotation = mgl32.QuatRotate(mgl32.DegToRad(180), mgl32.Vec3{0, 1, 0})
	pos = child.WorldPosition()
	assert.InDelta(t, 8, pos.Z(), 1e-4)
}

func TestNode_SetParentMovesChild(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	c.SetParent(a)
	require.Len(t, a.Children(), 1)

	c.SetParent(b)
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{c}, b.Children())
	assert.Equal(t, b, c.Parent())
}

func TestMeshData_BuildEdgesDeduplicates(t *testing.T) {
	d := &MeshData{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		Indices:   []uint32{0, 1, 2, 2, 1, 3},
	}
	require.NoError(t, d.Validate())
	d.BuildEdges()

	// Two triangles sharing the 1-2 edge.
	assert.Len(t, d.Edges, 5)
}

func TestMeshData_ValidateRejectsBadIndices(t *testing.T) {
	d := &MeshData{
		Positions: []mgl32.Vec3{{0, 0, 0}},
		Indices:   []uint32{0, 0, 4},
	}
	assert.Error(t, d.Validate())
	assert.Error(t, (&MeshData{}).Validate())
}

func TestBoundingBoxData(t *testing.T) {
	src := SphereData("s", 2, 8)
	box := BoundingBoxData("b", src)

	lo, hi := box.Bounds()
	slo, shi := src.Bounds()
	assert.True(t, lo.ApproxEqualThreshold(slo, 1e-5))
	assert.True(t, hi.ApproxEqualThreshold(shi, 1e-5))
	assert.Len(t, box.Edges, 12)
}

func TestScene_WhenReadyWaitsForResources(t *testing.T) {
	e := newTestEngine(t)
	s := e.CreateScene("test")

	release := make(chan struct{})
	s.Enqueue("slow", func(ctx context.Context) error {
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- s.WhenReady(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WhenReady returned before the resource finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WhenReady did not resolve")
	}
}

func TestScene_WhenReadyReportsResourceError(t *testing.T) {
	e := newTestEngine(t)
	s := e.CreateScene("test")

	boom := errors.New("boom")
	s.Enqueue("bad", func(context.Context) error { return boom })
	s.Enqueue("good", func(context.Context) error { return nil })

	err := s.WhenReady(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestScene_CreateMeshQueuesUpload(t *testing.T) {
	e := newTestEngine(t)
	s := e.CreateScene("test")

	m := s.CreateMesh("bad", &MeshData{})
	require.NotNil(t, m)
	assert.Error(t, s.WhenReady(context.Background()), "empty mesh fails upload")
}

func TestScene_DisposeIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	s := e.CreateScene("test")
	require.Equal(t, 1, e.LiveScenes())

	calls := 0
	s.OnDispose(func() { calls++ })

	s.Dispose()
	s.Dispose()

	assert.True(t, s.Disposed())
	assert.False(t, s.ControlAttached())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, e.LiveScenes())
	assert.ErrorIs(t, s.WhenReady(context.Background()), ErrSceneDisposed)
}

func TestScene_UpdateRoutesInputOnlyWhenAttached(t *testing.T) {
	e := newTestEngine(t)
	s := e.CreateScene("test")
	ui := NewFullscreenUI(s, "UI")
	btn := NewSimpleButton("play", "PLAY")
	btn.VerticalAlignment = AlignBottom
	ui.AddControl(btn)

	activations := 0
	btn.OnActivated(func() { activations++ })

	var seen []scene.Input
	s.OnBeforeRender(func(dt float64, in scene.Input) { seen = append(seen, in) })

	r := btn.Rect(1280, 720, 1)
	click := scene.Input{CursorX: r.Min.X + 5, CursorY: r.Min.Y + 5, PointerPressed: true, MoveX: 1}

	s.DetachControl()
	s.Update(1.0/60, click)
	assert.Equal(t, 0, activations)
	assert.Equal(t, scene.Input{}, seen[0], "detached scenes see no input")

	s.AttachControl()
	s.Update(1.0/60, click)
	assert.Equal(t, 1, activations)
	assert.Equal(t, click, seen[1])

	miss := scene.Input{CursorX: 0, CursorY: 0, PointerPressed: true}
	s.Update(1.0/60, miss)
	assert.Equal(t, 1, activations)
}

func TestButton_RectAlignment(t *testing.T) {
	b := NewSimpleButton("b", "B")
	b.Top = -14
	b.VerticalAlignment = AlignBottom

	r := b.Rect(1000, 720, 1)
	assert.Equal(t, 400, r.Min.X)
	assert.Equal(t, 600, r.Max.X)
	assert.Equal(t, 720-40-14, r.Min.Y)
	assert.Equal(t, 40, r.Dy())

	b.VerticalAlignment = AlignCenter
	b.Top = 0
	r = b.Rect(1000, 720, 0.5)
	assert.Equal(t, 20, r.Dy())
	assert.Equal(t, 350, r.Min.Y)
}

func TestEngine_LoadingUI(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.LoadingUIVisible())

	e.DisplayLoadingUI()
	assert.True(t, e.LoadingUIVisible())

	e.HideLoadingUI()
	assert.False(t, e.LoadingUIVisible())
}

func TestCamera_ViewProjectionCentresTarget(t *testing.T) {
	e := newTestEngine(t)
	s := e.CreateScene("test")
	cam := s.CreateFreeCamera("cam", mgl32.Vec3{0, 0, -10})
	cam.SetTarget(mgl32.Vec3{})
	require.Equal(t, cam, s.ActiveCamera())

	x, y, ok := project(cam.ViewProjection(1), mgl32.Vec3{}, 200, 200)
	require.True(t, ok)
	assert.InDelta(t, 100, x, 1e-3)
	assert.InDelta(t, 100, y, 1e-3)

	_, _, ok = project(cam.ViewProjection(1), mgl32.Vec3{0, 0, -20}, 200, 200)
	assert.False(t, ok, "points behind the camera are culled")
}
