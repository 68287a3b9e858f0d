package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

// scriptedEvents replays one batch of events per PollEvents call and asks to
// close once the script runs out.
type scriptedEvents struct {
	frames [][]core.EventContext
	polls  int
}

func (s *scriptedEvents) PollEvents(handler func(core.EventContext)) {
	if s.polls < len(s.frames) {
		for _, ev := range s.frames[s.polls] {
			handler(ev)
		}
	} else {
		handler(core.NewCloseRequestedEvent())
	}
	s.polls++
}

type fakeWindow struct {
	size  core.LogicalSize
	scale float64
	title string
}

func (w *fakeWindow) InnerSize() core.LogicalSize { return w.size }
func (w *fakeWindow) ScaleFactor() float64        { return w.scale }
func (w *fakeWindow) SetTitle(title string)       { w.title = title }

type fakeTarget struct {
	size core.PhysicalSize
}

func (t fakeTarget) Size() core.PhysicalSize { return t.size }

type fakeFactory struct{}

func (fakeFactory) Name() string { return "fake" }

type fakeDevice struct {
	backend *fakeBackend
}

func (d *fakeDevice) Cleanup() { d.backend.record("cleanup") }

type resizeCall struct {
	size  core.LogicalSize
	scale float64
}

type fakeBackend struct {
	window    *fakeWindow
	initErr   error
	resizeErr error

	calls   []string
	resizes []resizeCall
	flushed []int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{window: &fakeWindow{size: core.NewLogicalSize(800, 600), scale: 1}}
}

func (b *fakeBackend) record(call string) { b.calls = append(b.calls, call) }

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Init(cfg *platform.WindowConfig, events platform.EventSource) (*renderer.BackendInit, error) {
	if b.initErr != nil {
		return nil, b.initErr
	}
	target := fakeTarget{size: b.window.size.ToPhysical(b.window.scale)}
	return &renderer.BackendInit{
		Surface: b.window,
		Device:  &fakeDevice{backend: b},
		Factory: fakeFactory{},
		Color:   target,
		Depth:   target,
	}, nil
}

func (b *fakeBackend) CreateEncoder(factory renderer.Factory) *renderer.Encoder {
	return renderer.NewEncoder(factory)
}

func (b *fakeBackend) Flush(encoder *renderer.Encoder, device renderer.Device) {
	b.record("flush")
	b.flushed = append(b.flushed, encoder.Len())
	encoder.Reset()
}

func (b *fakeBackend) UnderlyingWindow(surface renderer.Surface) platform.Window {
	return surface.(*fakeWindow)
}

func (b *fakeBackend) SwapBuffers(surface renderer.Surface) { b.record("present") }

func (b *fakeBackend) ResizeSwapchain(surface renderer.Surface, factory renderer.Factory, device renderer.Device, size core.LogicalSize, scaleFactor float64) (*renderer.WindowTargets, error) {
	b.record("resize")
	b.resizes = append(b.resizes, resizeCall{size: size, scale: scaleFactor})
	if b.resizeErr != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSwapchainResize, b.resizeErr)
	}
	target := fakeTarget{size: size.ToPhysical(scaleFactor)}
	return renderer.NewWindowTargets(target, target, size, scaleFactor), nil
}

// basicApp implements only Application.
type basicApp struct {
	backend *fakeBackend
	targets renderer.WindowTargets
	deltas  []float64
	events  []core.EventContext
}

func (a *basicApp) Update(deltaSeconds float64) {
	a.backend.record("update")
	a.deltas = append(a.deltas, deltaSeconds)
}

func (a *basicApp) Render(factory renderer.Factory, encoder *renderer.Encoder) {
	a.backend.record("render")
	encoder.ClearColor(a.targets.Color, [4]float32{0, 0, 0, 1})
}

func (a *basicApp) OnEvent(event core.EventContext) {
	a.events = append(a.events, event)
}

// listeningApp also wants resize results.
type listeningApp struct {
	basicApp
	resized  []renderer.WindowTargets
	failures []error
}

func (a *listeningApp) OnSwapchainResized(factory renderer.Factory, targets renderer.WindowTargets) {
	a.targets = targets
	a.resized = append(a.resized, targets)
}

func (a *listeningApp) OnSwapchainResizeFailed(err error) {
	a.failures = append(a.failures, err)
}

func runScript(t *testing.T, frames ...[]core.EventContext) (*Engine, *fakeBackend, *listeningApp) {
	t.Helper()
	backend := newFakeBackend()
	var app *listeningApp
	factory := func(f renderer.Factory, w platform.Window, targets renderer.WindowTargets) (Application, error) {
		app = &listeningApp{basicApp: basicApp{backend: backend, targets: targets}}
		return app, nil
	}
	e := New(backend, &scriptedEvents{frames: frames}, nil, factory)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())
	return e, backend, app
}

func scaleEvents(scales ...float64) [][]core.EventContext {
	frames := make([][]core.EventContext, len(scales))
	for i, s := range scales {
		frames[i] = []core.EventContext{core.NewScaleFactorChangedEvent(s)}
	}
	return frames
}

func TestEngineFrameOrder(t *testing.T) {
	e, backend, app := runScript(t, nil)

	frame := []string{"update", "render", "flush", "present", "cleanup"}
	// the closing frame is still rendered
	assert.Equal(t, append(append([]string{}, frame...), frame...), backend.calls)
	assert.Equal(t, []int{1, 1}, backend.flushed)
	assert.Len(t, app.deltas, 2)
	assert.Equal(t, EngineStageStopped, e.Stage())
}

func TestEngineResizesOnceForRepeatedScale(t *testing.T) {
	e, backend, app := runScript(t, scaleEvents(1, 1, 2, 2)...)

	require.Len(t, backend.resizes, 1)
	assert.Equal(t, 2.0, backend.resizes[0].scale)
	assert.Equal(t, core.NewLogicalSize(800, 600), backend.resizes[0].size)

	require.Len(t, app.resized, 1)
	assert.Equal(t, 2.0, app.resized[0].ScaleFactor)
	assert.Equal(t, core.PhysicalSize{Width: 1600, Height: 1200}, app.resized[0].PhysicalSize())
	assert.Empty(t, app.events, "scale changes are not forwarded")

	size, scale := e.Size()
	assert.Equal(t, core.NewLogicalSize(800, 600), size)
	assert.Equal(t, 2.0, scale)
}

func TestEngineScaleComparisonIsExact(t *testing.T) {
	_, backend, _ := runScript(t, scaleEvents(1.0000000001)...)
	assert.Len(t, backend.resizes, 1)
}

func TestEngineResizeCombinesSizeAndScale(t *testing.T) {
	_, backend, app := runScript(t, []core.EventContext{
		core.NewResizedEvent(core.NewLogicalSize(1024, 768)),
		core.NewResizedEvent(core.NewLogicalSize(1280, 720)),
		core.NewScaleFactorChangedEvent(1.5),
	})

	require.Len(t, backend.resizes, 1)
	assert.Equal(t, resizeCall{size: core.NewLogicalSize(1280, 720), scale: 1.5}, backend.resizes[0])
	assert.Equal(t, []string{"resize", "update", "render", "flush", "present", "cleanup"}, backend.calls[:6])
	require.Len(t, app.resized, 1)
	assert.Equal(t, core.NewLogicalSize(1280, 720), app.targets.Size)
}

func TestEngineResizeFailureKeepsTargets(t *testing.T) {
	backend := newFakeBackend()
	backend.resizeErr = core.ErrStaleTarget
	var app *listeningApp
	factory := func(f renderer.Factory, w platform.Window, targets renderer.WindowTargets) (Application, error) {
		app = &listeningApp{basicApp: basicApp{backend: backend, targets: targets}}
		return app, nil
	}
	resized := []core.EventContext{core.NewResizedEvent(core.NewLogicalSize(1024, 768))}
	events := &scriptedEvents{frames: [][]core.EventContext{resized, nil, resized}}

	e := New(backend, events, nil, factory)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	// no retry without a new observation
	assert.Len(t, backend.resizes, 2)
	assert.Empty(t, app.resized)
	require.Len(t, app.failures, 2)
	assert.ErrorIs(t, app.failures[0], core.ErrSwapchainResize)
	assert.ErrorIs(t, app.failures[0], core.ErrStaleTarget)

	size, scale := e.Size()
	assert.Equal(t, core.NewLogicalSize(800, 600), size)
	assert.Equal(t, 1.0, scale)
	assert.Equal(t, core.NewLogicalSize(800, 600), app.targets.Size)
	assert.Len(t, app.deltas, 4, "failed resizes do not skip frames")
}

func TestEngineCloseDropsLaterEvents(t *testing.T) {
	key := func(k core.KeyCode) core.EventContext {
		return core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: k}}
	}
	_, backend, app := runScript(t, []core.EventContext{
		key(core.KEY_A),
		core.NewCloseRequestedEvent(),
		key(core.KEY_Z),
		core.NewResizedEvent(core.NewLogicalSize(10, 10)),
	})

	require.Len(t, app.events, 1)
	assert.Equal(t, core.KEY_A, app.events[0].Data.(*core.KeyEvent).KeyCode)
	assert.Empty(t, backend.resizes)
	assert.Len(t, app.deltas, 1, "the closing frame still runs")
	assert.Equal(t, []string{"update", "render", "flush", "present", "cleanup"}, backend.calls)
}

func TestEngineForwardsOtherEvents(t *testing.T) {
	focus := core.EventContext{Type: core.EVENT_CODE_FOCUSED, Data: &core.WindowEvent{Focused: true}}
	reload := core.EventContext{Type: core.EVENT_CODE_CONFIG_RELOADED, Data: &platform.ConfigReloadedEvent{Config: platform.NewWindowConfig()}}
	_, _, app := runScript(t, []core.EventContext{focus, reload})

	require.Len(t, app.events, 2)
	assert.Equal(t, core.EVENT_CODE_FOCUSED, app.events[0].Type)
	assert.Equal(t, core.EVENT_CODE_CONFIG_RELOADED, app.events[1].Type)
}

func TestEngineDeltasAreNonNegative(t *testing.T) {
	_, _, app := runScript(t, nil, nil, nil)
	require.Len(t, app.deltas, 4)
	for i, d := range app.deltas {
		assert.GreaterOrEqual(t, d, 0.0, "frame %d", i)
	}
}

func TestEngineWithoutResizeListener(t *testing.T) {
	backend := newFakeBackend()
	var app *basicApp
	factory := func(f renderer.Factory, w platform.Window, targets renderer.WindowTargets) (Application, error) {
		app = &basicApp{backend: backend, targets: targets}
		return app, nil
	}
	events := &scriptedEvents{frames: scaleEvents(2)}
	e := New(backend, events, nil, factory)
	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run())

	assert.Len(t, backend.resizes, 1)
	assert.Equal(t, 1.0, app.targets.ScaleFactor, "the application keeps its stale targets")
}

func TestEngineInitialTargets(t *testing.T) {
	backend := newFakeBackend()
	backend.window.scale = 2
	var got renderer.WindowTargets
	var gotWindow platform.Window
	factory := func(f renderer.Factory, w platform.Window, targets renderer.WindowTargets) (Application, error) {
		got, gotWindow = targets, w
		return &basicApp{backend: backend, targets: targets}, nil
	}
	e := New(backend, &scriptedEvents{}, platform.NewWindowConfig(), factory)
	require.NoError(t, e.Initialize())

	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, core.NewLogicalSize(800, 600), got.Size)
	assert.Equal(t, 2.0, got.ScaleFactor)
	assert.Equal(t, core.PhysicalSize{Width: 1600, Height: 1200}, got.Color.Size())
	assert.Same(t, backend.window, gotWindow)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", e.RunID().String())
}

func TestEngineInitFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.initErr = fmt.Errorf("%w: no adapter", core.ErrDeviceCreation)
	called := false
	factory := func(f renderer.Factory, w platform.Window, targets renderer.WindowTargets) (Application, error) {
		called = true
		return nil, nil
	}
	e := New(backend, &scriptedEvents{}, nil, factory)

	assert.ErrorIs(t, e.Initialize(), core.ErrDeviceCreation)
	assert.False(t, called)
	assert.ErrorIs(t, e.Run(), ErrNotInitialized)
	assert.Error(t, e.Initialize(), "initialize runs once")
}

func TestEngineApplicationFactoryFailure(t *testing.T) {
	backend := newFakeBackend()
	boom := errors.New("boom")
	factory := func(f renderer.Factory, w platform.Window, targets renderer.WindowTargets) (Application, error) {
		return nil, boom
	}
	e := New(backend, &scriptedEvents{}, nil, factory)
	assert.ErrorIs(t, e.Initialize(), boom)
}

func TestEngineRequestClose(t *testing.T) {
	backend := newFakeBackend()
	factory := func(f renderer.Factory, w platform.Window, targets renderer.WindowTargets) (Application, error) {
		return &basicApp{backend: backend, targets: targets}, nil
	}
	events := &scriptedEvents{frames: make([][]core.EventContext, 100)}
	e := New(backend, events, nil, factory)
	require.NoError(t, e.Initialize())

	e.RequestClose()
	require.NoError(t, e.Run())
	assert.Empty(t, backend.calls)
	assert.Equal(t, EngineStageStopped, e.Stage())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "running", EngineStageRunning.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}
