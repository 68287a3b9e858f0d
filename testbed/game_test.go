package testbed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

type stubWindow struct {
	title string
}

func (w *stubWindow) InnerSize() core.LogicalSize { return core.NewLogicalSize(640, 480) }
func (w *stubWindow) ScaleFactor() float64        { return 1 }
func (w *stubWindow) SetTitle(title string)       { w.title = title }

type stubTarget struct{}

func (stubTarget) Size() core.PhysicalSize { return core.PhysicalSize{Width: 640, Height: 480} }

type stubFactory struct{}

func (stubFactory) Name() string { return "stub" }

type recordingPoster struct {
	events []core.EventContext
}

func (p *recordingPoster) Post(event core.EventContext) {
	p.events = append(p.events, event)
}

func newTestGame(t *testing.T, cfg *platform.WindowConfig) (*TestGame, *stubWindow, *recordingPoster) {
	t.Helper()
	window := &stubWindow{}
	poster := &recordingPoster{}
	targets := renderer.NewWindowTargets(stubTarget{}, stubTarget{}, window.InnerSize(), 1)
	app, err := NewFactory(cfg, poster)(stubFactory{}, window, *targets)
	require.NoError(t, err)
	return app.(*TestGame), window, poster
}

func TestTestGameClearsToConfiguredColor(t *testing.T) {
	g, _, _ := newTestGame(t, platform.NewWindowConfig().WithClearColor("white"))

	enc := renderer.NewEncoder(stubFactory{})
	g.Render(stubFactory{}, enc)

	rgba, hasColor, depth, hasDepth := enc.LastClears()
	require.True(t, hasColor)
	require.True(t, hasDepth)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, rgba)
	assert.Equal(t, float32(1), depth)
}

func TestTestGameEscapeQuits(t *testing.T) {
	g, _, poster := newTestGame(t, platform.NewWindowConfig())

	g.OnEvent(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_A}})
	assert.Empty(t, poster.events)

	g.OnEvent(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_ESCAPE}})
	require.Len(t, poster.events, 1)
	assert.Equal(t, core.EVENT_CODE_APPLICATION_QUIT, poster.events[0].Type)
}

func TestTestGameAppliesReloadedConfig(t *testing.T) {
	g, window, _ := newTestGame(t, platform.NewWindowConfig())

	cfg := platform.NewWindowConfig().WithTitle("reloaded").WithClearColor("blue")
	g.OnEvent(core.EventContext{Type: core.EVENT_CODE_CONFIG_RELOADED, Data: &platform.ConfigReloadedEvent{Config: cfg}})

	assert.Equal(t, "reloaded", window.title)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, g.clearColor)

	// a bad color keeps the previous one
	bad := platform.NewWindowConfig().WithClearColor("plaid")
	g.OnEvent(core.EventContext{Type: core.EVENT_CODE_CONFIG_RELOADED, Data: &platform.ConfigReloadedEvent{Config: bad}})
	assert.Equal(t, [4]float32{0, 0, 1, 1}, g.clearColor)
}

func TestTestGameTracksTargets(t *testing.T) {
	g, _, _ := newTestGame(t, platform.NewWindowConfig())

	next := renderer.NewWindowTargets(stubTarget{}, stubTarget{}, core.NewLogicalSize(320, 240), 2)
	g.OnSwapchainResized(stubFactory{}, *next)
	assert.Equal(t, core.NewLogicalSize(320, 240), g.targets.Size)

	g.OnSwapchainResizeFailed(core.ErrZeroSize)
	assert.Equal(t, core.NewLogicalSize(320, 240), g.targets.Size)

	g.Update(0.5)
	g.Update(0.25)
	assert.Equal(t, 0.75, g.elapsed)
	assert.Equal(t, uint64(2), g.frames)
}

func TestFactoryRejectsUnknownColor(t *testing.T) {
	cfg := platform.NewWindowConfig().WithClearColor("plaid")
	_, err := NewFactory(cfg, &recordingPoster{})(stubFactory{}, &stubWindow{}, renderer.WindowTargets{})
	assert.Error(t, err)
}
