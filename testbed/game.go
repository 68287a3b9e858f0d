package testbed

import (
	"github.com/spaghettifunk/anywindow/engine"
	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

// TestGame clears the window to the configured color every frame. Escape
// quits, and a reloaded config updates the title and clear color.
type TestGame struct {
	window  platform.Window
	poster  platform.EventPoster
	targets renderer.WindowTargets

	clearColor [4]float32
	clearDepth float32
	elapsed    float64
	frames     uint64
}

// NewFactory returns the engine.ApplicationFactory for the testbed. Quit
// requests are posted through poster.
func NewFactory(cfg *platform.WindowConfig, poster platform.EventPoster) engine.ApplicationFactory {
	return func(factory renderer.Factory, window platform.Window, targets renderer.WindowTargets) (engine.Application, error) {
		rgba, err := cfg.ClearColorRGBA()
		if err != nil {
			return nil, err
		}
		core.LogInfo("testbed running on %s: %.0fx%.0f, aspect %.3f", factory.Name(), targets.Size.Width, targets.Size.Height, targets.AspectRatio())
		return &TestGame{
			window:     window,
			poster:     poster,
			targets:    targets,
			clearColor: rgba,
			clearDepth: 1.0,
		}, nil
	}
}

func (g *TestGame) Update(deltaTime float64) {
	g.elapsed += deltaTime
	g.frames++
}

func (g *TestGame) Render(factory renderer.Factory, encoder *renderer.Encoder) {
	encoder.ClearColor(g.targets.Color, g.clearColor)
	encoder.ClearDepth(g.targets.Depth, g.clearDepth)
}

func (g *TestGame) OnEvent(event core.EventContext) {
	switch event.Type {
	case core.EVENT_CODE_KEY_PRESSED:
		ke, ok := event.Data.(*core.KeyEvent)
		if !ok {
			core.LogError("wrong event associated with the event type `%s`", event.Type)
			return
		}
		if ke.KeyCode == core.KEY_ESCAPE {
			g.poster.Post(core.NewCloseRequestedEvent())
			return
		}
		if !ke.Repeat {
			core.LogDebug("'%c' key pressed in window.", rune(ke.KeyCode))
		}
	case core.EVENT_CODE_FOCUSED:
		if we, ok := event.Data.(*core.WindowEvent); ok {
			core.LogDebug("window focused: %t", we.Focused)
		}
	case core.EVENT_CODE_CONFIG_RELOADED:
		re, ok := event.Data.(*platform.ConfigReloadedEvent)
		if !ok {
			core.LogError("wrong event associated with the event type `%s`", event.Type)
			return
		}
		g.applyConfig(re.Config)
	}
}

func (g *TestGame) OnSwapchainResized(factory renderer.Factory, targets renderer.WindowTargets) {
	g.targets = targets
	physical := targets.PhysicalSize()
	core.LogDebug("testbed targets now %.0fx%.0f pixels", physical.Width, physical.Height)
}

func (g *TestGame) OnSwapchainResizeFailed(err error) {
	core.LogWarn("testbed keeps %.0fx%.0f targets: %s", g.targets.Size.Width, g.targets.Size.Height, err)
}

func (g *TestGame) applyConfig(cfg *platform.WindowConfig) {
	rgba, err := cfg.ClearColorRGBA()
	if err != nil {
		core.LogWarn("ignoring reloaded clear color: %s", err)
	} else {
		g.clearColor = rgba
	}
	g.window.SetTitle(cfg.Title)
	if level, err := cfg.Level(); err == nil {
		core.SetLogLevel(level)
	}
	core.LogInfo("applied reloaded config from %s", cfg.Path())
}
