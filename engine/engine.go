package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
	"github.com/spaghettifunk/anywindow/engine/renderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine left the frame loop
	EngineStageStopped
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageStopped:
		return "stopped"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

var ErrNotInitialized = errors.New("engine is not initialized")

// Engine drives one application against one backend. Everything except
// RequestClose must be called from the goroutine that owns the event loop.
type Engine struct {
	runID        uuid.UUID
	currentStage Stage
	backend      renderer.Backend
	events       platform.EventSource
	config       *platform.WindowConfig
	factory      ApplicationFactory

	app     Application
	surface renderer.Surface
	device  renderer.Device
	gfx     renderer.Factory
	encoder *renderer.Encoder

	// last successfully applied pair
	size        core.LogicalSize
	scaleFactor float64
	// most recent values reported by the event source
	pendingSize        core.LogicalSize
	pendingScaleFactor float64

	closeRequested atomic.Bool
	clock          *core.Clock
	metrics        *core.FrameMetrics
	frameCount     uint64
}

func New(backend renderer.Backend, events platform.EventSource, cfg *platform.WindowConfig, factory ApplicationFactory) *Engine {
	if cfg == nil {
		cfg = platform.NewWindowConfig()
	}
	return &Engine{
		runID:        uuid.New(),
		currentStage: EngineStageUninitialized,
		backend:      backend,
		events:       events,
		config:       cfg,
		factory:      factory,
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
	}
}

// Initialize creates the window, the device and the application. Any error
// is fatal: the engine cannot be initialized twice.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already in stage %s", e.currentStage)
	}
	e.currentStage = EngineStageInitializing
	core.LogInfo("engine run %s starting with the %s backend", e.runID, e.backend.Name())

	bi, err := e.backend.Init(e.config, e.events)
	if err != nil {
		return err
	}
	e.surface = bi.Surface
	e.device = bi.Device
	e.gfx = bi.Factory

	window := e.backend.UnderlyingWindow(e.surface)
	e.size = window.InnerSize()
	e.scaleFactor = window.ScaleFactor()
	e.pendingSize = e.size
	e.pendingScaleFactor = e.scaleFactor

	targets := renderer.NewWindowTargets(bi.Color, bi.Depth, e.size, e.scaleFactor)
	app, err := e.factory(e.gfx, window, *targets)
	if err != nil {
		return fmt.Errorf("failed to create the application: %w", err)
	}
	e.app = app
	e.encoder = e.backend.CreateEncoder(e.gfx)

	e.clock.Start()
	e.currentStage = EngineStageInitialized
	core.LogDebug("engine initialized: %.0fx%.0f at scale %.2f", e.size.Width, e.size.Height, e.scaleFactor)
	return nil
}

// Run drives frames until a close request is observed at the top of an
// iteration.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return ErrNotInitialized
	}
	e.currentStage = EngineStageRunning

	for !e.closeRequested.Load() {
		e.frame()
	}

	e.currentStage = EngineStageStopped
	core.LogInfo("engine run %s stopped after %d frames", e.runID, e.frameCount)
	return nil
}

// RequestClose asks the loop to stop after the current frame. It is safe to
// call from any goroutine.
func (e *Engine) RequestClose() {
	e.closeRequested.Store(true)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Size returns the logical size and scale factor of the current targets.
func (e *Engine) Size() (core.LogicalSize, float64) {
	return e.size, e.scaleFactor
}

func (e *Engine) frame() {
	e.pollEvents()
	e.resizeIfNeeded()

	delta := e.clock.Tick()
	e.app.Update(delta)
	e.app.Render(e.gfx, e.encoder)

	e.backend.Flush(e.encoder, e.device)
	e.backend.SwapBuffers(e.surface)
	e.device.Cleanup()

	e.frameCount++
	if e.metrics.Update(delta) {
		fps, frameTime := e.metrics.Frame()
		core.LogDebug("%.0f fps, %.3f ms/frame", fps, frameTime)
	}
}

func (e *Engine) pollEvents() {
	closing := false
	e.events.PollEvents(func(event core.EventContext) {
		if closing {
			return
		}
		switch event.Type {
		case core.EVENT_CODE_APPLICATION_QUIT:
			core.LogInfo("close requested, finishing the current frame")
			e.closeRequested.Store(true)
			closing = true
		case core.EVENT_CODE_RESIZED:
			we, ok := event.Data.(*core.WindowEvent)
			if !ok {
				core.LogError("wrong event associated with the event type `%s`", event.Type)
				return
			}
			e.pendingSize = we.Size
		case core.EVENT_CODE_SCALE_FACTOR_CHANGED:
			we, ok := event.Data.(*core.WindowEvent)
			if !ok {
				core.LogError("wrong event associated with the event type `%s`", event.Type)
				return
			}
			e.pendingScaleFactor = we.ScaleFactor
		default:
			e.app.OnEvent(event)
		}
	})
}

func (e *Engine) resizeIfNeeded() {
	if e.pendingSize == e.size && e.pendingScaleFactor == e.scaleFactor {
		return
	}
	size, scaleFactor := e.pendingSize, e.pendingScaleFactor

	targets, err := e.backend.ResizeSwapchain(e.surface, e.gfx, e.device, size, scaleFactor)
	if err != nil {
		if !errors.Is(err, core.ErrSwapchainResize) {
			err = fmt.Errorf("%w: %w", core.ErrSwapchainResize, err)
		}
		core.LogError("swapchain resize to %.0fx%.0f at scale %.2f failed: %s", size.Width, size.Height, scaleFactor, err)
		// Only a new observed change retries.
		e.pendingSize, e.pendingScaleFactor = e.size, e.scaleFactor
		if l, ok := e.app.(ResizeFailureListener); ok {
			l.OnSwapchainResizeFailed(err)
		}
		return
	}

	e.size, e.scaleFactor = size, scaleFactor
	core.LogDebug("swapchain resized to %.0fx%.0f at scale %.2f", size.Width, size.Height, scaleFactor)
	if l, ok := e.app.(SwapchainResizeListener); ok {
		l.OnSwapchainResized(e.gfx, *targets)
	}
}

// Launch initializes and runs the engine, exiting the process if either
// step fails.
func Launch(e *Engine) {
	if err := e.Initialize(); err != nil {
		core.LogFatal("failed to initialize the engine: %s", err)
	}
	if err := e.Run(); err != nil {
		core.LogFatal("engine stopped with an error: %s", err)
	}
}
