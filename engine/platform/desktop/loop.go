package desktop

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/anywindow/engine/containers"
	"github.com/spaghettifunk/anywindow/engine/core"
	"github.com/spaghettifunk/anywindow/engine/platform"
)

const (
	eventQueueSize  = 256
	postedQueueSize = 16
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// EventsLoop owns glfw and turns its callbacks into core events. Every method
// except Post must be called from the main thread.
type EventsLoop struct {
	queue  *containers.RingQueue[core.EventContext]
	posted chan core.EventContext

	windows    []*Window
	terminated sync.Once
}

var (
	_ platform.EventSource = (*EventsLoop)(nil)
	_ platform.EventPoster = (*EventsLoop)(nil)
)

func NewEventsLoop() (*EventsLoop, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	return &EventsLoop{
		queue:  containers.NewRingQueue[core.EventContext](eventQueueSize),
		posted: make(chan core.EventContext, postedQueueSize),
	}, nil
}

// WindowHint configures glfw before a window is created.
type WindowHint func()

// WithOpenGL asks for a core-profile context of the given version.
func WithOpenGL(major, minor int) WindowHint {
	return func() {
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		glfw.WindowHint(glfw.ContextVersionMajor, major)
		glfw.WindowHint(glfw.ContextVersionMinor, minor)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		glfw.WindowHint(glfw.DepthBits, 24)
	}
}

// WithNoAPI creates a window without a client API. Required for Vulkan and
// WebGPU surfaces.
func WithNoAPI() WindowHint {
	return func() {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
}

func (l *EventsLoop) CreateWindow(cfg *platform.WindowConfig, hints ...WindowHint) (*Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)
	if cfg.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}
	for _, hint := range hints {
		hint()
	}

	gw, err := glfw.CreateWindow(int(cfg.Width), int(cfg.Height), cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &Window{window: gw}
	l.registerCallbacks(w)
	if cfg.HasPosition() {
		gw.SetPos(cfg.PosX, cfg.PosY)
	}
	gw.Show()

	l.windows = append(l.windows, w)
	return w, nil
}

func (l *EventsLoop) registerCallbacks(w *Window) {
	gw := w.window

	gw.SetCloseCallback(func(_ *glfw.Window) {
		l.push(core.NewCloseRequestedEvent())
	})
	gw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		size := core.PhysicalSize{Width: float64(width), Height: float64(height)}
		l.push(core.NewResizedEvent(size.ToLogical(w.ScaleFactor())))
	})
	gw.SetContentScaleCallback(func(_ *glfw.Window, x, _ float32) {
		l.push(core.NewScaleFactorChangedEvent(float64(x)))
	})
	gw.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		l.push(core.EventContext{Type: core.EVENT_CODE_FOCUSED, Data: &core.WindowEvent{Focused: focused}})
	})
	gw.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
		code := core.EVENT_CODE_KEY_PRESSED
		if action == glfw.Release {
			code = core.EVENT_CODE_KEY_RELEASED
		}
		l.push(core.EventContext{
			Type: code,
			Data: &core.KeyEvent{
				KeyCode:  translateKey(key),
				Scancode: scancode,
				Repeat:   action == glfw.Repeat,
			},
		})
	})
	gw.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := translateButton(button)
		if !ok {
			return
		}
		code := core.EVENT_CODE_BUTTON_PRESSED
		if action == glfw.Release {
			code = core.EVENT_CODE_BUTTON_RELEASED
		}
		x, y := gw.GetCursorPos()
		l.push(core.EventContext{Type: code, Data: &core.MouseEvent{Button: b, PosX: x, PosY: y}})
	})
	gw.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		l.push(core.EventContext{Type: core.EVENT_CODE_MOUSE_MOVED, Data: &core.MouseEvent{PosX: x, PosY: y}})
	})
	gw.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		l.push(core.EventContext{Type: core.EVENT_CODE_MOUSE_WHEEL, Data: &core.MouseEvent{ScrollX: xoff, ScrollY: yoff}})
	})
}

func (l *EventsLoop) push(event core.EventContext) {
	if err := l.queue.Enqueue(event); err != nil {
		core.LogWarn("dropping %s event: %s", event.Type, err)
	}
}

// PollEvents processes pending OS events, then hands the buffered callbacks
// and any posted events to handler.
func (l *EventsLoop) PollEvents(handler func(core.EventContext)) {
	glfw.PollEvents()
	l.queue.Drain(handler)
	for {
		select {
		case event := <-l.posted:
			handler(event)
		default:
			return
		}
	}
}

// Post queues an event from any goroutine and wakes the loop.
func (l *EventsLoop) Post(event core.EventContext) {
	select {
	case l.posted <- event:
		glfw.PostEmptyEvent()
	default:
		core.LogWarn("dropping posted %s event: queue full", event.Type)
	}
}

// Terminate destroys every window and shuts glfw down.
func (l *EventsLoop) Terminate() {
	l.terminated.Do(func() {
		for _, w := range l.windows {
			w.window.Destroy()
		}
		l.windows = nil
		glfw.Terminate()
	})
}
