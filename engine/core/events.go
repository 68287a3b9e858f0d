package core

import "fmt"

// EventCode identifies the kind of window event carried by an EventContext.
type EventCode int

const (
	// The window asked to close. Shuts the application down after the current frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed. Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released. Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved. Data: *MouseEvent (PosX, PosY)
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// Mouse wheel. Data: *MouseEvent (ScrollX, ScrollY)
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07

	// Logical window size changed. Data: *WindowEvent (Size)
	EVENT_CODE_RESIZED EventCode = 0x08

	// Display scale factor changed. Data: *WindowEvent (ScaleFactor)
	EVENT_CODE_SCALE_FACTOR_CHANGED EventCode = 0x09

	// Window gained or lost focus. Data: *WindowEvent (Focused)
	EVENT_CODE_FOCUSED EventCode = 0x0A

	// The window config file was reloaded. Data: *platform.ConfigReloadedEvent
	EVENT_CODE_CONFIG_RELOADED EventCode = 0x0B

	MAX_EVENT_CODE EventCode = 0xFF
)

func (c EventCode) String() string {
	switch c {
	case EVENT_CODE_APPLICATION_QUIT:
		return "ApplicationQuit"
	case EVENT_CODE_KEY_PRESSED:
		return "KeyPressed"
	case EVENT_CODE_KEY_RELEASED:
		return "KeyReleased"
	case EVENT_CODE_BUTTON_PRESSED:
		return "ButtonPressed"
	case EVENT_CODE_BUTTON_RELEASED:
		return "ButtonReleased"
	case EVENT_CODE_MOUSE_MOVED:
		return "MouseMoved"
	case EVENT_CODE_MOUSE_WHEEL:
		return "MouseWheel"
	case EVENT_CODE_RESIZED:
		return "Resized"
	case EVENT_CODE_SCALE_FACTOR_CHANGED:
		return "ScaleFactorChanged"
	case EVENT_CODE_FOCUSED:
		return "Focused"
	case EVENT_CODE_CONFIG_RELOADED:
		return "ConfigReloaded"
	}
	return fmt.Sprintf("EventCode(%d)", int(c))
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode  KeyCode
	Scancode int
	Repeat   bool
}

type MouseEvent struct {
	Button  Button
	PosX    float64
	PosY    float64
	ScrollX float64
	ScrollY float64
}

type WindowEvent struct {
	Size        LogicalSize
	ScaleFactor float64
	Focused     bool
}

func NewCloseRequestedEvent() EventContext {
	return EventContext{Type: EVENT_CODE_APPLICATION_QUIT}
}

func NewResizedEvent(size LogicalSize) EventContext {
	return EventContext{Type: EVENT_CODE_RESIZED, Data: &WindowEvent{Size: size}}
}

func NewScaleFactorChangedEvent(scaleFactor float64) EventContext {
	return EventContext{Type: EVENT_CODE_SCALE_FACTOR_CHANGED, Data: &WindowEvent{ScaleFactor: scaleFactor}}
}
