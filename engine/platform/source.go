package platform

import "github.com/spaghettifunk/anywindow/engine/core"

// EventSource delivers pending window events to the frame driver.
type EventSource interface {
	// PollEvents calls handler, in order, for every event queued since the
	// previous call. It may block briefly waiting on the OS.
	PollEvents(handler func(core.EventContext))
}

// EventPoster accepts events from other goroutines. Posted events are
// delivered by the next PollEvents.
type EventPoster interface {
	Post(event core.EventContext)
}

// Window is the raw OS window shared by every backend.
type Window interface {
	InnerSize() core.LogicalSize
	ScaleFactor() float64
	SetTitle(title string)
}

// ConfigReloadedEvent is the payload of EVENT_CODE_CONFIG_RELOADED.
type ConfigReloadedEvent struct {
	Config *WindowConfig
}
