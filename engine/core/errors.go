package core

import (
	"errors"
)

var (
	ErrWindowCreation         = errors.New("failed to create window")
	ErrDeviceCreation         = errors.New("failed to create graphics device")
	ErrUnsupportedEventSource = errors.New("event source is not supported by this backend")
	ErrSwapchainResize        = errors.New("failed to resize swapchain")
	ErrStaleTarget            = errors.New("previous render target is still referenced")
	ErrZeroSize               = errors.New("physical size has a zero dimension")
	ErrQueueFull              = errors.New("queue is full")
	ErrQueueEmpty             = errors.New("queue is empty")
)
