package renderer

import "github.com/spaghettifunk/anywindow/engine/core"

// WindowTargets are the current color and depth targets of the window. A
// resize replaces the whole value.
type WindowTargets struct {
	Color       ColorTarget
	Depth       DepthTarget
	Size        core.LogicalSize
	ScaleFactor float64
}

func NewWindowTargets(color ColorTarget, depth DepthTarget, size core.LogicalSize, scaleFactor float64) *WindowTargets {
	return &WindowTargets{
		Color:       color,
		Depth:       depth,
		Size:        size,
		ScaleFactor: scaleFactor,
	}
}

// AspectRatio is width over height of the logical size.
func (t WindowTargets) AspectRatio() float32 {
	return float32(t.Size.Width / t.Size.Height)
}

func (t WindowTargets) PhysicalSize() core.PhysicalSize {
	return t.Size.ToPhysical(t.ScaleFactor)
}
