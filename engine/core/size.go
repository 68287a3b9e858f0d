package core

import (
	"math"

	"golang.org/x/exp/constraints"
)

// LogicalSize is a window size in display-independent units.
type LogicalSize struct {
	Width  float64
	Height float64
}

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  float64
	Height float64
}

func NewLogicalSize(width, height float64) LogicalSize {
	return LogicalSize{Width: width, Height: height}
}

// ToPhysical scales the logical size by the display scale factor.
func (s LogicalSize) ToPhysical(scaleFactor float64) PhysicalSize {
	return PhysicalSize{
		Width:  s.Width * scaleFactor,
		Height: s.Height * scaleFactor,
	}
}

// ToLogical divides the physical size by the display scale factor.
func (s PhysicalSize) ToLogical(scaleFactor float64) LogicalSize {
	if scaleFactor == 0 {
		return LogicalSize{}
	}
	return LogicalSize{
		Width:  s.Width / scaleFactor,
		Height: s.Height / scaleFactor,
	}
}

// IsZero reports whether either dimension rounds down below one pixel.
func (s PhysicalSize) IsZero() bool {
	return s.Width < 1 || s.Height < 1
}

// Pixels rounds the size to whole pixels, never less than one in either
// dimension, for APIs that reject empty surfaces.
func (s PhysicalSize) Pixels() (uint32, uint32) {
	w := Clamp(math.Round(s.Width), 1, math.MaxUint32)
	h := Clamp(math.Round(s.Height), 1, math.MaxUint32)
	return uint32(w), uint32(h)
}

func Clamp[T constraints.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
