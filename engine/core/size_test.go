package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogicalToPhysical(t *testing.T) {
	p := NewLogicalSize(800, 600).ToPhysical(2)
	assert.Equal(t, PhysicalSize{Width: 1600, Height: 1200}, p)
	assert.Equal(t, NewLogicalSize(800, 600), p.ToLogical(2))
	assert.Equal(t, LogicalSize{}, p.ToLogical(0))
}

func TestPhysicalSizePixels(t *testing.T) {
	w, h := PhysicalSize{Width: 1499.6, Height: 0.2}.Pixels()
	assert.Equal(t, uint32(1500), w)
	assert.Equal(t, uint32(1), h)

	w, h = PhysicalSize{Width: math.MaxFloat64, Height: -5}.Pixels()
	assert.Equal(t, uint32(math.MaxUint32), w)
	assert.Equal(t, uint32(1), h)
}

func TestPhysicalSizeIsZero(t *testing.T) {
	assert.True(t, PhysicalSize{Width: 0, Height: 100}.IsZero())
	assert.True(t, PhysicalSize{Width: 100, Height: 0.5}.IsZero())
	assert.False(t, PhysicalSize{Width: 1, Height: 1}.IsZero())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(5, 0, 10))
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.Equal(t, uint32(3), Clamp(uint32(1), 3, 7))
	assert.Equal(t, "b", Clamp("z", "a", "b"))
}
