package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/anywindow/engine/core"
)

type testTarget struct {
	size core.PhysicalSize
}

func (t testTarget) Size() core.PhysicalSize {
	return t.size
}

type testFactory struct{}

func (testFactory) Name() string {
	return "test"
}

func TestWindowTargets(t *testing.T) {
	cases := []struct {
		name     string
		size     core.LogicalSize
		scale    float64
		aspect   float32
		physical core.PhysicalSize
	}{
		{"hidpi", core.NewLogicalSize(800, 450), 2, 16.0 / 9.0, core.PhysicalSize{Width: 1600, Height: 900}},
		{"fractional", core.NewLogicalSize(1280.5, 719.25), 1.25, float32(1280.5 / 719.25), core.PhysicalSize{Width: 1600.625, Height: 899.0625}},
		{"portrait", core.NewLogicalSize(333.3, 1000), 1, float32(333.3 / 1000.0), core.PhysicalSize{Width: 333.3, Height: 1000}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := testTarget{size: tc.physical}
			wt := NewWindowTargets(target, target, tc.size, tc.scale)

			assert.InDelta(t, tc.aspect, wt.AspectRatio(), 1e-6)
			assert.InDelta(t, tc.physical.Width, wt.PhysicalSize().Width, 1e-9)
			assert.InDelta(t, tc.physical.Height, wt.PhysicalSize().Height, 1e-9)
			assert.Equal(t, tc.size, wt.Size)
		})
	}
}

func TestEncoderRecordsInOrder(t *testing.T) {
	target := testTarget{}
	enc := NewEncoder(testFactory{})
	assert.Equal(t, "test", enc.Factory().Name())

	_, hasColor, _, hasDepth := enc.LastClears()
	assert.False(t, hasColor)
	assert.False(t, hasDepth)

	enc.ClearColor(target, [4]float32{1, 0, 0, 1})
	enc.ClearDepth(target, 1)
	enc.ClearColor(target, [4]float32{0, 0, 1, 1})
	assert.Equal(t, 3, enc.Len())

	types := []CommandType{}
	for _, c := range enc.Commands() {
		types = append(types, c.Type)
	}
	assert.Equal(t, []CommandType{CommandClearColor, CommandClearDepth, CommandClearColor}, types)

	rgba, hasColor, depth, hasDepth := enc.LastClears()
	assert.True(t, hasColor)
	assert.True(t, hasDepth)
	assert.Equal(t, [4]float32{0, 0, 1, 1}, rgba)
	assert.Equal(t, float32(1), depth)

	enc.Reset()
	assert.Zero(t, enc.Len())
	_, hasColor, _, _ = enc.LastClears()
	assert.False(t, hasColor)
}

func TestCommandTypeString(t *testing.T) {
	assert.Equal(t, "clear_color", CommandClearColor.String())
	assert.Equal(t, "clear_depth", CommandClearDepth.String())
	assert.Equal(t, "unknown", CommandType(9).String())
}
