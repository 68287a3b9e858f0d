//go:build windows

package direct3d

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anywindow/engine/core"
)

func TestResizeTargetsKeepsSurfaceOnDepthFailure(t *testing.T) {
	boom := errors.New("out of memory")
	configured := false

	depth, err := resizeTargets(
		func() (*DepthTexture, error) { return nil, boom },
		func() { configured = true },
	)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, depth)
	assert.False(t, configured, "surface must keep its old size")
}

func TestResizeTargetsConfiguresAfterDepth(t *testing.T) {
	var order []string
	want := &DepthTexture{size: core.PhysicalSize{Width: 640, Height: 480}}

	depth, err := resizeTargets(
		func() (*DepthTexture, error) {
			order = append(order, "depth")
			return want, nil
		},
		func() { order = append(order, "surface") },
	)
	require.NoError(t, err)
	assert.Same(t, want, depth)
	assert.Equal(t, []string{"depth", "surface"}, order)
}

type fakePass struct {
	endErr   error
	released bool
}

func (p *fakePass) End() error { return p.endErr }
func (p *fakePass) Release()   { p.released = true }

func TestEndPassReportsEndError(t *testing.T) {
	boom := errors.New("encoder invalid")
	pass := &fakePass{endErr: boom}
	assert.ErrorIs(t, endPass(pass), boom)
	assert.True(t, pass.released)

	pass = &fakePass{}
	assert.NoError(t, endPass(pass))
	assert.True(t, pass.released)
}
