package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anywindow/engine/core"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	assert.True(t, rq.IsEmpty())

	require.NoError(t, rq.Enqueue(1))
	require.NoError(t, rq.Enqueue(2))
	require.NoError(t, rq.Enqueue(3))
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue(4), core.ErrQueueFull)

	v, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// wrap around
	require.NoError(t, rq.Enqueue(4))
	var got []int
	rq.Drain(func(i int) { got = append(got, i) })
	assert.Equal(t, []int{2, 3, 4}, got)
	assert.Zero(t, rq.Len())

	_, err = rq.Dequeue()
	assert.ErrorIs(t, err, core.ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, core.ErrQueueEmpty)
}

func TestRingQueueMinimumSize(t *testing.T) {
	rq := NewRingQueue[string](0)
	require.NoError(t, rq.Enqueue("a"))
	assert.ErrorIs(t, rq.Enqueue("b"), core.ErrQueueFull)
}

func TestRingQueueDrainEvents(t *testing.T) {
	rq := NewRingQueue[core.EventContext](4)
	require.NoError(t, rq.Enqueue(core.NewResizedEvent(core.NewLogicalSize(10, 10))))
	require.NoError(t, rq.Enqueue(core.NewCloseRequestedEvent()))

	var codes []core.EventCode
	rq.Drain(func(ev core.EventContext) { codes = append(codes, ev.Type) })
	assert.Equal(t, []core.EventCode{core.EVENT_CODE_RESIZED, core.EVENT_CODE_APPLICATION_QUIT}, codes)
}
