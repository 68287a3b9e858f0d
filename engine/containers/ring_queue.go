package containers

import "github.com/spaghettifunk/anywindow/engine/core"

// RingQueue is a fixed-capacity FIFO. It is not safe for concurrent use.
type RingQueue[T any] struct {
	data       []T
	size       int
	readIndex  int
	writeIndex int
	count      int
}

// Create a new RingQueue holding at most size elements.
func NewRingQueue[T any](size int) *RingQueue[T] {
	if size < 1 {
		size = 1
	}
	return &RingQueue[T]{
		data: make([]T, size),
		size: size,
	}
}

// Enqueue adds an element to the back of the queue.
func (rq *RingQueue[T]) Enqueue(value T) error {
	if rq.IsFull() {
		return core.ErrQueueFull
	}

	rq.data[rq.writeIndex] = value
	rq.writeIndex = (rq.writeIndex + 1) % rq.size
	rq.count++
	return nil
}

// Dequeue removes and returns the front element in the queue.
func (rq *RingQueue[T]) Dequeue() (T, error) {
	var zero T
	if rq.IsEmpty() {
		return zero, core.ErrQueueEmpty
	}

	value := rq.data[rq.readIndex]
	rq.data[rq.readIndex] = zero
	rq.readIndex = (rq.readIndex + 1) % rq.size
	rq.count--
	return value, nil
}

// Peek returns the front element without removing it.
func (rq *RingQueue[T]) Peek() (T, error) {
	if rq.IsEmpty() {
		var zero T
		return zero, core.ErrQueueEmpty
	}
	return rq.data[rq.readIndex], nil
}

// Drain dequeues every element in order, calling fn for each.
func (rq *RingQueue[T]) Drain(fn func(T)) {
	for !rq.IsEmpty() {
		v, _ := rq.Dequeue()
		fn(v)
	}
}

func (rq *RingQueue[T]) Len() int {
	return rq.count
}

func (rq *RingQueue[T]) IsEmpty() bool {
	return rq.count == 0
}

func (rq *RingQueue[T]) IsFull() bool {
	return rq.count == rq.size
}
