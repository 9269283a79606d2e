// Package model holds lazily loaded, shared handles to external models.
package model

import (
	"context"
	"errors"
	"io"
	"sync"
)

var ErrClosed = errors.New("model handle closed")

// Loader builds the underlying model. It runs at most once per Handle.
type Loader[T any] func(ctx context.Context) (T, error)

// Handle loads its model on first use and caches both the model and the load
// error. Close releases the model if it implements io.Closer.
type Handle[T any] struct {
	name   string
	load   Loader[T]
	once   sync.Once
	mu     sync.RWMutex
	value  T
	err    error
	closed bool
}

func NewHandle[T any](name string, load Loader[T]) *Handle[T] {
	return &Handle[T]{name: name, load: load}
}

// Ready wraps an already constructed model.
func Ready[T any](name string, value T) *Handle[T] {
	h := &Handle[T]{name: name, value: value}
	h.once.Do(func() {})
	return h
}

func (h *Handle[T]) Name() string {
	return h.name
}

func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		var zero T
		return zero, ErrClosed
	}

	h.once.Do(func() {
		value, err := h.load(ctx)
		h.mu.Lock()
		h.value, h.err = value, err
		h.mu.Unlock()
	})

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		var zero T
		return zero, ErrClosed
	}
	return h.value, h.err
}

func (h *Handle[T]) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if closer, ok := any(h.value).(io.Closer); ok && h.err == nil {
		return closer.Close()
	}
	return nil
}
