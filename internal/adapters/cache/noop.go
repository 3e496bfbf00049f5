package cache

import (
	"context"
	"time"
)

// Noop is a Cache that stores nothing. Every GetOrLoad runs its loader.
type Noop[V any] struct {
	name string
}

// NewNoop creates a Noop cache.
func NewNoop[V any](name string) *Noop[V] { return &Noop[V]{name: name} }

func (n *Noop[V]) Get(context.Context, string) (V, bool) {
	var zero V
	return zero, false
}

func (n *Noop[V]) Set(context.Context, string, V, time.Duration) {}

func (n *Noop[V]) GetOrLoad(ctx context.Context, _ string, _ time.Duration, load func(ctx context.Context) (V, error)) (V, error) {
	return load(ctx)
}

func (n *Noop[V]) Delete(context.Context, string) {}

func (n *Noop[V]) Clear(context.Context) {}

func (n *Noop[V]) Stats() Stats { return Stats{Name: n.name} }

func (n *Noop[V]) Close() error { return nil }
