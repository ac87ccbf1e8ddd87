// Package dataloader collapses the by-id lookups issued while resolving one
// graph request into a single set lookup per entity type.
//
// A Loader queues keys on Load and fetches them together on Flush. Results
// are memoized for the lifetime of the Loader, which must be created per
// request and dropped with it.
package dataloader

import (
	"context"
	"sync"
)

// BatchFunc fetches every key in one call. Keys absent from the returned map
// resolve to the zero value; they are not errors.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) (map[K]V, error)

// Thunk reads a loaded value. If the key has not been flushed yet, calling
// the thunk flushes the loader first.
type Thunk[V any] func(ctx context.Context) (V, error)

type Stats struct {
	Batches int
	Keys    int
}

type result[V any] struct {
	value V
	err   error
}

type Loader[K comparable, V any] struct {
	fetch BatchFunc[K, V]

	flushMu sync.Mutex

	mu      sync.Mutex
	pending []K
	queued  map[K]struct{}
	memo    map[K]result[V]
	stats   Stats
}

func NewLoader[K comparable, V any](fetch BatchFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		fetch:  fetch,
		queued: make(map[K]struct{}),
		memo:   make(map[K]result[V]),
	}
}

// Load enqueues key unless it is already queued or memoized. Keys keep the
// order in which they were first requested.
func (l *Loader[K, V]) Load(key K) Thunk[V] {
	l.mu.Lock()
	if _, done := l.memo[key]; !done {
		if _, queued := l.queued[key]; !queued {
			l.queued[key] = struct{}{}
			l.pending = append(l.pending, key)
		}
	}
	l.mu.Unlock()

	return func(ctx context.Context) (V, error) {
		if r, ok := l.lookup(key); ok {
			return r.value, r.err
		}
		if err := l.Flush(ctx); err != nil {
			var zero V
			return zero, err
		}
		r, _ := l.lookup(key)
		return r.value, r.err
	}
}

// Flush fetches all pending keys in one batch. A fetch error is memoized for
// every key of that batch and returned; there is no retry.
func (l *Loader[K, V]) Flush(ctx context.Context) error {
	l.flushMu.Lock()
	defer l.flushMu.Unlock()

	l.mu.Lock()
	keys := l.pending
	l.pending = nil
	l.queued = make(map[K]struct{})
	l.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}

	values, err := l.fetch(ctx, keys)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.stats.Batches++
	l.stats.Keys += len(keys)
	for _, k := range keys {
		if err != nil {
			l.memo[k] = result[V]{err: err}
			continue
		}
		l.memo[k] = result[V]{value: values[k]}
	}
	return err
}

// Prime stores a value obtained elsewhere so later loads of key skip the
// batch.
func (l *Loader[K, V]) Prime(key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.memo[key]; !ok {
		l.memo[key] = result[V]{value: value}
	}
}

func (l *Loader[K, V]) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Loader[K, V]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

func (l *Loader[K, V]) lookup(key K) (result[V], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.memo[key]
	return r, ok
}
