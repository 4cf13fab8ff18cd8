// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
)

type Stats struct {
	Entries   int   `yaml:"entries"`
	Hits      int64 `yaml:"hits"`
	Misses    int64 `yaml:"misses"`
	Creations int64 `yaml:"creations"`
}

// call is one in-flight construction, done is closed once v and err are set
type call[V any] struct {
	done chan struct{}
	v    V
	err  error
}

// Table is a concurrent get-or-create map. For a given key at most one value is ever created,
// and every caller observes that value. Entries are never evicted.
type Table[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	flights map[K]*call[V]

	hits, misses, creations atomic.Int64
}

func NewTable[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]V), flights: make(map[K]*call[V])}
}

func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok
}

// GetOrCreate returns the value stored under key, creating it with create on first access.
// Concurrent first accesses share a single call to create. A failed creation stores nothing
// and its error is returned to every caller that waited on it.
func (t *Table[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := t.Get(key); ok {
		t.hits.Add(1)
		return v, nil
	}

	t.mu.Lock()
	// a construction for this key may have completed since Get
	if v, ok := t.entries[key]; ok {
		t.mu.Unlock()
		t.hits.Add(1)
		return v, nil
	}
	t.misses.Add(1)
	if c, ok := t.flights[key]; ok {
		t.mu.Unlock()
		<-c.done
		return c.v, c.err
	}
	c := &call[V]{done: make(chan struct{})}
	t.flights[key] = c
	t.mu.Unlock()

	defer close(c.done)
	c.v, c.err = create()

	t.mu.Lock()
	delete(t.flights, key)
	if c.err == nil {
		t.entries[key] = c.v
		t.creations.Add(1)
	}
	t.mu.Unlock()
	return c.v, c.err
}

// GetOrInit is GetOrCreate for constructions that cannot fail
func (t *Table[K, V]) GetOrInit(key K, init func() V) V {
	return lo.Must(t.GetOrCreate(key, func() (V, error) { return init(), nil }))
}

func (t *Table[K, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func (t *Table[K, V]) Stats() Stats {
	return Stats{
		Entries:   t.Len(),
		Hits:      t.hits.Load(),
		Misses:    t.misses.Load(),
		Creations: t.creations.Load(),
	}
}
