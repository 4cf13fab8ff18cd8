// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type key string

func (k key) String() string { return string(k) }

type value struct{ name string }

func TestGetOrCreateSingleWinner(t *testing.T) {
	table := NewTable[key, *value]()

	var creations atomic.Int32
	start := make(chan struct{})
	const n = 64

	results := make([]*value, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := table.GetOrCreate("k", func() (*value, error) {
				creations.Add(1)
				return &value{name: "k"}, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), creations.Load())
	for _, v := range results {
		assert.Same(t, results[0], v)
	}
	stats := table.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Creations)
	assert.Equal(t, int64(n), stats.Hits+stats.Misses)
}

func TestGetOrCreateErrorIsNotStored(t *testing.T) {
	table := NewTable[key, *value]()
	boom := errors.New("boom")

	_, err := table.GetOrCreate("k", func() (*value, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	_, ok := table.Get("k")
	assert.False(t, ok)

	v, err := table.GetOrCreate("k", func() (*value, error) { return &value{name: "second"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "second", v.name)
}

func TestDistinctKeys(t *testing.T) {
	table := NewTable[key, *value]()
	a, err := table.GetOrCreate("a", func() (*value, error) { return &value{name: "a"}, nil })
	require.NoError(t, err)
	b, err := table.GetOrCreate("b", func() (*value, error) { return &value{name: "b"}, nil })
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, table.Len())

	again, err := table.GetOrCreate("a", func() (*value, error) {
		t.Fatal("must not create twice")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Same(t, a, again)
}

// fileKey prints like the file name it denotes, distinct keys may print the same
type fileKey struct {
	name, typ, ext string
}

func (k fileKey) String() string {
	ext := k.ext
	if ext == "" {
		ext = k.typ
	}
	return k.name + "." + ext
}

func TestKeysPrintingAlikeAreDistinct(t *testing.T) {
	table := NewTable[fileKey, *value]()
	byType := fileKey{name: "lib", typ: "jar"}
	byExtension := fileKey{name: "lib", ext: "jar"}
	require.Equal(t, byType.String(), byExtension.String())

	started := make(chan struct{})
	release := make(chan struct{})
	first := make(chan *value)
	go func() {
		v, err := table.GetOrCreate(byType, func() (*value, error) {
			close(started)
			<-release
			return &value{name: "type"}, nil
		})
		assert.NoError(t, err)
		first <- v
	}()
	<-started

	second, err := table.GetOrCreate(byExtension, func() (*value, error) {
		return &value{name: "extension"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "extension", second.name)

	close(release)
	assert.Equal(t, "type", (<-first).name)

	stored, ok := table.Get(byExtension)
	require.True(t, ok)
	assert.Same(t, second, stored)
	again, err := table.GetOrCreate(byExtension, func() (*value, error) {
		t.Fatal("must not create twice")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Same(t, second, again)
	assert.Equal(t, 2, table.Len())
}
