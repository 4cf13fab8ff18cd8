// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package variant_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/exclude"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/session"
	"daml.com/x/artifacts/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMapper counts constructions: the builder maps attributes exactly once per variant it builds
type countingMapper struct {
	calls atomic.Int32
}

func (m *countingMapper) MapAttributesFor(base attributes.Attributes, _ []metadata.ArtifactName) attributes.Attributes {
	m.calls.Add(1)
	return base
}

var noFiles = artifact.ResolverFunc(func(context.Context, artifact.Request) (string, error) {
	return "", artifact.ErrArtifactNotFound
})

func component() *metadata.ComponentResolveMetadata {
	return metadata.NewComponent(coordinates.NewModuleVersion("M", "lib", "1.0"))
}

func apiVariant(c *metadata.ComponentResolveMetadata, artifacts ...string) *metadata.VariantResolveMetadata {
	attrs := attributes.Of(map[string]string{"usage": "api"})
	v := &metadata.VariantResolveMetadata{
		Name:       "api",
		ID:         &metadata.VariantIdentifier{Component: c.ID, Name: "V1"},
		Attributes: &attrs,
	}
	for _, a := range artifacts {
		v.Artifacts = append(v.Artifacts, metadata.NewArtifact(c.ID, metadata.ArtifactName{Name: a, Extension: "jar"}))
	}
	return v
}

func TestIdentityReuse(t *testing.T) {
	c := component()
	mapper := &countingMapper{}
	b := variant.NewBuilder(mapper, noFiles)
	sess := session.New()

	first, err := b.Resolve(sess, c, apiVariant(c, "lib"), exclude.Nothing())
	require.NoError(t, err)
	second, err := b.Resolve(sess, c, apiVariant(c, "lib"), nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), mapper.calls.Load())
	assert.False(t, first.IsAdHoc())
}

func TestExclusionDivergence(t *testing.T) {
	c := component()
	b := variant.NewBuilder(&countingMapper{}, noFiles)
	sess := session.New()
	v := apiVariant(c, "lib", "lib-extra")
	excludeExtra := exclude.Rules(exclude.Rule{Artifact: "lib-extra"})

	excluded, err := b.Resolve(sess, c, v, excludeExtra)
	require.NoError(t, err)
	assert.True(t, excluded.IsAdHoc())
	require.Len(t, excluded.Artifacts(), 1)
	assert.Equal(t, "lib", excluded.Artifacts()[0].Name().Name)

	again, err := b.Resolve(sess, c, v, excludeExtra)
	require.NoError(t, err)
	assert.NotSame(t, excluded, again)

	_, cached := sess.CachedVariant(*v.ID)
	assert.False(t, cached, "an excluded variant must not populate the cache under its identity")

	canonical, err := b.Resolve(sess, c, v, exclude.Nothing())
	require.NoError(t, err)
	assert.NotSame(t, excluded, canonical)
	assert.Len(t, canonical.Artifacts(), 2)
	// the artifact surviving exclusion shares its handle with the canonical variant
	assert.Same(t, excluded.Artifacts()[0], canonical.Artifacts()[0])
}

func TestVariantsWithoutIdentityAreNeverShared(t *testing.T) {
	c := component()
	b := variant.NewBuilder(&countingMapper{}, noFiles)
	sess := session.New()
	v := apiVariant(c, "lib")
	v.ID = nil

	first, err := b.Resolve(sess, c, v, nil)
	require.NoError(t, err)
	second, err := b.Resolve(sess, c, v, nil)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Attributes(), second.Attributes())
	assert.Equal(t, 0, sess.Stats().Variants.Entries)
}

func TestCapabilities(t *testing.T) {
	c := component()
	b := variant.NewBuilder(&countingMapper{}, noFiles)

	t.Run("defaulting", func(t *testing.T) {
		v, err := b.Resolve(session.New(), c, apiVariant(c, "lib"), nil)
		require.NoError(t, err)
		assert.Equal(t, []capability.Capability{{Group: "M", Name: "lib", Version: "1.0"}}, v.Capabilities().All())
	})

	t.Run("passthrough", func(t *testing.T) {
		declared := []capability.Capability{{Group: "M", Name: "lib-fixtures", Version: "1.0"}}
		meta := apiVariant(c, "lib")
		meta.Capabilities = declared
		v, err := b.Resolve(session.New(), c, meta, nil)
		require.NoError(t, err)
		assert.Equal(t, declared, v.Capabilities().All())
	})
}

func TestInconsistentMetadata(t *testing.T) {
	c := component()
	b := variant.NewBuilder(&countingMapper{}, noFiles)

	v := apiVariant(c, "lib")
	v.Attributes = nil
	_, err := b.Resolve(session.New(), c, v, nil)
	require.ErrorIs(t, err, variant.ErrInconsistentMetadata)
	assert.Contains(t, err.Error(), "M:lib:1.0#V1")

	foreign := apiVariant(c)
	foreign.Artifacts = []metadata.ComponentArtifactMetadata{
		metadata.NewArtifact("other:thing:2.0", metadata.ArtifactName{Name: "thing", Extension: "jar"}),
	}
	_, err = b.Resolve(session.New(), c, foreign, nil)
	require.ErrorIs(t, err, variant.ErrInconsistentMetadata)
	assert.Contains(t, err.Error(), "other:thing:2.0")
}

func TestConcurrentIdempotence(t *testing.T) {
	c := component()
	mapper := &countingMapper{}
	b := variant.NewBuilder(mapper, noFiles)
	sess := session.New()

	const n = 50
	results := make([]*variant.ResolvedVariant, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := b.Resolve(sess, c, apiVariant(c, "lib"), nil)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), mapper.calls.Load())
	for _, v := range results {
		assert.Same(t, results[0], v)
	}
}
