// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifactset

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = coordinates.NewModuleVersion("M", "lib", "1.0")

func handle(name string, resolver artifact.Resolver) *artifact.ResolvableArtifact {
	a := metadata.NewArtifact(coordinates.ComponentFor(owner), metadata.ArtifactName{Name: name, Extension: "jar"})
	return artifact.NewResolvable(artifact.Request{ID: a.ID, Owner: owner}, resolver)
}

func mkVariant(name string, attrs map[string]string, artifacts ...*artifact.ResolvableArtifact) *variant.ResolvedVariant {
	return variant.NewAdHoc(name, attributes.Of(attrs), capability.WithImplicit(nil, owner), artifacts, owner)
}

func TestSelect(t *testing.T) {
	api := mkVariant("api", map[string]string{"usage": "api"})
	runtime := mkVariant("runtime", map[string]string{"usage": "runtime"})

	s := New(Variants, owner.String(), []*variant.ResolvedVariant{api, runtime, api}, attributes.Empty(), nil)
	assert.Len(t, s.Candidates(), 2)
	assert.Equal(t, []*variant.ResolvedVariant{runtime}, s.Select(attributes.Of(map[string]string{"usage": "runtime"})))
	assert.Len(t, s.Select(attributes.Empty()), 2)
	assert.Equal(t, "variants artifacts of M:lib:1.0", s.String())
	assert.Equal(t, []*variant.ResolvedVariant{api}, s.Matching(attributes.Of(map[string]string{"usage": "api"})).Candidates())

	overridden := New(AdHoc, owner.String(), []*variant.ResolvedVariant{api}, attributes.Of(map[string]string{"usage": "runtime"}), nil)
	assert.Equal(t, []*variant.ResolvedVariant{api}, overridden.Select(attributes.Of(map[string]string{"usage": "runtime"})))
	assert.Equal(t, "{usage=api}", api.Attributes().String(), "overrides never leak into the shared variant")
}

func TestFiles(t *testing.T) {
	var calls atomic.Int32
	resolver := artifact.ResolverFunc(func(_ context.Context, req artifact.Request) (string, error) {
		calls.Add(1)
		return "/files/" + req.ID.Name.FileName(), nil
	})
	shared := handle("lib", resolver)
	extra := handle("lib-extra", resolver)

	s := New(Variants, owner.String(), []*variant.ResolvedVariant{
		mkVariant("api", nil, shared),
		mkVariant("runtime", nil, shared, extra),
	}, attributes.Empty(), nil)

	files, err := s.Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/files/lib.jar", files[0].Path)
	assert.Equal(t, "api", files[0].Variant)
	assert.Equal(t, "/files/lib-extra.jar", files[1].Path)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFilesFailure(t *testing.T) {
	boom := errors.New("disk full")
	ok := handle("ok", artifact.ResolverFunc(func(context.Context, artifact.Request) (string, error) {
		return "/ok.jar", nil
	}))
	broken := handle("broken", artifact.ResolverFunc(func(context.Context, artifact.Request) (string, error) {
		return "", boom
	}))

	s := New(Variants, owner.String(), []*variant.ResolvedVariant{mkVariant("v", nil, ok, broken)}, attributes.Empty(), nil)
	files, err := s.Files(context.Background())
	assert.Nil(t, files)
	assert.Same(t, boom, err)
}
