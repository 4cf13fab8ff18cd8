// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"errors"
	"testing"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	name  string
	path  string
	err   error
	calls int
}

func (f *fakeRepo) Name() string {
	return f.name
}

func (f *fakeRepo) ResolveArtifact(context.Context, artifact.Request) (string, error) {
	f.calls++
	if f.path == "" && f.err == nil {
		return "", artifact.ErrArtifactNotFound
	}
	return f.path, f.err
}

var owner = coordinates.NewModuleVersion("com.example", "lib", "1.0")

func request(sources ...string) artifact.Request {
	return artifact.Request{
		ID:      metadata.NewArtifact(coordinates.ComponentFor(owner), metadata.ArtifactName{Name: "lib", Extension: "jar"}).ID,
		Owner:   owner,
		Sources: sourcesOf(sources),
	}
}

func sourcesOf(names []string) metadata.ModuleSources {
	sources := metadata.ModuleSources{}
	for _, n := range names {
		sources = append(sources, metadata.ModuleSource{Repository: n})
	}
	return sources
}

func TestRouterPrefersSources(t *testing.T) {
	a := &fakeRepo{name: "a", path: "/a/lib.jar"}
	b := &fakeRepo{name: "b", path: "/b/lib.jar"}
	router := NewRouter(a, b)

	p, err := router.ResolveArtifact(context.Background(), request("b"))
	require.NoError(t, err)
	assert.Equal(t, "/b/lib.jar", p)
	assert.Zero(t, a.calls)

	p, err = router.ResolveArtifact(context.Background(), request("unknown"))
	require.NoError(t, err)
	assert.Equal(t, "/a/lib.jar", p)
}

func TestRouterFallsBack(t *testing.T) {
	a := &fakeRepo{name: "a"}
	b := &fakeRepo{name: "b", path: "/b/lib.jar"}

	p, err := NewRouter(a, b).ResolveArtifact(context.Background(), request("a"))
	require.NoError(t, err)
	assert.Equal(t, "/b/lib.jar", p)
	assert.Equal(t, 1, a.calls)
}

func TestRouterErrors(t *testing.T) {
	_, err := NewRouter(&fakeRepo{name: "a"}, &fakeRepo{name: "b"}).ResolveArtifact(context.Background(), request())
	assert.ErrorIs(t, err, artifact.ErrArtifactNotFound)
	assert.ErrorContains(t, err, "[a b]")

	boom := errors.New("permission denied")
	c := &fakeRepo{name: "c", path: "/c/lib.jar"}
	_, err = NewRouter(&fakeRepo{name: "a", err: boom}, c).ResolveArtifact(context.Background(), request())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.calls, "only missing artifacts fall through to the next repository")
}

func TestFromConfig(t *testing.T) {
	home := t.TempDir()
	testutil.WriteFile(t, home, config.ConfigFileName, []byte("repositories:\n  - {name: libs, kind: local, path: repo}\n  - {name: remote, kind: oci, registry: localhost:5000}\n"))
	testutil.WriteFile(t, home, "repo/com/example/lib/1.0/lib.jar", []byte("classes"))
	t.Setenv(config.OciRegistryEnvVar, "")

	cfg, err := config.GetWithCustomHome(home)
	require.NoError(t, err)
	router, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"libs", "remote"}, router.Names())

	p, err := router.ResolveArtifact(context.Background(), request("libs"))
	require.NoError(t, err)
	assert.FileExists(t, p)
}
