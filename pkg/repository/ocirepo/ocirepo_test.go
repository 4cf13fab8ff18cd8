// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocirepo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/oci"
	"daml.com/x/artifacts/pkg/remote"
	"daml.com/x/artifacts/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2/registry/remote/auth"
)

var owner = coordinates.NewModuleVersion("com.example", "lib", "1.0+build.7")

func request(name metadata.ArtifactName) artifact.Request {
	return artifact.Request{
		ID:    metadata.NewArtifact(coordinates.ComponentFor(owner), name).ID,
		Owner: owner,
	}
}

func newConfig(t *testing.T) *config.Config {
	cfg, err := config.GetWithCustomHome(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.EnsureDirs())
	return cfg
}

// countingRemote wraps the test registry, counting manifest requests
func countingRemote(t *testing.T, manifestGets *atomic.Int32) *remote.Remote {
	_, reg := testutil.StartRegistry(t)
	upstream := reg.Config.Handler
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/manifests/") {
			manifestGets.Add(1)
		}
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(counting.Close)
	return remote.NewWithCustomClient(counting.Listener.Addr().String(), &auth.Client{Client: counting.Client()}, true)
}

// manifestGate holds manifest requests, once armed, until release is closed
type manifestGate struct {
	armed   atomic.Bool
	once    sync.Once
	arrived chan struct{}
	release chan struct{}
}

func gatedRemote(t *testing.T, gate *manifestGate) *remote.Remote {
	_, reg := testutil.StartRegistry(t)
	upstream := reg.Config.Handler
	gated := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate.armed.Load() && r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/manifests/") {
			gate.once.Do(func() { close(gate.arrived) })
			<-gate.release
		}
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(gated.Close)
	return remote.NewWithCustomClient(gated.Listener.Addr().String(), &auth.Client{Client: gated.Client()}, true)
}

func TestResolveArtifact(t *testing.T) {
	ctx := testutil.Context(t)
	var manifestGets atomic.Int32
	r := countingRemote(t, &manifestGets)
	testutil.PushModule(t, ctx, r, owner, map[string][]byte{
		"lib.jar":         []byte("classes"),
		"lib-sources.jar": []byte("sources"),
	})
	manifestGets.Store(0)

	repo := New("remote", r, newConfig(t))

	var wg sync.WaitGroup
	paths := make([]string, 8)
	for i := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := metadata.ArtifactName{Name: "lib", Extension: "jar"}
			if i%2 == 1 {
				name.Classifier = "sources"
			}
			p, err := repo.ResolveArtifact(ctx, request(name))
			assert.NoError(t, err)
			paths[i] = p
		}()
	}
	wg.Wait()

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "classes", string(content))
	content, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "sources", string(content))
	assert.Equal(t, int32(1), manifestGets.Load())
}

func TestNotFound(t *testing.T) {
	ctx := testutil.Context(t)
	r, _ := testutil.StartRegistry(t)
	testutil.PushModule(t, ctx, r, owner, map[string][]byte{"lib.jar": []byte("classes")})
	repo := New("remote", r, newConfig(t))

	_, err := repo.ResolveArtifact(ctx, request(metadata.ArtifactName{Name: "lib", Extension: "pom"}))
	assert.ErrorIs(t, err, artifact.ErrArtifactNotFound)

	missing := coordinates.NewModuleVersion("com.example", "lib", "2.0")
	_, err = repo.ResolveArtifact(ctx, artifact.Request{
		ID:    metadata.NewArtifact(coordinates.ComponentFor(missing), metadata.ArtifactName{Name: "lib", Extension: "jar"}).ID,
		Owner: missing,
	})
	assert.ErrorIs(t, err, artifact.ErrArtifactNotFound)
}

func TestAnnotationMismatch(t *testing.T) {
	ctx := testutil.Context(t)
	r, _ := testutil.StartRegistry(t)
	module := oci.ModuleArtifact{Owner: owner}
	testutil.PushArtifacts(t, ctx, r, module.RepoName(), module.Tag(), map[string]string{
		oci.DescriptorVersionAnnotation: "1.1",
	}, map[string][]byte{"lib.jar": []byte("classes")})
	repo := New("remote", r, newConfig(t))

	_, err := repo.ResolveArtifact(ctx, request(metadata.ArtifactName{Name: "lib", Extension: "jar"}))
	assert.ErrorIs(t, err, oci.ErrAnnotationMismatch)
}

func TestCancelledCallerDoesNotFailSharedManifestFetch(t *testing.T) {
	ctx := testutil.Context(t)
	gate := &manifestGate{arrived: make(chan struct{}), release: make(chan struct{})}
	r := gatedRemote(t, gate)
	testutil.PushModule(t, ctx, r, owner, map[string][]byte{"lib.jar": []byte("classes")})
	gate.armed.Store(true)
	repo := New("remote", r, newConfig(t))
	name := metadata.ArtifactName{Name: "lib", Extension: "jar"}

	cancelled, cancel := context.WithCancel(ctx)
	first := make(chan error, 1)
	go func() {
		_, err := repo.ResolveArtifact(cancelled, request(name))
		first <- err
	}()
	<-gate.arrived

	type result struct {
		path string
		err  error
	}
	second := make(chan result, 1)
	go func() {
		p, err := repo.ResolveArtifact(ctx, request(name))
		second <- result{p, err}
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(gate.release)
	res := <-second
	require.NoError(t, res.err)
	data, err := os.ReadFile(res.path)
	require.NoError(t, err)
	assert.Equal(t, "classes", string(data))
}
