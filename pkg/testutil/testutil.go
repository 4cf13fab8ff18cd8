// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/oci"
	"daml.com/x/artifacts/pkg/remote"
	"daml.com/x/artifacts/pkg/utils"
	"github.com/google/go-containerregistry/pkg/registry"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/registry/remote/auth"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

func getRemote(registry *httptest.Server) *remote.Remote {
	prefix := "http://"
	insecure := strings.HasPrefix(registry.URL, prefix)
	if !insecure {
		prefix = "https://"
	}
	return remote.NewWithCustomClient(strings.TrimPrefix(registry.URL, prefix), &auth.Client{Client: registry.Client()}, insecure)
}

// StartRegistry runs an in-memory OCI registry and points the env at it
func StartRegistry(t *testing.T) (client *remote.Remote, reg *httptest.Server) {
	reg = httptest.NewServer(registry.New())
	t.Cleanup(func() { reg.Close() })
	regUrl := strings.TrimPrefix(reg.URL, "http://")

	t.Setenv(config.OciRegistryEnvVar, regUrl)
	t.Setenv(config.RegistryAuthConfigPathEnvVar, TestdataPath(t, "empty-docker-config.json"))
	t.Setenv(config.AllowInsecureRegistryEnvVar, "true")
	t.Setenv(config.NetrcEnvVar, "")

	return getRemote(reg), reg
}

// PushModule publishes files (file name -> content) the way a module version is laid out in a registry
func PushModule(t *testing.T, ctx context.Context, r *remote.Remote, owner coordinates.ModuleVersionIdentifier, files map[string][]byte) ocispec.Descriptor {
	module := oci.ModuleArtifact{Owner: owner}
	return PushArtifacts(t, ctx, r, module.RepoName(), module.Tag(), module.Annotations(), files)
}

// PushArtifacts publishes files as the layers of one tagged manifest
func PushArtifacts(t *testing.T, ctx context.Context, r *remote.Remote, repoName, tag string, annotations map[string]string, files map[string][]byte) ocispec.Descriptor {
	repo, err := r.Repo(repoName)
	require.NoError(t, err)

	names := lo.Keys(files)
	slices.Sort(names)
	layers := lo.Map(names, func(name string, _ int) ocispec.Descriptor {
		desc, err := oras.PushBytes(ctx, repo, oci.ModuleFileMediaType, files[name])
		require.NoError(t, err)
		desc.Annotations = map[string]string{ocispec.AnnotationTitle: name}
		return desc
	})

	manifest, err := oras.PackManifest(ctx, repo, oras.PackManifestVersion1_1, oci.ModuleArtifactType, oras.PackManifestOptions{
		Layers:              layers,
		ManifestAnnotations: annotations,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Tag(ctx, manifest, tag))
	return manifest
}

type CommonSetupSuite struct {
	suite.Suite
}

func (suite *CommonSetupSuite) SetupTest() {
	// every test gets its own DPM_HOME instead of the user's ~/.dpm
	home, deleteFn, err := utils.MkdirTemp("", "")
	suite.Require().NoError(err)
	suite.T().Setenv(config.HomeEnvVar, home)
	suite.T().Cleanup(func() {
		_ = deleteFn()
	})
}

// WriteFile writes a file under dir, creating parent directories
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, utils.EnsureDirs(filepath.Dir(p)))
	require.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}
