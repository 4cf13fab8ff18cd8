// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, v := range []string{OciRegistryEnvVar, RegistryAuthConfigPathEnvVar, AllowInsecureRegistryEnvVar, NetrcEnvVar, ResolveWorkersEnvVar} {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}
}

func writeConfig(t *testing.T, home, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(home, ConfigFileName), []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()

	config, err := GetWithCustomHome(home)
	require.NoError(t, err)

	assert.Equal(t, home, config.HomePath)
	assert.Equal(t, filepath.Join(home, "cache", "oci-layout"), config.OciLayoutCache)
	assert.Equal(t, filepath.Join(home, "cache", "artifacts"), config.ArtifactCache)
	assert.Equal(t, runtime.NumCPU(), config.Workers)
	assert.Empty(t, config.Repositories)

	require.NoError(t, config.EnsureDirs())
	assert.DirExists(t, config.ArtifactCache)
}

func TestConfigFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	writeConfig(t, home, `
registry: example.com/artifacts
workers: 3
repositories:
  - name: libs
    kind: local
    path: repo
  - name: remote
    kind: oci
artifact-types:
  - name: jar
    attributes:
      format: jar
`)

	config, err := GetWithCustomHome(home)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Workers)
	require.Len(t, config.Repositories, 2)

	libs, ok := config.Repository("libs")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, "repo"), libs.Path)

	remote, ok := config.Repository("remote")
	require.True(t, ok)
	assert.Equal(t, "example.com/artifacts", remote.Registry)

	require.Len(t, config.ArtifactTypes, 1)
	assert.Equal(t, "jar", config.ArtifactTypes[0].Attributes["format"])
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	writeConfig(t, home, "registry: example.com/artifacts\nworkers: 3\n")

	t.Setenv(OciRegistryEnvVar, "localhost:5000")
	t.Setenv(AllowInsecureRegistryEnvVar, "true")
	t.Setenv(ResolveWorkersEnvVar, "7")
	t.Setenv(NetrcEnvVar, "/somewhere/.netrc")

	config, err := GetWithCustomHome(home)
	require.NoError(t, err)
	assert.Equal(t, "localhost:5000", config.Registry)
	assert.True(t, config.Insecure)
	assert.Equal(t, 7, config.Workers)
	assert.Equal(t, "/somewhere/.netrc", config.NetrcPath)

	require.Len(t, config.Repositories, 1)
	assert.Equal(t, Repository{Name: DefaultRepositoryName, Kind: OciRepository, Registry: "localhost:5000", Insecure: true}, config.Repositories[0])
}

func TestInvalid(t *testing.T) {
	clearEnv(t)

	testCases := map[string]string{
		"unknown field":  "registri: typo\n",
		"duplicate repo": "repositories:\n  - {name: a, kind: local, path: x}\n  - {name: a, kind: local, path: y}\n",
		"unknown kind":   "repositories:\n  - {name: a, kind: ftp}\n",
		"oci no reg":     "repositories:\n  - {name: a, kind: oci}\n",
		"local no path":  "repositories:\n  - {name: a, kind: local}\n",
	}
	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, content)
			_, err := GetWithCustomHome(home)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("bad env var", func(t *testing.T) {
		t.Setenv(ResolveWorkersEnvVar, "many")
		_, err := GetWithCustomHome(t.TempDir())
		assert.Error(t, err)
	})
}
