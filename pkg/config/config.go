// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"daml.com/x/artifacts/pkg/artifacttype"
	"daml.com/x/artifacts/pkg/utils"
	"daml.com/x/artifacts/pkg/version"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Repository is a place artifacts are resolved from
type Repository struct {
	Name string `yaml:"name"`
	// one of "local", "oci"
	Kind string `yaml:"kind"`

	// local: root of a maven style directory layout, relative to the home dir unless absolute
	Path string `yaml:"path,omitempty"`

	// oci: registry (and optional path prefix) hosting the artifacts. Defaults to the top-level registry
	Registry string `yaml:"registry,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

type Config struct {
	HomePath string `yaml:"-"`

	CachePath string `yaml:"-"`
	// oci-layout dir containing raw pulled blobs
	OciLayoutCache string `yaml:"-"`
	// materialized artifact files, laid out per module version
	ArtifactCache string `yaml:"-"`
	CacheLockPath string `yaml:"-"`

	Registry         string `yaml:"registry,omitempty"`
	RegistryAuthPath string `yaml:"registry-auth-path,omitempty"`
	Insecure         bool   `yaml:"insecure,omitempty"`
	NetrcPath        string `yaml:"netrc,omitempty"`

	// max graph nodes resolved concurrently
	Workers int `yaml:"workers,omitempty"`

	Repositories  []Repository              `yaml:"repositories,omitempty"`
	ArtifactTypes []artifacttype.Definition `yaml:"artifact-types,omitempty"`
}

func (c *Config) EnsureDirs() error {
	return utils.EnsureDirs(c.HomePath, c.OciLayoutCache, c.ArtifactCache)
}

func (c *Config) Repository(name string) (Repository, bool) {
	return lo.Find(c.Repositories, func(r Repository) bool {
		return r.Name == name
	})
}

func Get() (*Config, error) {
	homePath, err := getHomePath()
	if err != nil {
		return nil, err
	}
	return GetWithCustomHome(homePath)
}

func GetWithCustomHome(homePath string) (*Config, error) {
	config := Config{}

	// dpm-config.yaml is optional
	configFilePath := filepath.Join(homePath, ConfigFileName)
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		if fileInfo.IsDir() {
			return nil, fmt.Errorf("%q is directory and not a file", configFilePath)
		}

		bytes, err := os.ReadFile(configFilePath)
		if err != nil {
			return nil, err
		}

		if err := yaml.UnmarshalWithOptions(bytes, &config, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, configFilePath, err)
		}
	}

	if registry, ok := os.LookupEnv(OciRegistryEnvVar); ok {
		config.Registry = registry
	}

	if registryAuthPath, ok := os.LookupEnv(RegistryAuthConfigPathEnvVar); ok {
		config.RegistryAuthPath = registryAuthPath
	}

	insecure, ok, err := utils.BoolEnvVar(AllowInsecureRegistryEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.Insecure = insecure
	}

	if netrcPath, ok := os.LookupEnv(NetrcEnvVar); ok {
		config.NetrcPath = netrcPath
	} else if config.NetrcPath == "" {
		if home, ok := os.LookupEnv("HOME"); ok {
			config.NetrcPath = filepath.Join(home, ".netrc")
		}
	}

	workers, ok, err := utils.IntEnvVar(ResolveWorkersEnvVar)
	if err != nil {
		return nil, err
	}
	if ok {
		config.Workers = workers
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	config.Repositories = lo.Map(config.Repositories, func(r Repository, _ int) Repository {
		if r.Kind == LocalRepository && r.Path != "" {
			r.Path = utils.ResolvePath(homePath, r.Path)
		}
		if r.Kind == OciRepository {
			if r.Registry == "" {
				r.Registry = config.Registry
			}
			r.Insecure = r.Insecure || config.Insecure
		}
		return r
	})
	if len(config.Repositories) == 0 && config.Registry != "" {
		config.Repositories = []Repository{{
			Name:     DefaultRepositoryName,
			Kind:     OciRepository,
			Registry: config.Registry,
			Insecure: config.Insecure,
		}}
	}
	if err := validateRepositories(config.Repositories); err != nil {
		return nil, err
	}

	cacheDir := filepath.Join(homePath, "cache")
	config.HomePath = homePath
	config.CachePath = cacheDir
	config.OciLayoutCache = filepath.Join(cacheDir, "oci-layout")
	config.ArtifactCache = filepath.Join(cacheDir, "artifacts")
	config.CacheLockPath = filepath.Join(cacheDir, ".lock")
	return &config, nil
}

func validateRepositories(repos []Repository) error {
	var errs []error
	seen := map[string]bool{}
	for i, r := range repos {
		switch {
		case r.Name == "":
			errs = append(errs, fmt.Errorf("repository #%d is missing a 'name'", i+1))
		case seen[r.Name]:
			errs = append(errs, fmt.Errorf("repository %q is declared more than once", r.Name))
		}
		seen[r.Name] = true

		switch r.Kind {
		case LocalRepository:
			if r.Path == "" {
				errs = append(errs, fmt.Errorf("local repository %q is missing a 'path'", r.Name))
			}
		case OciRepository:
			if r.Registry == "" {
				errs = append(errs, fmt.Errorf("oci repository %q has no 'registry' and %s isn't set", r.Name, OciRegistryEnvVar))
			}
		default:
			errs = append(errs, fmt.Errorf("repository %q has unsupported kind %q. expected one of (%s, %s)", r.Name, r.Kind, LocalRepository, OciRepository))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func getHomePath() (string, error) {
	if v, ok := os.LookupEnv(HomeEnvVar); ok {
		return v, nil
	}

	return getAppUserDataDirectory("dpm")
}

func getAppUserDataDirectory(appName string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, ok := os.LookupEnv("APPDATA")
		if !ok {
			return "", fmt.Errorf("APPDATA environment variable is not set")
		}
		return filepath.Join(dir, appName), nil
	default:
		dir, ok := os.LookupEnv("HOME")
		if !ok {
			return "", fmt.Errorf("HOME environment variable is not set")
		}
		return filepath.Join(dir, "."+appName), nil
	}
}

func UserAgent() string {
	return version.UserAgent(UserAgentPrefix)
}
