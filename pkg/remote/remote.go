// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/ocicache"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
	"oras.land/oras-go/v2/registry/remote/retry"
)

type Remote struct {
	// registry host, optionally followed by a path prefix for repositories
	Registry string
	client   *auth.Client

	// Use http instead of https.
	// This is merely a hint to consumers of Remote, and not something that is enforced by Client
	Insecure bool
}

func (r *Remote) Repo(repoName string) (repo *remote.Repository, err error) {
	repo, err = remote.NewRepository(fmt.Sprintf("%s/%s", strings.TrimSuffix(r.Registry, "/"), repoName))
	if err != nil {
		return nil, err
	}

	repo.Client = r
	repo.PlainHTTP = r.Insecure
	return
}

// CachedRepo is Repo with content served from the oci-layout cache when possible
func (r *Remote) CachedRepo(repoName, ociCache string) (*ocicache.Target, error) {
	repo, err := r.Repo(repoName)
	if err != nil {
		return nil, err
	}
	return ocicache.CachedTarget(repo, ociCache)
}

func NewWithCustomClient(registry string, client *auth.Client, insecure bool) *Remote {
	return &Remote{
		Registry: registry,
		client:   client,
		Insecure: insecure,
	}
}

// New creates a client authenticating with the docker style auth config at authConfigPath
// (docker's own when empty), then with the netrc file at netrcPath for hosts the former doesn't know.
func New(registry, authConfigPath, netrcPath string, insecure bool) (*Remote, error) {
	client := &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
	}
	client.SetUserAgent(config.UserAgent())

	var store credentials.Store
	if authConfigPath != "" {
		slog.Debug("using custom auth for registry", "path", authConfigPath)
		ds, err := credentials.NewStore(authConfigPath, credentials.StoreOptions{})
		if err != nil {
			return nil, err
		}
		store = newReadOnlyStore(ds)
	} else {
		slog.Debug("no custom registry auth provided. Will default to docker's if present on system")
		ds, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
		if err != nil {
			slog.Debug("failed to determine docker config to default to", "err", err.Error())
		} else {
			store = newReadOnlyStore(ds)
		}
	}
	client.Credential = credentialFunc(store, netrcPath)

	return &Remote{
		Registry: registry,
		client:   client,
		Insecure: insecure,
	}, nil
}

var _ remote.Client = (*Remote)(nil)

func (c *Remote) Do(req *http.Request) (*http.Response, error) {
	slog.Debug("OCI request", "method", req.Method, "url", req.URL.String())
	return c.client.Do(req)
}

func NewFromConfig(cfg *config.Config, repo config.Repository) (*Remote, error) {
	return New(repo.Registry, cfg.RegistryAuthPath, cfg.NetrcPath, repo.Insecure)
}
