// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/remote"
	"daml.com/x/artifacts/pkg/repository/localrepo"
	"daml.com/x/artifacts/pkg/repository/ocirepo"
	"github.com/samber/lo"
)

// Repository is a named place artifacts are resolved from
type Repository interface {
	artifact.Resolver
	Name() string
}

var (
	_ Repository = (*localrepo.Repo)(nil)
	_ Repository = (*ocirepo.Repo)(nil)
)

// Router resolves an artifact from the repositories its component was found in first,
// then from every other repository in declaration order.
type Router struct {
	repos []Repository
}

var _ artifact.Resolver = (*Router)(nil)

func NewRouter(repos ...Repository) *Router {
	return &Router{repos: repos}
}

func FromConfig(cfg *config.Config) (*Router, error) {
	repos := make([]Repository, 0, len(cfg.Repositories))
	for _, r := range cfg.Repositories {
		switch r.Kind {
		case config.LocalRepository:
			repos = append(repos, localrepo.New(r.Name, r.Path))
		case config.OciRepository:
			client, err := remote.NewFromConfig(cfg, r)
			if err != nil {
				return nil, err
			}
			repos = append(repos, ocirepo.New(r.Name, client, cfg))
		default:
			return nil, fmt.Errorf("%w: repository %q has unsupported kind %q", config.ErrInvalidConfig, r.Name, r.Kind)
		}
	}
	return NewRouter(repos...), nil
}

func (r *Router) Names() []string {
	return lo.Map(r.repos, func(repo Repository, _ int) string { return repo.Name() })
}

func (r *Router) order(sources []string) []Repository {
	preferred := lo.FilterMap(sources, func(name string, _ int) (Repository, bool) {
		return lo.Find(r.repos, func(repo Repository) bool { return repo.Name() == name })
	})
	preferred = lo.Uniq(preferred)
	return append(preferred, lo.Without(r.repos, preferred...)...)
}

func (r *Router) ResolveArtifact(ctx context.Context, req artifact.Request) (string, error) {
	var tried []string
	for _, repo := range r.order(req.Sources.Repositories()) {
		p, err := repo.ResolveArtifact(ctx, req)
		if err == nil {
			slog.DebugContext(ctx, "artifact resolved", "artifact", req.ID.String(), "repository", repo.Name())
			return p, nil
		}
		if !errors.Is(err, artifact.ErrArtifactNotFound) {
			return "", fmt.Errorf("repository %q: %w", repo.Name(), err)
		}
		tried = append(tried, repo.Name())
	}
	return "", fmt.Errorf("%w: %s in any of %v", artifact.ErrArtifactNotFound, req.ID, tried)
}
