// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocirepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/oci"
	"daml.com/x/artifacts/pkg/remote"
	"daml.com/x/artifacts/pkg/utils"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/errdef"
)

// Repo resolves artifacts published to an OCI registry: one repository per module
// (<registry>/<group>/<name>), one tag per version, one layer per artifact file.
// Layers are told apart by their title annotation.
type Repo struct {
	name   string
	remote *remote.Remote

	ociLayoutCache string
	artifactCache  string
	lockPath       string

	flights   singleflight.Group
	mu        sync.RWMutex
	manifests map[string]*ocispec.Manifest
}

func New(name string, r *remote.Remote, cfg *config.Config) *Repo {
	return &Repo{
		name:           name,
		remote:         r,
		ociLayoutCache: cfg.OciLayoutCache,
		artifactCache:  cfg.ArtifactCache,
		lockPath:       cfg.CacheLockPath,
		manifests:      map[string]*ocispec.Manifest{},
	}
}

func (r *Repo) Name() string {
	return r.name
}

func (r *Repo) ResolveArtifact(ctx context.Context, req artifact.Request) (string, error) {
	if req.Owner.IsZero() {
		return "", fmt.Errorf("%w: %s has no module coordinates", artifact.ErrArtifactNotFound, req.ID)
	}
	fileName := req.ID.Name.FileName()
	module := oci.ModuleArtifact{Owner: req.Owner}
	dest := filepath.Join(r.artifactCache, r.name, filepath.FromSlash(module.RepoName()), module.Tag(), fileName)

	ok, err := utils.FileExists(dest)
	if err != nil {
		return "", err
	}
	if ok {
		slog.DebugContext(ctx, "artifact already cached", "artifact", req.ID.String(), "path", dest)
		return dest, nil
	}

	manifest, err := r.manifest(ctx, module)
	if err != nil {
		return "", err
	}
	layer, ok := lo.Find(manifest.Layers, func(d ocispec.Descriptor) bool {
		return d.Annotations[ocispec.AnnotationTitle] == fileName
	})
	if !ok {
		return "", fmt.Errorf("%w: %s:%s in %s has no layer titled %q", artifact.ErrArtifactNotFound, module.RepoName(), module.Tag(), r.name, fileName)
	}

	target, err := r.remote.CachedRepo(module.RepoName(), r.ociLayoutCache)
	if err != nil {
		return "", err
	}
	data, err := content.FetchAll(ctx, target, layer)
	if err != nil {
		return "", err
	}

	err = utils.WithLock(ctx, r.lockPath, func() error {
		return utils.WriteFileAtomic(dest, data)
	})
	if err != nil {
		return "", err
	}
	slog.DebugContext(ctx, "artifact fetched", "artifact", req.ID.String(), "digest", layer.Digest.String(), "path", dest)
	return dest, nil
}

// manifest fetches the manifest of a module version once, however many of its artifacts are requested.
// The fetch outlives a cancelled caller so the callers sharing it still get the manifest.
func (r *Repo) manifest(ctx context.Context, module oci.ModuleArtifact) (*ocispec.Manifest, error) {
	owner := module.Owner
	key := owner.String()
	r.mu.RLock()
	m, ok := r.manifests[key]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	flight := r.flights.DoChan(key, func() (any, error) {
		repo, err := r.remote.Repo(module.RepoName())
		if err != nil {
			return nil, err
		}
		_, data, err := oras.FetchBytes(fetchCtx, repo, module.Tag(), oras.DefaultFetchBytesOptions)
		if errors.Is(err, errdef.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s is not published to %s: %w", artifact.ErrArtifactNotFound, owner, r.name, err)
		} else if err != nil {
			return nil, err
		}

		var manifest ocispec.Manifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("malformed manifest for %s: %w", owner, err)
		}
		if err := module.Verify(manifest.Annotations); err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.manifests[key] = &manifest
		r.mu.Unlock()
		return &manifest, nil
	})

	select {
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ocispec.Manifest), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
