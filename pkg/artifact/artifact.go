// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/metadata"
)

var ErrArtifactNotFound = errors.New("artifact not found")

// Request carries what a Resolver needs to locate the file of an artifact
type Request struct {
	ID      metadata.ArtifactIdentifier
	Owner   coordinates.ModuleVersionIdentifier
	Sources metadata.ModuleSources
}

// Resolver materializes artifacts into local files. Implementations own all I/O.
type Resolver interface {
	ResolveArtifact(ctx context.Context, req Request) (string, error)
}

type ResolverFunc func(ctx context.Context, req Request) (string, error)

func (f ResolverFunc) ResolveArtifact(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ResolvableArtifact is a handle on one physical artifact whose file is resolved lazily.
// The file is resolved at most once, the first caller's result (file or error) is kept for everyone else.
// Context errors aren't kept: the next caller resolves again.
type ResolvableArtifact struct {
	req      Request
	resolver Resolver

	mu       sync.Mutex
	resolved chan struct{}
	done     bool
	path     string
	err      error
}

func NewResolvable(req Request, resolver Resolver) *ResolvableArtifact {
	return &ResolvableArtifact{req: req, resolver: resolver}
}

func (a *ResolvableArtifact) ID() metadata.ArtifactIdentifier {
	return a.req.ID
}

func (a *ResolvableArtifact) Name() metadata.ArtifactName {
	return a.req.ID.Name
}

func (a *ResolvableArtifact) Owner() coordinates.ModuleVersionIdentifier {
	return a.req.Owner
}

func (a *ResolvableArtifact) Sources() metadata.ModuleSources {
	return a.req.Sources
}

// File resolves the artifact's file. Errors from the Resolver are returned as is.
// Callers waiting on another caller's resolution give up when their own ctx is done.
func (a *ResolvableArtifact) File(ctx context.Context) (string, error) {
	for {
		a.mu.Lock()
		if a.done {
			path, err := a.path, a.err
			a.mu.Unlock()
			return path, err
		}
		if err := ctx.Err(); err != nil {
			a.mu.Unlock()
			return "", err
		}
		if wait := a.resolved; wait != nil {
			a.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		wait := make(chan struct{})
		a.resolved = wait
		a.mu.Unlock()

		return a.resolve(ctx, wait)
	}
}

func (a *ResolvableArtifact) resolve(ctx context.Context, wait chan struct{}) (string, error) {
	slog.DebugContext(ctx, "resolving artifact", "artifact", a.req.ID.String())
	path, err := a.resolver.ResolveArtifact(ctx, a.req)

	a.mu.Lock()
	a.resolved = nil
	if err == nil || !isContextError(ctx, err) {
		a.path, a.err, a.done = path, err, true
	}
	a.mu.Unlock()
	close(wait)
	return path, err
}

func isContextError(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (a *ResolvableArtifact) String() string {
	return a.req.ID.String()
}
