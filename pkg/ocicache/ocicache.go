// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ocicache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/errdef"
)

// Target serves content from an oci-layout directory, falling back to the source
// and keeping whatever it fetched from there. Tags are always resolved at the source.
type Target struct {
	oras.ReadOnlyTarget
	store *oci.Store
}

var _ oras.ReadOnlyTarget = (*Target)(nil)

func CachedTarget(src oras.ReadOnlyTarget, ociLayoutCache string) (*Target, error) {
	store, err := oci.New(ociLayoutCache)
	if err != nil {
		return nil, err
	}
	return &Target{ReadOnlyTarget: src, store: store}, nil
}

func (t *Target) Fetch(ctx context.Context, desc ocispec.Descriptor) (io.ReadCloser, error) {
	if ok, err := t.store.Exists(ctx, desc); err == nil && ok {
		slog.DebugContext(ctx, "oci cache hit", "digest", desc.Digest.String())
		return t.store.Fetch(ctx, desc)
	}

	// verifies size and digest
	data, err := content.FetchAll(ctx, t.ReadOnlyTarget, desc)
	if err != nil {
		return nil, err
	}
	if err := t.store.Push(ctx, desc, bytes.NewReader(data)); err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		// a broken cache only costs a refetch next time
		slog.WarnContext(ctx, "failed to cache oci content", "digest", desc.Digest.String(), "err", err.Error())
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (t *Target) Exists(ctx context.Context, desc ocispec.Descriptor) (bool, error) {
	if ok, err := t.store.Exists(ctx, desc); err == nil && ok {
		return true, nil
	}
	return t.ReadOnlyTarget.Exists(ctx, desc)
}
