// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"context"
	"errors"

	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/resolution"
	"daml.com/x/artifacts/pkg/resolver"
	"daml.com/x/artifacts/pkg/schema"
)

// ResolveFile loads the graph at path and walks it with the configured repositories and artifact types.
// Workers default to the configured ones. A graph that doesn't decode or compile fails with a MALFORMED_GRAPH error.
func ResolveFile(ctx context.Context, cfg *config.Config, path string, opts WalkOptions) (*resolution.Report, error) {
	g, err := Load(path)
	if errors.Is(err, ErrMalformedGraph) || errors.Is(err, schema.ErrSchema) {
		return nil, resolution.NewMalformedGraphError(err)
	} else if err != nil {
		return nil, err
	}
	selector, err := resolver.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = cfg.Workers
	}
	return Walk(ctx, selector, g, opts)
}
