// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifactset

import (
	"context"
	"fmt"
	"runtime"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/variant"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Kind string

const (
	Variants       Kind = "variants"
	AdHoc          Kind = "ad-hoc"
	FileDependency Kind = "files"
)

// ArtifactSet is what a resolution request hands back: candidate variants a consumer matches
// attributes against, and whose files it eventually materializes.
type ArtifactSet interface {
	Kind() Kind
	Candidates() []*variant.ResolvedVariant
	// Attributes of a candidate as seen by consumers, i.e. with the request's overrides applied
	Attributes(v *variant.ResolvedVariant) attributes.Attributes
	Select(requested attributes.Attributes) []*variant.ResolvedVariant
	// Matching is the set narrowed down to the candidates Select returns
	Matching(requested attributes.Attributes) ArtifactSet
	Files(ctx context.Context) ([]ResolvedFile, error)
	String() string
}

type ResolvedFile struct {
	ID      metadata.ArtifactIdentifier
	Variant string
	Path    string
}

type set struct {
	kind        Kind
	description string
	candidates  []*variant.ResolvedVariant
	overrides   attributes.Attributes
	schema      attributes.Schema
}

func New(kind Kind, description string, candidates []*variant.ResolvedVariant, overrides attributes.Attributes, schema attributes.Schema) ArtifactSet {
	return &set{
		kind:        kind,
		description: description,
		candidates:  lo.Uniq(candidates),
		overrides:   overrides,
		schema:      schema,
	}
}

func (s *set) Kind() Kind {
	return s.kind
}

func (s *set) Candidates() []*variant.ResolvedVariant {
	return s.candidates
}

func (s *set) Attributes(v *variant.ResolvedVariant) attributes.Attributes {
	return v.Attributes().Concat(s.overrides)
}

func (s *set) Select(requested attributes.Attributes) []*variant.ResolvedVariant {
	return lo.Filter(s.candidates, func(v *variant.ResolvedVariant, _ int) bool {
		return s.schema.Matches(s.Attributes(v), requested)
	})
}

func (s *set) Matching(requested attributes.Attributes) ArtifactSet {
	narrowed := *s
	narrowed.candidates = s.Select(requested)
	return &narrowed
}

// Files resolves each distinct artifact of the candidates, concurrently. The first failure fails the
// whole set and is returned as the resolver produced it.
func (s *set) Files(ctx context.Context) ([]ResolvedFile, error) {
	type entry struct {
		handle  *artifact.ResolvableArtifact
		variant string
	}
	entries := lo.UniqBy(lo.FlatMap(s.candidates, func(v *variant.ResolvedVariant, _ int) []entry {
		return lo.Map(v.Artifacts(), func(a *artifact.ResolvableArtifact, _ int) entry {
			return entry{handle: a, variant: v.DisplayName()}
		})
	}), func(e entry) *artifact.ResolvableArtifact {
		return e.handle
	})

	files := make([]ResolvedFile, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range entries {
		g.Go(func() error {
			p, err := e.handle.File(gctx)
			if err != nil {
				return err
			}
			files[i] = ResolvedFile{ID: e.handle.ID(), Variant: e.variant, Path: p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *set) String() string {
	return fmt.Sprintf("%s artifacts of %s", s.kind, s.description)
}
