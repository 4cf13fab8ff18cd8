// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package selector

import (
	"errors"
	"fmt"
	"log/slog"

	"daml.com/x/artifacts/pkg/artifactset"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/exclude"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/variant"
)

var ErrNoArtifactsSelected = errors.New("no artifacts selected")

// MatchResult is what a selector answers for a component: either a set it takes responsibility for,
// or a decline that lets the next selector in the chain try.
type MatchResult struct {
	set     artifactset.ArtifactSet
	matched bool
}

func Matched(set artifactset.ArtifactSet) MatchResult {
	return MatchResult{set: set, matched: set != nil}
}

func Declined() MatchResult {
	return MatchResult{}
}

func (r MatchResult) Get() (artifactset.ArtifactSet, bool) {
	return r.set, r.matched
}

func (r MatchResult) IsMatched() bool {
	return r.matched
}

// OriginArtifactSelector decides which artifacts of a component a consumer gets
type OriginArtifactSelector interface {
	ResolveArtifacts(component *metadata.ComponentResolveMetadata, allVariants, legacyVariants []*variant.ResolvedVariant, exclusions exclude.Spec, overrides attributes.Attributes) MatchResult
}

type Func func(component *metadata.ComponentResolveMetadata, allVariants, legacyVariants []*variant.ResolvedVariant, exclusions exclude.Spec, overrides attributes.Attributes) MatchResult

func (f Func) ResolveArtifacts(component *metadata.ComponentResolveMetadata, allVariants, legacyVariants []*variant.ResolvedVariant, exclusions exclude.Spec, overrides attributes.Attributes) MatchResult {
	return f(component, allVariants, legacyVariants, exclusions, overrides)
}

// Chain asks its selectors in order. The first match wins and the rest are not consulted.
type Chain []OriginArtifactSelector

func NewChain(selectors ...OriginArtifactSelector) Chain {
	return Chain(selectors)
}

func (c Chain) Select(component *metadata.ComponentResolveMetadata, allVariants, legacyVariants []*variant.ResolvedVariant, exclusions exclude.Spec, overrides attributes.Attributes) (artifactset.ArtifactSet, error) {
	for i, s := range c {
		if set, ok := s.ResolveArtifacts(component, allVariants, legacyVariants, exclusions, overrides).Get(); ok {
			slog.Debug("artifacts selected", "component", component.ID.String(), "selector", i, "set", set.String())
			return set, nil
		}
	}
	return nil, fmt.Errorf("%w for %s: %d selector(s) declined", ErrNoArtifactsSelected, component.ID, len(c))
}

// VariantAware selects the component's variants whenever it publishes any
func VariantAware() OriginArtifactSelector {
	return Func(func(component *metadata.ComponentResolveMetadata, allVariants, _ []*variant.ResolvedVariant, _ exclude.Spec, overrides attributes.Attributes) MatchResult {
		if len(allVariants) == 0 {
			return Declined()
		}
		return Matched(artifactset.New(artifactset.Variants, component.ID.String(), allVariants, overrides, component.Schema))
	})
}

// Legacy selects the variants derived from pre-variant metadata
func Legacy() OriginArtifactSelector {
	return Func(func(component *metadata.ComponentResolveMetadata, _, legacyVariants []*variant.ResolvedVariant, _ exclude.Spec, overrides attributes.Attributes) MatchResult {
		if len(legacyVariants) == 0 {
			return Declined()
		}
		return Matched(artifactset.New(artifactset.Variants, component.ID.String()+" (legacy)", legacyVariants, overrides, component.Schema))
	})
}

// Default is the variant aware selector falling back to legacy metadata
func Default() Chain {
	return NewChain(VariantAware(), Legacy())
}
