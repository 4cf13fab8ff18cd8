// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package variant

import (
	"errors"
	"fmt"
	"log/slog"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/exclude"
	"daml.com/x/artifacts/pkg/metadata"
	"github.com/samber/lo"
)

var ErrInconsistentMetadata = errors.New("inconsistent component metadata")

// AttributeMapper normalizes variant attributes from the artifacts the variant publishes
type AttributeMapper interface {
	MapAttributesFor(base attributes.Attributes, artifacts []metadata.ArtifactName) attributes.Attributes
}

// Cache holds the identity tables of a resolution session
type Cache interface {
	Artifact(id metadata.ArtifactIdentifier, create func() *artifact.ResolvableArtifact) *artifact.ResolvableArtifact
	Variant(id metadata.VariantIdentifier, create func() (*ResolvedVariant, error)) (*ResolvedVariant, error)
}

// Builder turns variant metadata into ResolvedVariants, sharing them through a Cache whenever
// the variant has a stable identity that the exclusions leave intact.
type Builder struct {
	mapper   AttributeMapper
	resolver artifact.Resolver
}

func NewBuilder(mapper AttributeMapper, resolver artifact.Resolver) *Builder {
	return &Builder{mapper: mapper, resolver: resolver}
}

func (b *Builder) Resolve(cache Cache, component *metadata.ComponentResolveMetadata, v *metadata.VariantResolveMetadata, exclusions exclude.Spec) (*ResolvedVariant, error) {
	if v.Attributes == nil {
		return nil, fmt.Errorf("%w: variant %q of %s has no attributes", ErrInconsistentMetadata, v.DisplayName(), component.ID)
	}
	if err := checkOwnership(component, v.Artifacts); err != nil {
		return nil, err
	}

	kept, excluded := exclude.Filter(v.Artifacts, component.ModuleVersionID.Module(), exclusions)

	// the excluded artifact set is not what the identity stands for, so it must not be cached under it
	if excluded || v.ID == nil {
		slog.Debug("building ad hoc variant", "component", component.ID.String(), "variant", v.DisplayName(), "excluded", excluded)
		return b.create(cache, component, v, kept, nil)
	}

	id := *v.ID
	return cache.Variant(id, func() (*ResolvedVariant, error) {
		slog.Debug("building variant", "component", component.ID.String(), "variant", id.String())
		return b.create(cache, component, v, kept, &id)
	})
}

func (b *Builder) create(cache Cache, component *metadata.ComponentResolveMetadata, v *metadata.VariantResolveMetadata, kept []metadata.ComponentArtifactMetadata, id *metadata.VariantIdentifier) (*ResolvedVariant, error) {
	// attributes are derived from everything the variant publishes, not just what survived exclusion
	attrs := b.mapper.MapAttributesFor(*v.Attributes, metadata.Names(v.Artifacts))

	handles := b.Artifacts(cache, component, kept)

	return &ResolvedVariant{
		id:           id,
		displayName:  v.DisplayName(),
		attributes:   attrs,
		capabilities: capability.WithImplicit(v.Capabilities, component.ModuleVersionID),
		artifacts:    handles,
		owner:        component.ModuleVersionID,
	}, nil
}

// AdHoc builds an uncached variant directly from an explicit artifact list
func (b *Builder) AdHoc(cache Cache, component *metadata.ComponentResolveMetadata, displayName string, artifacts []metadata.ComponentArtifactMetadata) (*ResolvedVariant, error) {
	if err := checkOwnership(component, artifacts); err != nil {
		return nil, err
	}
	handles := b.Artifacts(cache, component, artifacts)
	attrs := b.mapper.MapAttributesFor(component.Attributes, metadata.Names(artifacts))
	return NewAdHoc(displayName, attrs, capability.WithImplicit(nil, component.ModuleVersionID), handles, component.ModuleVersionID), nil
}

// Artifacts returns the session's handle for every artifact, creating the missing ones
func (b *Builder) Artifacts(cache Cache, component *metadata.ComponentResolveMetadata, artifacts []metadata.ComponentArtifactMetadata) []*artifact.ResolvableArtifact {
	return lo.Map(artifacts, func(a metadata.ComponentArtifactMetadata, _ int) *artifact.ResolvableArtifact {
		return cache.Artifact(a.ID, func() *artifact.ResolvableArtifact {
			return artifact.NewResolvable(artifact.Request{
				ID:      a.ID,
				Owner:   component.ModuleVersionID,
				Sources: component.Sources,
			}, b.resolver)
		})
	})
}

func checkOwnership(component *metadata.ComponentResolveMetadata, artifacts []metadata.ComponentArtifactMetadata) error {
	for _, a := range artifacts {
		if a.ID.Component != component.ID {
			return fmt.Errorf("%w: artifact %s is not owned by %s", ErrInconsistentMetadata, a.ID, component.ID)
		}
	}
	return nil
}
