// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/artifactset"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/exclude"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/selector"
	"daml.com/x/artifacts/pkg/session"
	"daml.com/x/artifacts/pkg/variant"
	"github.com/samber/lo"
)

// ArtifactSelector is the entry point of artifact resolution for the components of a dependency graph.
// It holds no per-resolution state; everything shared between requests lives in the session passed in.
type ArtifactSelector struct {
	builder *variant.Builder
	mapper  variant.AttributeMapper
	chain   selector.Chain
}

func New(mapper variant.AttributeMapper, resolver artifact.Resolver, chain selector.Chain) *ArtifactSelector {
	return &ArtifactSelector{
		builder: variant.NewBuilder(mapper, resolver),
		mapper:  mapper,
		chain:   chain,
	}
}

// ResolveComponentArtifacts selects an explicit list of artifacts of the component, bypassing its variants
func (s *ArtifactSelector) ResolveComponentArtifacts(sess *session.Session, component *metadata.ComponentResolveMetadata, artifacts []metadata.ComponentArtifactMetadata, overrides attributes.Attributes) (artifactset.ArtifactSet, error) {
	v, err := s.builder.AdHoc(sess, component, component.ID.String()+" artifacts", artifacts)
	if err != nil {
		return nil, err
	}
	return artifactset.New(artifactset.AdHoc, component.ID.String(), []*variant.ResolvedVariant{v}, overrides, component.Schema), nil
}

// ResolveLocalArtifacts exposes each file of the dependency as its own artifact
func (s *ArtifactSelector) ResolveLocalArtifacts(sess *session.Session, dep *metadata.LocalFileDependencyMetadata) artifactset.ArtifactSet {
	candidates := make([]*variant.ResolvedVariant, 0, len(dep.Files))
	for _, f := range dep.Files {
		path := filepath.Clean(f)
		id := metadata.ArtifactIdentifier{
			Component: coordinates.ComponentIdentifier(path),
			Name:      fileArtifactName(path),
		}
		h := sess.Artifact(id, func() *artifact.ResolvableArtifact {
			return artifact.NewResolvable(artifact.Request{ID: id}, localFile)
		})
		attrs := s.mapper.MapAttributesFor(dep.Attributes, []metadata.ArtifactName{id.Name})
		candidates = append(candidates, variant.NewAdHoc(path, attrs, capability.Of(), []*artifact.ResolvableArtifact{h}, coordinates.ModuleVersionIdentifier{}))
	}
	return artifactset.New(artifactset.FileDependency, cmp.Or(dep.Owner.String(), "local files"), candidates, attributes.Empty(), nil)
}

// ResolveVariants builds every variant of the component, reusing the session's instances where the
// variant's identity allows it. The result is free of duplicate instances.
func (s *ArtifactSelector) ResolveVariants(sess *session.Session, component *metadata.ComponentResolveMetadata, variants []*metadata.VariantResolveMetadata, exclusions exclude.Spec) ([]*variant.ResolvedVariant, error) {
	resolved := make([]*variant.ResolvedVariant, 0, len(variants))
	for _, v := range variants {
		rv, err := s.builder.Resolve(sess, component, v, exclusions)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, rv)
	}
	return lo.Uniq(resolved), nil
}

// ResolveArtifacts resolves both variant views of the component and lets the selector chain pick
func (s *ArtifactSelector) ResolveArtifacts(sess *session.Session, component *metadata.ComponentResolveMetadata, allVariants, legacyVariants []*metadata.VariantResolveMetadata, exclusions exclude.Spec, overrides attributes.Attributes) (artifactset.ArtifactSet, error) {
	all, err := s.ResolveVariants(sess, component, allVariants, exclusions)
	if err != nil {
		return nil, err
	}
	legacy, err := s.ResolveVariants(sess, component, legacyVariants, exclusions)
	if err != nil {
		return nil, err
	}
	return s.chain.Select(component, all, legacy, exclusions, overrides)
}

func fileArtifactName(path string) metadata.ArtifactName {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	return metadata.ArtifactName{
		Name:      strings.TrimSuffix(base, filepath.Ext(base)),
		Extension: ext,
	}
}

var localFile = artifact.ResolverFunc(func(_ context.Context, req artifact.Request) (string, error) {
	path := req.ID.Component.String()
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %w", artifact.ErrArtifactNotFound, err)
	}
	return path, nil
})
