// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"errors"

	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/coordinates"
)

var ErrMissingField = errors.New("a required metadata field is missing")

// ModuleSource records where a component's metadata was found, so its artifacts can be fetched from the same place
type ModuleSource struct {
	Repository string `yaml:"repository"`
}

type ModuleSources []ModuleSource

func (s ModuleSources) Repositories() []string {
	names := make([]string, 0, len(s))
	for _, src := range s {
		names = append(names, src.Repository)
	}
	return names
}

type ComponentResolveMetadata struct {
	ID              coordinates.ComponentIdentifier
	ModuleVersionID coordinates.ModuleVersionIdentifier
	Attributes      attributes.Attributes
	Schema          attributes.Schema
	Sources         ModuleSources
}

func NewComponent(id coordinates.ModuleVersionIdentifier) *ComponentResolveMetadata {
	return &ComponentResolveMetadata{
		ID:              coordinates.ComponentFor(id),
		ModuleVersionID: id,
	}
}

// VariantIdentifier is the stable identity of a published variant
type VariantIdentifier struct {
	Component coordinates.ComponentIdentifier
	Name      string
}

func (id VariantIdentifier) String() string {
	return id.Component.String() + "#" + id.Name
}

type VariantResolveMetadata struct {
	Name string
	// nil for variants without a stable identity
	ID *VariantIdentifier
	// nil only for malformed metadata
	Attributes   *attributes.Attributes
	Artifacts    []ComponentArtifactMetadata
	Capabilities []capability.Capability
}

func (v *VariantResolveMetadata) DisplayName() string {
	if v.ID != nil {
		return v.ID.String()
	}
	return v.Name
}

// LocalFileDependencyMetadata is a dependency on files outside any repository
type LocalFileDependencyMetadata struct {
	// component declaring the dependency, may be empty
	Owner      coordinates.ComponentIdentifier
	Files      []string
	Attributes attributes.Attributes
}
