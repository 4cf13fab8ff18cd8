// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package variant

import (
	"slices"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/metadata"
)

// ResolvedVariant is a selected, attribute- and capability-tagged group of artifacts of one component.
// It never changes once built.
type ResolvedVariant struct {
	id           *metadata.VariantIdentifier
	displayName  string
	attributes   attributes.Attributes
	capabilities capability.Capabilities
	artifacts    []*artifact.ResolvableArtifact
	owner        coordinates.ModuleVersionIdentifier
}

// NewAdHoc builds a variant that has no stable identity
func NewAdHoc(displayName string, attrs attributes.Attributes, caps capability.Capabilities, artifacts []*artifact.ResolvableArtifact, owner coordinates.ModuleVersionIdentifier) *ResolvedVariant {
	return &ResolvedVariant{
		displayName:  displayName,
		attributes:   attrs,
		capabilities: caps,
		artifacts:    slices.Clone(artifacts),
		owner:        owner,
	}
}

// Identifier is only set for variants shared through the session cache
func (v *ResolvedVariant) Identifier() (metadata.VariantIdentifier, bool) {
	if v.id == nil {
		return metadata.VariantIdentifier{}, false
	}
	return *v.id, true
}

func (v *ResolvedVariant) IsAdHoc() bool {
	return v.id == nil
}

func (v *ResolvedVariant) DisplayName() string {
	return v.displayName
}

func (v *ResolvedVariant) Attributes() attributes.Attributes {
	return v.attributes
}

func (v *ResolvedVariant) Capabilities() capability.Capabilities {
	return v.capabilities
}

func (v *ResolvedVariant) Artifacts() []*artifact.ResolvableArtifact {
	return slices.Clone(v.artifacts)
}

func (v *ResolvedVariant) Owner() coordinates.ModuleVersionIdentifier {
	return v.owner
}

func (v *ResolvedVariant) String() string {
	return v.displayName
}
