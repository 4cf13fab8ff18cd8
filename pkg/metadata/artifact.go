// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"cmp"
	"fmt"

	"daml.com/x/artifacts/pkg/coordinates"
	"github.com/goccy/go-yaml"
)

// ArtifactName describes one published file of a module
type ArtifactName struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type,omitempty"`
	Extension  string `yaml:"extension,omitempty"`
	Classifier string `yaml:"classifier,omitempty"`
}

// EffectiveType falls back to the extension when no explicit type was published
func (n ArtifactName) EffectiveType() string {
	return cmp.Or(n.Type, n.Extension)
}

// FileName is the conventional repository file name, e.g. lib-1.0-sources.jar minus the version
func (n ArtifactName) FileName() string {
	s := n.Name
	if n.Classifier != "" {
		s += "-" + n.Classifier
	}
	if ext := cmp.Or(n.Extension, n.Type); ext != "" {
		s += "." + ext
	}
	return s
}

func (n ArtifactName) String() string {
	return n.FileName()
}

func (n *ArtifactName) UnmarshalYAML(data []byte) error {
	type alias ArtifactName
	var a alias
	if err := yaml.UnmarshalWithOptions(data, &a, yaml.Strict()); err != nil {
		return err
	}
	if a.Name == "" {
		return fmt.Errorf("%w: artifact 'name'", ErrMissingField)
	}
	*n = ArtifactName(a)
	return nil
}

var _ yaml.BytesUnmarshaler = (*ArtifactName)(nil)

// ArtifactIdentifier is the identity of one physical artifact belonging to a component.
// Two artifacts with equal identifiers are the same file.
type ArtifactIdentifier struct {
	Component coordinates.ComponentIdentifier
	Name      ArtifactName
}

func (id ArtifactIdentifier) String() string {
	return fmt.Sprintf("%s (%s)", id.Name.FileName(), id.Component)
}

type ComponentArtifactMetadata struct {
	ID ArtifactIdentifier
}

func NewArtifact(component coordinates.ComponentIdentifier, name ArtifactName) ComponentArtifactMetadata {
	return ComponentArtifactMetadata{ID: ArtifactIdentifier{Component: component, Name: name}}
}

func (a ComponentArtifactMetadata) Name() ArtifactName {
	return a.ID.Name
}

func Names(artifacts []ComponentArtifactMetadata) []ArtifactName {
	names := make([]ArtifactName, len(artifacts))
	for i, a := range artifacts {
		names[i] = a.Name()
	}
	return names
}
