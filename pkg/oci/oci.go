// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"errors"
	"fmt"
	"strings"

	"daml.com/x/artifacts/pkg/coordinates"
	"github.com/Masterminds/semver/v3"
)

const (
	ModuleArtifactType  = "application/vnd.digitalasset.module.artifact"
	ModuleFileMediaType = "application/vnd.digitalasset.module.file"

	DAAnnotationPrefix          = "com.digitalasset."
	DescriptorModuleAnnotation  = DAAnnotationPrefix + "module"
	DescriptorVersionAnnotation = DAAnnotationPrefix + "version"
)

var ErrAnnotationMismatch = errors.New("manifest annotations don't match the requested module")

// ModuleArtifact locates the publication of a module version: one repository per module
// (<group>/<name>), one tag per version, one layer per artifact file.
type ModuleArtifact struct {
	Owner coordinates.ModuleVersionIdentifier
}

func (a ModuleArtifact) RepoName() string {
	return strings.ToLower(a.Owner.Group + "/" + a.Owner.Name)
}

// Tag maps the version to a valid OCI tag, '+' being the only version character tags don't allow
func (a ModuleArtifact) Tag() string {
	return strings.ReplaceAll(a.Owner.Version, "+", "_")
}

func (a ModuleArtifact) ArtifactType() string  { return ModuleArtifactType }
func (a ModuleArtifact) FileMediaType() string { return ModuleFileMediaType }

// Annotations are set on the manifest, as tags alone lose the exact module coordinates
func (a ModuleArtifact) Annotations() map[string]string {
	return map[string]string{
		DescriptorModuleAnnotation:  a.Owner.Module().String(),
		DescriptorVersionAnnotation: a.Owner.Version,
	}
}

// Verify checks manifest annotations against the module. Manifests without annotations are accepted.
func (a ModuleArtifact) Verify(annotations map[string]string) error {
	if module, ok := annotations[DescriptorModuleAnnotation]; ok && module != a.Owner.Module().String() {
		return fmt.Errorf("%w: %s is annotated as module %q", ErrAnnotationMismatch, a.Owner, module)
	}
	if version, ok := annotations[DescriptorVersionAnnotation]; ok && !sameVersion(a.Owner, version) {
		return fmt.Errorf("%w: %s is annotated as version %q", ErrAnnotationMismatch, a.Owner, version)
	}
	return nil
}

// versions equal as semver (1.0 and 1.0.0) are the same, anything else must match exactly
func sameVersion(owner coordinates.ModuleVersionIdentifier, annotated string) bool {
	ov, ok := owner.SemVer()
	av, err := semver.NewVersion(annotated)
	if !ok || err != nil {
		return owner.Version == annotated
	}
	return ov.Equal(av)
}
