// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"testing"

	"daml.com/x/artifacts/pkg/coordinates"
	"github.com/stretchr/testify/assert"
)

func TestNaming(t *testing.T) {
	a := ModuleArtifact{Owner: coordinates.NewModuleVersion("com.example", "lib", "1.0+build.7")}
	assert.Equal(t, "com.example/lib", a.RepoName())
	assert.Equal(t, "1.0_build.7", a.Tag())

	mixed := ModuleArtifact{Owner: coordinates.NewModuleVersion("org.acme", "MixedCase", "1")}
	assert.Equal(t, "org.acme/mixedcase", mixed.RepoName())
}

func TestVerify(t *testing.T) {
	a := ModuleArtifact{Owner: coordinates.NewModuleVersion("com.example", "lib", "1.0")}

	assert.NoError(t, a.Verify(nil))
	assert.NoError(t, a.Verify(a.Annotations()))
	assert.NoError(t, a.Verify(map[string]string{DescriptorVersionAnnotation: "1.0.0"}))

	assert.ErrorIs(t, a.Verify(map[string]string{DescriptorVersionAnnotation: "1.1"}), ErrAnnotationMismatch)
	assert.ErrorIs(t, a.Verify(map[string]string{DescriptorModuleAnnotation: "com.example:other"}), ErrAnnotationMismatch)
	assert.ErrorIs(t, (ModuleArtifact{Owner: coordinates.NewModuleVersion("a", "b", "nightly")}).Verify(map[string]string{DescriptorVersionAnnotation: "nightly-2"}), ErrAnnotationMismatch)
}
