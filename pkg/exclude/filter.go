// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package exclude

import (
	"daml.com/x/artifacts/pkg/coordinates"
	"daml.com/x/artifacts/pkg/metadata"
	"github.com/samber/lo"
)

// Filter returns the artifacts not excluded by spec for their owning module, in their original order,
// and whether anything was removed. A nil spec excludes nothing.
func Filter(artifacts []metadata.ComponentArtifactMetadata, owner coordinates.ModuleIdentifier, spec Spec) ([]metadata.ComponentArtifactMetadata, bool) {
	if spec == nil || len(artifacts) == 0 {
		return artifacts, false
	}
	kept := lo.Filter(artifacts, func(a metadata.ComponentArtifactMetadata, _ int) bool {
		return !spec.ExcludesArtifact(owner, a.Name())
	})
	return kept, len(kept) < len(artifacts)
}
