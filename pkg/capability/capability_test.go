// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"testing"

	"daml.com/x/artifacts/pkg/coordinates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lib = coordinates.NewModuleVersion("M", "lib", "1.0")

func TestWithImplicit(t *testing.T) {
	t.Run("empty declares the owner's default", func(t *testing.T) {
		caps := WithImplicit(nil, lib)
		require.Equal(t, 1, caps.Len())
		assert.Equal(t, Capability{Group: "M", Name: "lib", Version: "1.0"}, caps.All()[0])
		assert.Equal(t, "[M:lib:1.0]", caps.String())
	})

	t.Run("declared capabilities pass through unchanged", func(t *testing.T) {
		declared := []Capability{
			{Group: "M", Name: "lib-test-fixtures", Version: "1.0"},
			{Group: "other", Name: "feature"},
		}
		caps := WithImplicit(declared, lib)
		assert.Equal(t, declared, caps.All())

		declared[0].Name = "mutated"
		assert.Equal(t, "lib-test-fixtures", caps.All()[0].Name)
		assert.False(t, caps.Contains(DefaultForComponent(lib)))
	})
}

func TestConflicts(t *testing.T) {
	logging := func(owner coordinates.ModuleVersionIdentifier, version string) Provider {
		return Provider{Owner: owner, Capability: Capability{Group: "org.log", Name: "logging", Version: version}}
	}
	a := coordinates.NewModuleVersion("org.a", "a-logging", "1.0")
	b := coordinates.NewModuleVersion("org.b", "b-logging", "2.0")

	conflicts := Conflicts([]Provider{
		logging(a, "1.2.0"),
		logging(b, "1.10.0"),
		logging(b, "1.10.0"),
		{Owner: a, Capability: DefaultForComponent(a)},
	})

	require.Len(t, conflicts, 1)
	assert.Equal(t, "org.log:logging", conflicts[0].Capability)
	assert.Len(t, conflicts[0].Providers, 2)
	assert.Equal(t, b, conflicts[0].Preferred.Owner)

	assert.Empty(t, Conflicts([]Provider{logging(a, "1.0"), logging(a, "1.1")}))
}

func TestCompareVersions(t *testing.T) {
	assert.Negative(t, CompareVersions("1.2.0", "1.10.0"))
	assert.Positive(t, CompareVersions("not-semver", "1.0.0"))
	assert.Zero(t, CompareVersions("abc", "abc"))
}
