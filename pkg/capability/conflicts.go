// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package capability

import (
	"cmp"
	"slices"

	"daml.com/x/artifacts/pkg/coordinates"
	"github.com/Masterminds/semver/v3"
	"github.com/samber/lo"
)

// Provider is a module offering a capability
type Provider struct {
	Owner      coordinates.ModuleVersionIdentifier `yaml:"owner"`
	Capability Capability                          `yaml:"capability"`
}

// Conflict is a capability offered by more than one module
type Conflict struct {
	Capability string     `yaml:"capability"`
	Providers  []Provider `yaml:"providers"`
	// Preferred provides the highest version of the capability
	Preferred Provider `yaml:"preferred"`
}

// Conflicts reports every capability (group:name) provided by more than one module.
// Conflicts and their providers are sorted, so the output is stable.
func Conflicts(providers []Provider) []Conflict {
	unique := lo.UniqBy(providers, func(p Provider) string {
		return p.Owner.Module().String() + "|" + p.Capability.String()
	})
	grouped := lo.GroupBy(unique, func(p Provider) string {
		return p.Capability.Key()
	})

	var conflicts []Conflict
	for key, ps := range grouped {
		owners := lo.UniqBy(ps, func(p Provider) coordinates.ModuleIdentifier { return p.Owner.Module() })
		if len(owners) < 2 {
			continue
		}
		slices.SortFunc(ps, compareProviders)
		conflicts = append(conflicts, Conflict{
			Capability: key,
			Providers:  ps,
			Preferred:  ps[len(ps)-1],
		})
	}
	slices.SortFunc(conflicts, func(a, b Conflict) int {
		return cmp.Compare(a.Capability, b.Capability)
	})
	return conflicts
}

func compareProviders(a, b Provider) int {
	if c := CompareVersions(a.Capability.Version, b.Capability.Version); c != 0 {
		return c
	}
	return cmp.Compare(a.Owner.String(), b.Owner.String())
}

// CompareVersions orders semantic versions semantically, and anything else lexically after them
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
