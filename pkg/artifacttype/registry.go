// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifacttype

import (
	"fmt"
	"maps"
	"sync"

	"daml.com/x/artifacts/pkg/attributes"
	"daml.com/x/artifacts/pkg/metadata"
	"github.com/samber/lo"
)

// Definition registers the attributes implied by an artifact type
type Definition struct {
	Name       string            `yaml:"name"`
	Attributes map[string]string `yaml:"attributes"`
}

// Registry normalizes variant attributes from the type of the artifacts they carry
type Registry struct {
	mu    sync.RWMutex
	types map[string]map[string]string
}

func New(definitions ...Definition) (*Registry, error) {
	r := &Registry{types: make(map[string]map[string]string)}
	for _, d := range definitions {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(d Definition) error {
	if d.Name == "" {
		return fmt.Errorf("artifact type definition is missing a 'name'")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[d.Name]; ok {
		return fmt.Errorf("artifact type %q is registered twice", d.Name)
	}
	r.types[d.Name] = maps.Clone(d.Attributes)
	return nil
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.types)
}

// MapAttributesFor returns base tagged with the artifact type shared by all artifacts,
// plus whatever defaults that type registers. Base values always win, and base is returned
// unchanged if it already names an artifact type or the artifacts don't share exactly one type.
func (r *Registry) MapAttributesFor(base attributes.Attributes, artifacts []metadata.ArtifactName) attributes.Attributes {
	if base.Contains(attributes.ArtifactTypeAttribute) {
		return base
	}
	types := lo.Uniq(lo.Map(artifacts, func(a metadata.ArtifactName, _ int) string {
		return a.EffectiveType()
	}))
	if len(types) != 1 || types[0] == "" {
		return base
	}
	artifactType := types[0]

	mapped := base.With(attributes.ArtifactTypeAttribute, artifactType)
	r.mu.RLock()
	defaults, ok := r.types[artifactType]
	r.mu.RUnlock()
	if !ok {
		return mapped
	}
	return mapped.WithDefaults(defaults)
}
