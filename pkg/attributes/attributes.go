// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package attributes

import (
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
)

const ArtifactTypeAttribute = "artifactType"

// Attributes is an immutable set of named attribute values.
// The zero value is the empty set.
type Attributes struct {
	values map[string]string
}

func Of(values map[string]string) Attributes {
	if len(values) == 0 {
		return Attributes{}
	}
	return Attributes{values: maps.Clone(values)}
}

func Empty() Attributes {
	return Attributes{}
}

func (a Attributes) Get(key string) (string, bool) {
	v, ok := a.values[key]
	return v, ok
}

func (a Attributes) Contains(key string) bool {
	_, ok := a.values[key]
	return ok
}

func (a Attributes) Len() int {
	return len(a.values)
}

func (a Attributes) IsEmpty() bool {
	return len(a.values) == 0
}

// Keys are returned sorted
func (a Attributes) Keys() []string {
	keys := lo.Keys(a.values)
	slices.Sort(keys)
	return keys
}

func (a Attributes) AsMap() map[string]string {
	return maps.Clone(a.values)
}

func (a Attributes) With(key, value string) Attributes {
	m := make(map[string]string, len(a.values)+1)
	maps.Copy(m, a.values)
	m[key] = value
	return Attributes{values: m}
}

// Concat layers overrides on top of a. Values in overrides win.
func (a Attributes) Concat(overrides Attributes) Attributes {
	if overrides.IsEmpty() {
		return a
	}
	if a.IsEmpty() {
		return overrides
	}
	m := maps.Clone(a.values)
	maps.Copy(m, overrides.values)
	return Attributes{values: m}
}

// WithDefaults adds every default whose key isn't already present in a
func (a Attributes) WithDefaults(defaults map[string]string) Attributes {
	missing := lo.OmitBy(defaults, func(k, _ string) bool {
		return a.Contains(k)
	})
	if len(missing) == 0 {
		return a
	}
	return a.Concat(Attributes{values: missing})
}

func (a Attributes) Equal(other Attributes) bool {
	return maps.Equal(a.values, other.values)
}

func (a Attributes) String() string {
	return "{" + strings.Join(lo.Map(a.Keys(), func(k string, _ int) string {
		return k + "=" + a.values[k]
	}), ", ") + "}"
}

func (a Attributes) MarshalYAML() ([]byte, error) {
	if a.values == nil {
		return yaml.Marshal(map[string]string{})
	}
	return yaml.Marshal(a.values)
}

func (a *Attributes) UnmarshalYAML(data []byte) error {
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return err
	}
	*a = Of(m)
	return nil
}

var _ yaml.BytesUnmarshaler = (*Attributes)(nil)
var _ yaml.BytesMarshaler = (*Attributes)(nil)
