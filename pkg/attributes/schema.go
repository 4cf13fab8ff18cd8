// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package attributes

import "github.com/samber/lo"

// Schema lists the attribute names a component takes into account when its variants are matched.
// An empty schema considers every requested attribute.
type Schema []string

func (s Schema) considers(key string) bool {
	return len(s) == 0 || lo.Contains(s, key)
}

// Matches reports whether candidate is compatible with requested: every considered requested
// attribute is either missing from the candidate or carries the same value.
func (s Schema) Matches(candidate, requested Attributes) bool {
	for _, k := range requested.Keys() {
		if !s.considers(k) {
			continue
		}
		have, ok := candidate.Get(k)
		if !ok {
			continue
		}
		want, _ := requested.Get(k)
		if have != want {
			return false
		}
	}
	return true
}
