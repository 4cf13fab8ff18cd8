// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
)

const (
	APIGroup = "digitalasset.com"
)

var ErrSchema = errors.New("unsupported manifest")

type ManifestMeta struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

// Meta is the header of a manifest of the given kind at the given version of the API group
func Meta(kind, version string) ManifestMeta {
	return ManifestMeta{APIVersion: APIGroup + "/" + version, Kind: kind}
}

func (m ManifestMeta) ValidateSchema(target ManifestMeta) error {
	if target.Kind == "" {
		return fmt.Errorf("%w: missing required field 'kind'", ErrSchema)
	} else if target.Kind != m.Kind {
		return fmt.Errorf("%w: unsupported kind %q. expected %q", ErrSchema, target.Kind, m.Kind)
	}

	if target.APIVersion == "" {
		return fmt.Errorf("%w: missing required field 'apiVersion'", ErrSchema)
	}
	if target.APIVersion != m.APIVersion {
		return fmt.Errorf("%w: unsupported apiVersion %q. expected %q", ErrSchema, target.APIVersion, m.APIVersion)
	}

	return nil
}
