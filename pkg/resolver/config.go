// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"daml.com/x/artifacts/pkg/artifacttype"
	"daml.com/x/artifacts/pkg/config"
	"daml.com/x/artifacts/pkg/repository"
	"daml.com/x/artifacts/pkg/selector"
)

// NewFromConfig wires the configured artifact types and repositories behind the default selector chain
func NewFromConfig(cfg *config.Config) (*ArtifactSelector, error) {
	types, err := artifacttype.New(cfg.ArtifactTypes...)
	if err != nil {
		return nil, err
	}
	router, err := repository.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return New(types, router, selector.Default()), nil
}
