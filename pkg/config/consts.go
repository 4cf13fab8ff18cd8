// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

const (
	ConfigFileName = "dpm-config.yaml"

	UserAgentPrefix = "dpm-artifacts"

	// repository name used for the registry configured through DPM_REGISTRY alone
	DefaultRepositoryName = "default"

	LocalRepository = "local"
	OciRepository   = "oci"
)
