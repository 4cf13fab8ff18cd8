// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

const envVarPrefix = "DPM_"

const (
	// HomeEnvVar
	// DPM_HOME is the absolute path to the home directory holding dpm-config.yaml and the caches
	HomeEnvVar = envVarPrefix + "HOME"

	// OciRegistryEnvVar
	// DPM_REGISTRY overrides the OCI registry artifacts are fetched from
	OciRegistryEnvVar = envVarPrefix + "REGISTRY"

	// RegistryAuthConfigPathEnvVar
	// DPM_REGISTRY_AUTH overrides the OCI registry auth file used.
	// Contains a path to a config file similar to docker's config.json
	// 	default: $HOME/.docker/config.json).
	RegistryAuthConfigPathEnvVar = envVarPrefix + "REGISTRY_AUTH"

	// AllowInsecureRegistryEnvVar
	// DPM_INSECURE_REGISTRY allows an insecure registry to be used (http instead of https)
	AllowInsecureRegistryEnvVar = envVarPrefix + "INSECURE_REGISTRY"

	// NetrcEnvVar
	// DPM_NETRC is a netrc file consulted for registry credentials the auth config doesn't have
	// 	default: $HOME/.netrc
	NetrcEnvVar = envVarPrefix + "NETRC"

	// ResolveWorkersEnvVar
	// DPM_RESOLVE_WORKERS caps how many graph nodes are resolved concurrently
	// 	default: number of CPUs
	ResolveWorkersEnvVar = envVarPrefix + "RESOLVE_WORKERS"

	// LogLevelEnvVar
	// DPM_LOG_LEVEL sets the log level.
	// 	Default: info
	//  Possible values: debug info warn error
	LogLevelEnvVar = envVarPrefix + "LOG_LEVEL"

	// LogFormatEnvVar
	// DPM_LOG_FORMAT switches log output to json when set to "json"
	LogFormatEnvVar = envVarPrefix + "LOG_FORMAT"
)
