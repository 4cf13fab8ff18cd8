// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package version

// To be populated at build-time, e.g.:
// go build -ldflags "-X 'daml.com/x/artifacts/pkg/version.Version=1.2.3'"
var (
	Version   string
	Build     string
	BuildDate string
)

type Info struct {
	Version   string `yaml:"version"`
	Build     string `yaml:"build"`
	BuildDate string `yaml:"build-date"`
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func Get() Info {
	return Info{
		Version:   orUnknown(Version),
		Build:     orUnknown(Build),
		BuildDate: orUnknown(BuildDate),
	}
}

func UserAgent(prefix string) string {
	return prefix + "/" + orUnknown(Version)
}
