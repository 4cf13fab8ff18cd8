// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"fmt"
	"os"
	"strconv"
)

// BoolEnvVar parses an env var as bool. Defaults to false
func BoolEnvVar(key string) (val bool, ok bool, err error) {
	var valStr string
	valStr, ok = os.LookupEnv(key)
	if !ok {
		return false, ok, nil
	}
	b, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, ok, fmt.Errorf("invalid value for '%s' env var. Must be one of ('true', 'false')", key)
	}
	return b, ok, nil
}

// IntEnvVar parses an env var as a non-negative int. Defaults to 0
func IntEnvVar(key string) (val int, ok bool, err error) {
	var valStr string
	valStr, ok = os.LookupEnv(key)
	if !ok {
		return 0, ok, nil
	}
	i, err := strconv.Atoi(valStr)
	if err != nil || i < 0 {
		return 0, ok, fmt.Errorf("invalid value for '%s' env var. Must be a non-negative integer", key)
	}
	return i, ok, nil
}
