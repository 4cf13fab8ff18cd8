// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package builtincommand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBuiltinCommand(t *testing.T) {
	assert.True(t, IsBuiltinCommand([]string{"dpm-artifacts", "resolve", "-f", "graph.yaml"}))
	assert.False(t, IsBuiltinCommand([]string{"dpm-artifacts", "graph.yaml"}))
	assert.False(t, IsBuiltinCommand([]string{"dpm-artifacts"}))
}
