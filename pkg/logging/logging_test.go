// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	h, err := newHandler(&buf, "debug", "json")
	require.NoError(t, err)
	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))

	slog.New(h).Debug("resolved", "component", "M:lib:1.0")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "M:lib:1.0", line["component"])

	h, err = newHandler(&buf, "", "")
	require.NoError(t, err)
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
}

func TestInvalidSettings(t *testing.T) {
	_, err := newHandler(&bytes.Buffer{}, "loud", "")
	assert.Error(t, err)
	_, err = newHandler(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
