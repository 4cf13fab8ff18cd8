// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"daml.com/x/artifacts/pkg/config"
)

func InitLogging() error {
	handler, err := newHandler(os.Stderr, os.Getenv(config.LogLevelEnvVar), os.Getenv(config.LogFormatEnvVar))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func newHandler(w io.Writer, logLevel, format string) (slog.Handler, error) {
	var l slog.Level
	if logLevel == "" {
		logLevel = "info"
	}
	if err := l.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid value for '%s' env var: %w", config.LogLevelEnvVar, err)
	}

	opts := &slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("invalid value for '%s' env var. Must be one of ('text', 'json')", config.LogFormatEnvVar)
	}
}
