// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"log/slog"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/variant"
)

// Session scopes the identity caches of one dependency graph resolution.
// It is created when the resolution starts and dropped when it ends.
type Session struct {
	artifacts *Table[metadata.ArtifactIdentifier, *artifact.ResolvableArtifact]
	variants  *Table[metadata.VariantIdentifier, *variant.ResolvedVariant]
}

var _ variant.Cache = (*Session)(nil)

func New() *Session {
	return &Session{
		artifacts: NewTable[metadata.ArtifactIdentifier, *artifact.ResolvableArtifact](),
		variants:  NewTable[metadata.VariantIdentifier, *variant.ResolvedVariant](),
	}
}

// Artifact returns the session's handle for id, creating it on first access
func (s *Session) Artifact(id metadata.ArtifactIdentifier, create func() *artifact.ResolvableArtifact) *artifact.ResolvableArtifact {
	return s.artifacts.GetOrInit(id, create)
}

func (s *Session) Variant(id metadata.VariantIdentifier, create func() (*variant.ResolvedVariant, error)) (*variant.ResolvedVariant, error) {
	return s.variants.GetOrCreate(id, create)
}

// CachedVariant looks a variant up without creating it
func (s *Session) CachedVariant(id metadata.VariantIdentifier) (*variant.ResolvedVariant, bool) {
	return s.variants.Get(id)
}

// CachedArtifact looks an artifact handle up without creating it
func (s *Session) CachedArtifact(id metadata.ArtifactIdentifier) (*artifact.ResolvableArtifact, bool) {
	return s.artifacts.Get(id)
}

type SessionStats struct {
	Artifacts Stats `yaml:"artifacts"`
	Variants  Stats `yaml:"variants"`
}

func (s *Session) Stats() SessionStats {
	return SessionStats{
		Artifacts: s.artifacts.Stats(),
		Variants:  s.variants.Stats(),
	}
}

func (s *Session) LogStats(ctx context.Context) {
	stats := s.Stats()
	slog.DebugContext(ctx, "resolution session cache",
		"artifacts", stats.Artifacts.Entries,
		"artifact-hits", stats.Artifacts.Hits,
		"variants", stats.Variants.Entries,
		"variant-hits", stats.Variants.Hits,
	)
}
