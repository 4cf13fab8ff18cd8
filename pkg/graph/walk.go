// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"daml.com/x/artifacts/pkg/artifactset"
	"daml.com/x/artifacts/pkg/capability"
	"daml.com/x/artifacts/pkg/metadata"
	"daml.com/x/artifacts/pkg/resolution"
	"daml.com/x/artifacts/pkg/resolver"
	"daml.com/x/artifacts/pkg/session"
	"daml.com/x/artifacts/pkg/variant"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownNode = errors.New("unknown graph node")

type WalkOptions struct {
	// max nodes resolved concurrently
	Workers int
	// materialize the files of every selected variant
	Fetch bool
	// restricts the walk to these nodes, all of them when empty
	Nodes []string
}

// Walk resolves the artifacts of every node within one session. Failures of a node are
// recorded in its report entry and don't stop the walk; only ctx being done does.
func Walk(ctx context.Context, selector *resolver.ArtifactSelector, g *Graph, opts WalkOptions) (*resolution.Report, error) {
	nodes, err := g.selectNodes(opts.Nodes)
	if err != nil {
		return nil, err
	}
	sess := session.New()
	report := resolution.NewReport()

	var mu sync.Mutex
	var providers []capability.Provider

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(opts.Workers, 1))
	for _, n := range nodes {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			node, provided := resolveNode(egCtx, selector, sess, g, n, opts.Fetch)

			mu.Lock()
			defer mu.Unlock()
			report.Nodes[n.Name] = node
			providers = append(providers, provided...)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report.Conflicts = lo.Map(capability.Conflicts(providers), func(c capability.Conflict, _ int) *resolution.Conflict {
		return resolution.NewConflict(c)
	})
	stats := sess.Stats()
	report.Cache = &stats
	sess.LogStats(ctx)
	return report, nil
}

func (g *Graph) selectNodes(names []string) ([]*Node, error) {
	if len(names) == 0 {
		return g.Nodes, nil
	}
	byName := lo.KeyBy(g.Nodes, func(n *Node) string { return n.Name })
	var unknown []string
	nodes := lo.FilterMap(lo.Uniq(names), func(name string, _ int) (*Node, bool) {
		n, ok := byName[name]
		if !ok {
			unknown = append(unknown, name)
		}
		return n, ok
	})
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, strings.Join(unknown, ", "))
	}
	return nodes, nil
}

func resolveNode(ctx context.Context, selector *resolver.ArtifactSelector, sess *session.Session, g *Graph, n *Node, fetch bool) (*resolution.Node, []capability.Provider) {
	out := &resolution.Node{Component: n.Component}
	fail := func(err error) (*resolution.Node, []capability.Provider) {
		slog.DebugContext(ctx, "node failed to resolve", "node", n.Name, "err", err.Error())
		out.Errors = append(out.Errors, resolution.Standardize(err))
		return out, nil
	}

	set, err := selectArtifacts(selector, sess, g, n)
	if err != nil {
		return fail(err)
	}
	if !n.Request.IsEmpty() {
		set = set.Matching(n.Request)
	}

	out.Selection = string(set.Kind())
	out.Variants = lo.Map(set.Candidates(), func(v *variant.ResolvedVariant, _ int) *resolution.Variant {
		return resolution.NewVariant(v, set.Attributes(v))
	})
	provided := lo.FlatMap(set.Candidates(), func(v *variant.ResolvedVariant, _ int) []capability.Provider {
		return lo.Map(v.Capabilities().All(), func(c capability.Capability, _ int) capability.Provider {
			return capability.Provider{Owner: v.Owner(), Capability: c}
		})
	})

	if fetch {
		files, err := set.Files(ctx)
		if err != nil {
			return fail(err)
		}
		out.Files = lo.Map(files, func(f artifactset.ResolvedFile, _ int) *resolution.File {
			return &resolution.File{Artifact: f.ID.Name.FileName(), Variant: f.Variant, Path: f.Path}
		})
	}
	return out, provided
}

func selectArtifacts(selector *resolver.ArtifactSelector, sess *session.Session, g *Graph, n *Node) (artifactset.ArtifactSet, error) {
	if n.Files != "" {
		dep, _ := g.FileDependency(n.Files)
		return selector.ResolveLocalArtifacts(sess, dep), nil
	}

	m, _ := g.Metadata(n.Component)
	if len(n.Artifacts) > 0 {
		artifacts := lo.Map(n.Artifacts, func(a metadata.ArtifactName, _ int) metadata.ComponentArtifactMetadata {
			return metadata.NewArtifact(m.Component.ID, a)
		})
		return selector.ResolveComponentArtifacts(sess, m.Component, artifacts, n.Overrides)
	}
	return selector.ResolveArtifacts(sess, m.Component, m.Variants, m.LegacyVariants, n.Exclusions(), n.Overrides)
}
