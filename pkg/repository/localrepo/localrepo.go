// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package localrepo

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"daml.com/x/artifacts/pkg/artifact"
	"daml.com/x/artifacts/pkg/utils"
)

// Repo resolves artifacts from a maven style directory layout:
// <root>/<group as path>/<name>/<version>/<file name>
type Repo struct {
	name string
	root string
}

func New(name, root string) *Repo {
	return &Repo{name: name, root: root}
}

func (r *Repo) Name() string {
	return r.name
}

func (r *Repo) Path(req artifact.Request) string {
	owner := req.Owner
	elems := []string{r.root}
	elems = append(elems, strings.Split(owner.Group, ".")...)
	elems = append(elems, owner.Name, owner.Version, req.ID.Name.FileName())
	return filepath.Join(elems...)
}

func (r *Repo) ResolveArtifact(_ context.Context, req artifact.Request) (string, error) {
	if req.Owner.IsZero() {
		return "", fmt.Errorf("%w: %s has no module coordinates", artifact.ErrArtifactNotFound, req.ID)
	}
	p := r.Path(req)
	ok, err := utils.FileExists(p)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", artifact.ErrArtifactNotFound, p)
	}
	return p, nil
}
