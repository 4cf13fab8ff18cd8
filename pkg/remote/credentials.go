// Copyright (c) 2017-2026 Digital Asset (Switzerland) GmbH and/or its affiliates. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jdx/go-netrc"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// readOnlyStore keeps resolution from ever writing to the user's auth config
type readOnlyStore struct {
	ds *credentials.DynamicStore
}

var _ credentials.Store = (*readOnlyStore)(nil)

func newReadOnlyStore(ds *credentials.DynamicStore) *readOnlyStore {
	return &readOnlyStore{ds}
}

func (r readOnlyStore) Get(ctx context.Context, serverAddress string) (auth.Credential, error) {
	return r.ds.Get(ctx, serverAddress)
}

func (r readOnlyStore) Put(context.Context, string, auth.Credential) error {
	return fmt.Errorf("read-only credential store does not allow put operations")
}

func (r readOnlyStore) Delete(context.Context, string) error {
	return fmt.Errorf("read-only credential store does not allow delete operations")
}

func credentialFunc(store credentials.Store, netrcPath string) auth.CredentialFunc {
	var fromStore auth.CredentialFunc
	if store != nil {
		fromStore = credentials.Credential(store)
	}
	return func(ctx context.Context, hostport string) (auth.Credential, error) {
		if fromStore != nil {
			cred, err := fromStore(ctx, hostport)
			if err != nil {
				return auth.EmptyCredential, err
			}
			if cred != auth.EmptyCredential {
				return cred, nil
			}
		}
		return netrcCredential(ctx, netrcPath, hostport)
	}
}

func netrcCredential(ctx context.Context, path, host string) (auth.Credential, error) {
	if path == "" {
		return auth.EmptyCredential, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return auth.EmptyCredential, nil
	}

	n, err := netrc.Parse(path)
	if err != nil {
		return auth.EmptyCredential, fmt.Errorf("failed to read netrc file %q: %w", path, err)
	}
	machine := n.Machine(host)
	if machine == nil {
		return auth.EmptyCredential, nil
	}
	slog.DebugContext(ctx, "using netrc credentials", "host", host)
	return auth.Credential{
		Username: machine.Get("login"),
		Password: machine.Get("password"),
	}, nil
}
