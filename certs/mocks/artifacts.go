// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	"github.com/attesta/attesta/certs"
	repoerr "github.com/attesta/attesta/pkg/errors/repository"
)

var _ certs.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is an in-memory artifact store.
type ArtifactStore struct {
	mu        sync.Mutex
	artifacts map[string][]byte

	// FailPut forces Put to fail, for exercising partial issuance.
	FailPut error
}

func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{artifacts: map[string][]byte{}}
}

func (as *ArtifactStore) Put(_ context.Context, certificateID string, artifact []byte) (string, error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.FailPut != nil {
		return "", as.FailPut
	}
	as.artifacts[certificateID] = artifact

	return "/certificates/artifact/" + certificateID + ".pdf", nil
}

func (as *ArtifactStore) Get(_ context.Context, certificateID string) ([]byte, error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	artifact, ok := as.artifacts[certificateID]
	if !ok {
		return nil, repoerr.ErrNotFound
	}

	return artifact, nil
}
