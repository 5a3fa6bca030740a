// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package storage implements a filesystem-backed certificate artifact store.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/attesta/attesta/certs"
	"github.com/attesta/attesta/pkg/errors"
	repoerr "github.com/attesta/attesta/pkg/errors/repository"
)

// ArtifactURLPrefix is the public path under which artifacts are served.
const ArtifactURLPrefix = "/certificates/artifact"

var _ certs.ArtifactStore = (*fileStore)(nil)

type fileStore struct {
	dir string
}

// New returns an artifact store rooted at dir, creating it if needed.
func New(dir string) (certs.ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return &fileStore{dir: dir}, nil
}

func (fs *fileStore) Put(ctx context.Context, certificateID string, artifact []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	final := fs.path(certificateID)

	// Write to a temp file and rename so a cancelled or failed write never
	// leaves a partial artifact at the served path.
	tmp, err := os.CreateTemp(fs.dir, certificateID+".*.tmp")
	if err != nil {
		return "", errors.Wrap(repoerr.ErrCreateEntity, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(artifact); err != nil {
		tmp.Close()
		return "", errors.Wrap(repoerr.ErrCreateEntity, err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return fmt.Sprintf("%s/%s.pdf", ArtifactURLPrefix, certificateID), nil
}

func (fs *fileStore) Get(ctx context.Context, certificateID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artifact, err := os.ReadFile(fs.path(certificateID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(repoerr.ErrNotFound, err)
		}

		return nil, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	return artifact, nil
}

func (fs *fileStore) path(certificateID string) string {
	return filepath.Join(fs.dir, certificateID+".pdf")
}
