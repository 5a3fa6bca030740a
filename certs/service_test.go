// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package certs_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/certs"
	"github.com/attesta/attesta/certs/mocks"
	"github.com/attesta/attesta/pkg/errors"
	repoerr "github.com/attesta/attesta/pkg/errors/repository"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
	"github.com/attesta/attesta/users"
	umocks "github.com/attesta/attesta/users/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const artifactTimeout = time.Second

var (
	student = users.User{
		ID:    "f2c7a3e1-1b88-4c0e-9a33-2f0e19c4a001",
		Name:  "Alice Doe",
		Email: "alice@example.com",
		Role:  auth.StudentRole,
	}
	adminSession = auth.Session{
		UserID: "0ad61e21-7c6f-4a52-bd96-2f0e19c4a002",
		Role:   auth.AdminRole,
	}
	issuer = users.User{
		ID:    adminSession.UserID,
		Name:  "Registrar",
		Email: "registrar@example.com",
		Role:  auth.AdminRole,
	}
)

func newService(repo certs.Repository, urepo users.Repository, renderer certs.Renderer, artifacts certs.ArtifactStore) certs.Service {
	return certs.New(repo, urepo, renderer, artifacts, artifactTimeout)
}

func TestIssue(t *testing.T) {
	repo := new(mocks.Repository)
	urepo := new(umocks.Repository)
	renderer := &mocks.Renderer{}
	artifacts := mocks.NewArtifactStore()
	svc := newService(repo, urepo, renderer, artifacts)

	urepoCall := urepo.On("RetrieveByID", mock.Anything, student.ID).Return(student, nil)
	urepoCall1 := urepo.On("RetrieveByID", mock.Anything, issuer.ID).Return(issuer, nil)
	defer urepoCall.Unset()
	defer urepoCall1.Unset()

	repoCall := repo.On("Save", mock.Anything, mock.Anything).Return(func(_ context.Context, cert certs.Certificate) certs.Certificate {
		return cert
	}, nil)
	repoCall1 := repo.On("UpdateFileURL", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	defer repoCall.Unset()
	defer repoCall1.Unset()

	cert, err := svc.Issue(context.Background(), adminSession, student.ID, "Distributed Systems")
	require.Nil(t, err, fmt.Sprintf("issuing expected to succeed: %s", err))

	assert.Len(t, cert.CertificateID, 12)
	assert.Equal(t, certs.Active, cert.Status)
	assert.Equal(t, adminSession.UserID, cert.IssuedBy)
	assert.Equal(t, "/certificates/artifact/"+cert.CertificateID+".pdf", cert.FileURL)

	// The record handed to the renderer carries the resolved names, not
	// placeholders.
	rendered := renderer.Last()
	assert.Equal(t, student.Name, rendered.StudentName)
	assert.Equal(t, issuer.Name, rendered.IssuerName)

	artifact, err := artifacts.Get(context.Background(), cert.CertificateID)
	require.Nil(t, err, fmt.Sprintf("stored artifact expected to exist: %s", err))
	assert.NotEmpty(t, artifact)
}

func TestIssueNonStudent(t *testing.T) {
	repo := new(mocks.Repository)
	urepo := new(umocks.Repository)
	svc := newService(repo, urepo, &mocks.Renderer{}, mocks.NewArtifactStore())

	verifier := student
	verifier.Role = auth.VerifierRole
	urepoCall := urepo.On("RetrieveByID", mock.Anything, student.ID).Return(verifier, nil)
	urepoCall1 := urepo.On("RetrieveByID", mock.Anything, "missing").Return(users.User{}, repoerr.ErrNotFound)
	defer urepoCall.Unset()
	defer urepoCall1.Unset()

	_, err := svc.Issue(context.Background(), adminSession, student.ID, "Course")
	assert.True(t, errors.Contains(err, svcerr.ErrInvalidStudent), fmt.Sprintf("expected invalid student error, got %s", err))

	_, err = svc.Issue(context.Background(), adminSession, "missing", "Course")
	assert.True(t, errors.Contains(err, svcerr.ErrInvalidStudent), fmt.Sprintf("expected invalid student error, got %s", err))

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestIssueIDCollision(t *testing.T) {
	repo := new(mocks.Repository)
	urepo := new(umocks.Repository)
	svc := newService(repo, urepo, &mocks.Renderer{}, mocks.NewArtifactStore())

	urepoCall := urepo.On("RetrieveByID", mock.Anything, student.ID).Return(student, nil)
	urepoCall1 := urepo.On("RetrieveByID", mock.Anything, issuer.ID).Return(issuer, nil)
	defer urepoCall.Unset()
	defer urepoCall1.Unset()

	t.Run("retries on collision", func(t *testing.T) {
		repo.On("Save", mock.Anything, mock.Anything).Return(certs.Certificate{}, repoerr.ErrConflict).Twice()
		repoCall := repo.On("Save", mock.Anything, mock.Anything).Return(func(_ context.Context, cert certs.Certificate) certs.Certificate {
			return cert
		}, nil)
		repoCall1 := repo.On("UpdateFileURL", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		defer repoCall.Unset()
		defer repoCall1.Unset()

		cert, err := svc.Issue(context.Background(), adminSession, student.ID, "Course")
		require.Nil(t, err, fmt.Sprintf("issuing after collisions expected to succeed: %s", err))
		assert.Len(t, cert.CertificateID, 12)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		repo := new(mocks.Repository)
		svc := newService(repo, urepo, &mocks.Renderer{}, mocks.NewArtifactStore())
		repoCall := repo.On("Save", mock.Anything, mock.Anything).Return(certs.Certificate{}, repoerr.ErrConflict)
		defer repoCall.Unset()

		_, err := svc.Issue(context.Background(), adminSession, student.ID, "Course")
		assert.True(t, errors.Contains(err, svcerr.ErrUniqueID), fmt.Sprintf("expected unique id error, got %s", err))
		repo.AssertNumberOfCalls(t, "Save", 5)
	})
}

func TestIssueArtifactFailure(t *testing.T) {
	urepo := new(umocks.Repository)
	urepoCall := urepo.On("RetrieveByID", mock.Anything, student.ID).Return(student, nil)
	urepoCall1 := urepo.On("RetrieveByID", mock.Anything, issuer.ID).Return(issuer, nil)
	defer urepoCall.Unset()
	defer urepoCall1.Unset()

	cases := []struct {
		desc      string
		renderer  certs.Renderer
		artifacts *mocks.ArtifactStore
	}{
		{
			desc:      "renderer failure",
			renderer:  &mocks.Renderer{Fail: errors.New("render failed")},
			artifacts: mocks.NewArtifactStore(),
		},
		{
			desc:      "store failure",
			renderer:  &mocks.Renderer{},
			artifacts: &mocks.ArtifactStore{FailPut: errors.New("disk full")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			repo := new(mocks.Repository)
			svc := newService(repo, urepo, tc.renderer, tc.artifacts)

			repoCall := repo.On("Save", mock.Anything, mock.Anything).Return(func(_ context.Context, cert certs.Certificate) certs.Certificate {
				return cert
			}, nil)
			defer repoCall.Unset()

			// The record must be created even though the artifact is not.
			cert, err := svc.Issue(context.Background(), adminSession, student.ID, "Course")
			require.Nil(t, err, fmt.Sprintf("%s: issuing expected to succeed: %s", tc.desc, err))
			assert.NotEmpty(t, cert.CertificateID)
			assert.Empty(t, cert.FileURL)
			repo.AssertNotCalled(t, "UpdateFileURL", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// stuckRenderer blocks well past the artifact budget and ignores
// cancellation.
type stuckRenderer struct {
	delay time.Duration
}

func (r stuckRenderer) Render(_ context.Context, cert certs.Certificate) ([]byte, error) {
	time.Sleep(r.delay)

	return []byte("%PDF " + cert.CertificateID), nil
}

func TestIssueArtifactTimeout(t *testing.T) {
	repo := new(mocks.Repository)
	urepo := new(umocks.Repository)
	svc := newService(repo, urepo, stuckRenderer{delay: 10 * artifactTimeout}, mocks.NewArtifactStore())

	urepoCall := urepo.On("RetrieveByID", mock.Anything, student.ID).Return(student, nil)
	urepoCall1 := urepo.On("RetrieveByID", mock.Anything, issuer.ID).Return(issuer, nil)
	defer urepoCall.Unset()
	defer urepoCall1.Unset()

	repoCall := repo.On("Save", mock.Anything, mock.Anything).Return(func(_ context.Context, cert certs.Certificate) certs.Certificate {
		return cert
	}, nil)
	defer repoCall.Unset()

	start := time.Now()
	cert, err := svc.Issue(context.Background(), adminSession, student.ID, "Course")
	elapsed := time.Since(start)

	// A stalled render must not hold the request past the budget; the
	// record stays valid with no file URL.
	require.Nil(t, err, fmt.Sprintf("issuing expected to succeed: %s", err))
	assert.NotEmpty(t, cert.CertificateID)
	assert.Empty(t, cert.FileURL)
	assert.Less(t, elapsed, 5*artifactTimeout, "issuance must return once the artifact budget expires")
	repo.AssertNotCalled(t, "UpdateFileURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestBackfillArtifacts(t *testing.T) {
	repo := new(mocks.Repository)
	renderer := &mocks.Renderer{}
	artifacts := mocks.NewArtifactStore()
	svc := newService(repo, new(umocks.Repository), renderer, artifacts)

	linked := certs.Certificate{
		CertificateID: "a1b2c3d4e5f6",
		StudentName:   student.Name,
		IssuerName:    issuer.Name,
		FileURL:       "/certificates/artifact/a1b2c3d4e5f6.pdf",
	}
	orphan := certs.Certificate{
		CertificateID: "b2c3d4e5f6a1",
		StudentName:   student.Name,
		IssuerName:    issuer.Name,
	}

	repoCall := repo.On("RetrieveAll", mock.Anything).Return([]certs.Certificate{linked, orphan}, nil)
	repoCall1 := repo.On("UpdateFileURL", mock.Anything, orphan.CertificateID, mock.Anything).Return(nil)
	defer repoCall.Unset()
	defer repoCall1.Unset()

	healed, err := svc.BackfillArtifacts(context.Background())
	require.Nil(t, err, fmt.Sprintf("backfill expected to succeed: %s", err))
	assert.Equal(t, 1, healed)

	// Only the record without a file URL is regenerated, with its
	// enrichment intact.
	assert.Equal(t, orphan.CertificateID, renderer.Last().CertificateID)
	assert.Equal(t, issuer.Name, renderer.Last().IssuerName)
	repo.AssertNotCalled(t, "UpdateFileURL", mock.Anything, linked.CertificateID, mock.Anything)

	artifact, err := artifacts.Get(context.Background(), orphan.CertificateID)
	require.Nil(t, err, fmt.Sprintf("regenerated artifact expected to exist: %s", err))
	assert.NotEmpty(t, artifact)
}

// memRepo is a minimal in-memory repository enforcing public identifier
// uniqueness, for exercising concurrent issuance.
type memRepo struct {
	mocks.Repository

	mu  sync.Mutex
	ids map[string]bool
}

func (m *memRepo) Save(_ context.Context, cert certs.Certificate) (certs.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ids[cert.CertificateID] {
		return certs.Certificate{}, repoerr.ErrConflict
	}
	m.ids[cert.CertificateID] = true

	return cert, nil
}

func (m *memRepo) UpdateFileURL(_ context.Context, _, _ string) error {
	return nil
}

func TestIssueConcurrent(t *testing.T) {
	urepo := new(umocks.Repository)
	urepoCall := urepo.On("RetrieveByID", mock.Anything, student.ID).Return(student, nil)
	urepoCall1 := urepo.On("RetrieveByID", mock.Anything, issuer.ID).Return(issuer, nil)
	defer urepoCall.Unset()
	defer urepoCall1.Unset()

	repo := &memRepo{ids: map[string]bool{}}
	svc := newService(repo, urepo, &mocks.Renderer{}, mocks.NewArtifactStore())

	const n = 50
	var mu sync.Mutex
	seen := map[string]bool{}

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			cert, err := svc.Issue(ctx, adminSession, student.ID, "Course")
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[cert.CertificateID] {
				return errors.New("duplicate certificate id " + cert.CertificateID)
			}
			seen[cert.CertificateID] = true
			return nil
		})
	}
	require.Nil(t, g.Wait(), "concurrent issuance expected to yield distinct identifiers")
	assert.Len(t, seen, n)
}

func TestVerify(t *testing.T) {
	cert := certs.Certificate{
		ID:            "e6a3e7be-33a1-4b68-bb5a-2f0e19c4a003",
		CertificateID: "a1b2c3d4e5f6",
		StudentID:     student.ID,
		Course:        "Distributed Systems",
		IssuedBy:      adminSession.UserID,
		Status:        certs.Active,
		IssuedAt:      time.Now().UTC(),
		StudentName:   student.Name,
		IssuerName:    "Registrar",
	}

	t.Run("known certificate", func(t *testing.T) {
		repo := new(mocks.Repository)
		svc := newService(repo, new(umocks.Repository), &mocks.Renderer{}, mocks.NewArtifactStore())

		repoCall := repo.On("RetrieveByCertID", mock.Anything, cert.CertificateID).Return(cert, nil)
		defer repoCall.Unset()

		v, err := svc.Verify(context.Background(), cert.CertificateID)
		require.Nil(t, err, fmt.Sprintf("verification expected to succeed: %s", err))
		assert.True(t, v.Valid)
		assert.Equal(t, "Registrar", v.IssuedByName)
		require.NotNil(t, v.Certificate)
		assert.Equal(t, cert.CertificateID, v.Certificate.CertificateID)
	})

	t.Run("unknown identifier is not an error", func(t *testing.T) {
		repo := new(mocks.Repository)
		svc := newService(repo, new(umocks.Repository), &mocks.Renderer{}, mocks.NewArtifactStore())

		repoCall := repo.On("RetrieveByCertID", mock.Anything, "000000000000").Return(certs.Certificate{}, repoerr.ErrNotFound)
		defer repoCall.Unset()

		v, err := svc.Verify(context.Background(), "000000000000")
		require.Nil(t, err, fmt.Sprintf("unknown identifier must not error: %s", err))
		assert.False(t, v.Valid)
		assert.Nil(t, v.Certificate)
	})

	t.Run("issuer resolved directly when join is empty", func(t *testing.T) {
		repo := new(mocks.Repository)
		urepo := new(umocks.Repository)
		svc := newService(repo, urepo, &mocks.Renderer{}, mocks.NewArtifactStore())

		orphan := cert
		orphan.IssuerName = ""
		repoCall := repo.On("RetrieveByCertID", mock.Anything, cert.CertificateID).Return(orphan, nil)
		urepoCall := urepo.On("RetrieveByID", mock.Anything, cert.IssuedBy).Return(users.User{ID: cert.IssuedBy, Name: "Registrar"}, nil)
		defer repoCall.Unset()
		defer urepoCall.Unset()

		v, err := svc.Verify(context.Background(), cert.CertificateID)
		require.Nil(t, err)
		assert.True(t, v.Valid)
		assert.Equal(t, "Registrar", v.IssuedByName)
	})

	t.Run("deleted issuer yields placeholder", func(t *testing.T) {
		repo := new(mocks.Repository)
		urepo := new(umocks.Repository)
		svc := newService(repo, urepo, &mocks.Renderer{}, mocks.NewArtifactStore())

		orphan := cert
		orphan.IssuerName = ""
		repoCall := repo.On("RetrieveByCertID", mock.Anything, cert.CertificateID).Return(orphan, nil)
		urepoCall := urepo.On("RetrieveByID", mock.Anything, cert.IssuedBy).Return(users.User{}, repoerr.ErrNotFound)
		defer repoCall.Unset()
		defer urepoCall.Unset()

		v, err := svc.Verify(context.Background(), cert.CertificateID)
		require.Nil(t, err)
		assert.True(t, v.Valid, "validity must not depend on the issuer account")
		assert.Equal(t, "Unknown issuer", v.IssuedByName)
	})

	t.Run("revoked certificate still verifies", func(t *testing.T) {
		repo := new(mocks.Repository)
		svc := newService(repo, new(umocks.Repository), &mocks.Renderer{}, mocks.NewArtifactStore())

		revoked := cert
		revoked.Status = certs.Revoked
		repoCall := repo.On("RetrieveByCertID", mock.Anything, cert.CertificateID).Return(revoked, nil)
		defer repoCall.Unset()

		v, err := svc.Verify(context.Background(), cert.CertificateID)
		require.Nil(t, err)
		assert.True(t, v.Valid)
		assert.Equal(t, certs.Revoked, v.Certificate.Status)
	})
}

func TestUpdateStatus(t *testing.T) {
	repo := new(mocks.Repository)
	svc := newService(repo, new(umocks.Repository), &mocks.Renderer{}, mocks.NewArtifactStore())

	repoCall := repo.On("UpdateStatus", mock.Anything, "a1b2c3d4e5f6", certs.Revoked).Return(nil)
	repoCall1 := repo.On("UpdateStatus", mock.Anything, "000000000000", certs.Revoked).Return(repoerr.ErrNotFound)
	defer repoCall.Unset()
	defer repoCall1.Unset()

	assert.Nil(t, svc.UpdateStatus(context.Background(), "a1b2c3d4e5f6", certs.Revoked))

	err := svc.UpdateStatus(context.Background(), "000000000000", certs.Revoked)
	assert.True(t, errors.Contains(err, svcerr.ErrNotFound), fmt.Sprintf("expected not found error, got %s", err))

	err = svc.UpdateStatus(context.Background(), "a1b2c3d4e5f6", certs.Status("frozen"))
	assert.True(t, errors.Contains(err, svcerr.ErrInvalidStatus), fmt.Sprintf("expected invalid status error, got %s", err))
}

func TestRetrieveArtifact(t *testing.T) {
	repo := new(mocks.Repository)
	artifacts := mocks.NewArtifactStore()
	svc := newService(repo, new(umocks.Repository), &mocks.Renderer{}, artifacts)

	url, err := artifacts.Put(context.Background(), "a1b2c3d4e5f6", []byte("%PDF"))
	require.Nil(t, err)

	repoCall := repo.On("RetrieveByCertID", mock.Anything, "a1b2c3d4e5f6").Return(certs.Certificate{CertificateID: "a1b2c3d4e5f6", FileURL: url}, nil)
	repoCall1 := repo.On("RetrieveByCertID", mock.Anything, "000000000000").Return(certs.Certificate{}, repoerr.ErrNotFound)
	repoCall2 := repo.On("RetrieveByCertID", mock.Anything, "ffffffffffff").Return(certs.Certificate{CertificateID: "ffffffffffff"}, nil)
	defer repoCall.Unset()
	defer repoCall1.Unset()
	defer repoCall2.Unset()

	artifact, err := svc.RetrieveArtifact(context.Background(), "a1b2c3d4e5f6")
	require.Nil(t, err, fmt.Sprintf("retrieving artifact expected to succeed: %s", err))
	assert.Equal(t, []byte("%PDF"), artifact)

	_, err = svc.RetrieveArtifact(context.Background(), "000000000000")
	assert.True(t, errors.Contains(err, svcerr.ErrNotFound), fmt.Sprintf("expected not found error, got %s", err))

	// A record without a stored artifact is also a 404, not a 500.
	_, err = svc.RetrieveArtifact(context.Background(), "ffffffffffff")
	assert.True(t, errors.Contains(err, svcerr.ErrNotFound), fmt.Sprintf("expected not found error, got %s", err))
}
