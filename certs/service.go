// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package certs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/pkg/errors"
	repoerr "github.com/attesta/attesta/pkg/errors/repository"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
	"github.com/attesta/attesta/users"
)

const (
	// certIDBytes is the entropy of the public certificate identifier.
	// 6 bytes hex-encode to a 12-character identifier.
	certIDBytes = 6

	// maxIDAttempts bounds the generate-and-insert loop on identifier
	// collisions.
	maxIDAttempts = 5
)

// Service specifies an API that must be fulfilled by the certificates
// service implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// Issue creates a certificate for the given student and course on
	// behalf of the authenticated issuer. The record is persisted before
	// the artifact is generated; artifact failure leaves a valid record
	// with no file URL.
	Issue(ctx context.Context, session auth.Session, studentID, course string) (Certificate, error)

	// Verify resolves a public certificate identifier. An unknown
	// identifier yields Valid: false, not an error.
	Verify(ctx context.Context, certificateID string) (Verification, error)

	// ListByStudent returns the certificates of the authenticated student,
	// newest first.
	ListByStudent(ctx context.Context, session auth.Session) ([]Certificate, error)

	// ListAll returns all certificates, newest first.
	ListAll(ctx context.Context) ([]Certificate, error)

	// UpdateStatus changes the standing of a certificate.
	UpdateStatus(ctx context.Context, certificateID string, status Status) error

	// BackfillArtifacts regenerates and relinks artifacts for records
	// left without a file URL by earlier generation failures. It returns
	// the number of records healed.
	BackfillArtifacts(ctx context.Context) (int, error)

	// RetrieveArtifact returns the stored artifact bytes for download.
	RetrieveArtifact(ctx context.Context, certificateID string) ([]byte, error)
}

var _ Service = (*certsService)(nil)

type certsService struct {
	certs           Repository
	users           users.Repository
	renderer        Renderer
	artifacts       ArtifactStore
	artifactTimeout time.Duration
}

// New instantiates the certificates service implementation.
func New(certs Repository, users users.Repository, renderer Renderer, artifacts ArtifactStore, artifactTimeout time.Duration) Service {
	return &certsService{
		certs:           certs,
		users:           users,
		renderer:        renderer,
		artifacts:       artifacts,
		artifactTimeout: artifactTimeout,
	}
}

func (svc certsService) Issue(ctx context.Context, session auth.Session, studentID, course string) (Certificate, error) {
	student, err := svc.users.RetrieveByID(ctx, studentID)
	if err != nil {
		return Certificate{}, errors.Wrap(svcerr.ErrInvalidStudent, err)
	}
	if student.Role != auth.StudentRole {
		return Certificate{}, svcerr.ErrInvalidStudent
	}

	cert := Certificate{
		StudentID: studentID,
		Course:    course,
		IssuedBy:  session.UserID,
		Status:    Active,
		IssuedAt:  time.Now().UTC(),
	}

	saved, err := svc.saveWithFreshID(ctx, cert)
	if err != nil {
		return Certificate{}, err
	}
	saved.StudentName = student.Name
	saved.StudentEmail = student.Email
	// Issuer name is best effort: the artifact renders a placeholder if
	// the issuer account cannot be resolved.
	if issuer, err := svc.users.RetrieveByID(ctx, session.UserID); err == nil {
		saved.IssuerName = issuer.Name
	}

	// The record is already durable; the artifact is best effort within a
	// bounded time budget.
	svc.generateArtifact(ctx, &saved)

	return saved, nil
}

// saveWithFreshID allocates a public identifier and inserts the record,
// retrying on identifier collisions up to maxIDAttempts times.
func (svc certsService) saveWithFreshID(ctx context.Context, cert Certificate) (Certificate, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := generateCertID()
		if err != nil {
			return Certificate{}, errors.Wrap(svcerr.ErrUniqueID, err)
		}
		cert.CertificateID = id

		saved, err := svc.certs.Save(ctx, cert)
		switch {
		case err == nil:
			return saved, nil
		case errors.Contains(err, repoerr.ErrConflict):
			continue
		default:
			return Certificate{}, errors.Wrap(svcerr.ErrCreateEntity, err)
		}
	}

	return Certificate{}, svcerr.ErrUniqueID
}

func generateCertID() (string, error) {
	b := make([]byte, certIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// generateArtifact renders and stores the certificate PDF and records its
// URL. Any failure, including running out of the time budget, leaves the
// certificate without a file URL; it never fails the issuance.
func (svc certsService) generateArtifact(ctx context.Context, cert *Certificate) {
	ctx, cancel := context.WithTimeout(ctx, svc.artifactTimeout)
	defer cancel()

	type rendered struct {
		artifact []byte
		err      error
	}

	// The render runs on its own goroutine so the budget holds even for a
	// renderer that ignores cancellation.
	resCh := make(chan rendered, 1)
	go func() {
		artifact, err := svc.renderer.Render(ctx, *cert)
		resCh <- rendered{artifact: artifact, err: err}
	}()

	var artifact []byte
	select {
	case <-ctx.Done():
		return
	case res := <-resCh:
		if res.err != nil {
			return
		}
		artifact = res.artifact
	}

	url, err := svc.artifacts.Put(ctx, cert.CertificateID, artifact)
	if err != nil {
		return
	}

	if err := svc.certs.UpdateFileURL(ctx, cert.CertificateID, url); err != nil {
		return
	}
	cert.FileURL = url
}

func (svc certsService) Verify(ctx context.Context, certificateID string) (Verification, error) {
	cert, err := svc.certs.RetrieveByCertID(ctx, certificateID)
	if err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return Verification{Valid: false}, nil
		}

		return Verification{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	issuerName := cert.IssuerName
	if issuerName == "" {
		// The join produced no issuer name; try the account directly
		// before falling back to a placeholder. Validity does not depend
		// on the issuer account still existing.
		if issuer, err := svc.users.RetrieveByID(ctx, cert.IssuedBy); err == nil && issuer.Name != "" {
			issuerName = issuer.Name
		} else {
			issuerName = "Unknown issuer"
		}
		cert.IssuerName = issuerName
	}

	return Verification{
		Valid:        true,
		Certificate:  &cert,
		IssuedByName: issuerName,
	}, nil
}

func (svc certsService) ListByStudent(ctx context.Context, session auth.Session) ([]Certificate, error) {
	certs, err := svc.certs.RetrieveByStudent(ctx, session.UserID)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return certs, nil
}

func (svc certsService) ListAll(ctx context.Context) ([]Certificate, error) {
	certs, err := svc.certs.RetrieveAll(ctx)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return certs, nil
}

func (svc certsService) UpdateStatus(ctx context.Context, certificateID string, status Status) error {
	if _, err := ToStatus(string(status)); err != nil {
		return errors.Wrap(svcerr.ErrInvalidStatus, err)
	}
	if err := svc.certs.UpdateStatus(ctx, certificateID, status); err != nil {
		if errors.Contains(err, repoerr.ErrNotFound) {
			return errors.Wrap(svcerr.ErrNotFound, err)
		}

		return errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return nil
}

func (svc certsService) BackfillArtifacts(ctx context.Context) (int, error) {
	all, err := svc.certs.RetrieveAll(ctx)
	if err != nil {
		return 0, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	// Records are already enriched by the listing join, so regenerated
	// artifacts carry the real names. Each record gets its own budget;
	// a failure skips the record, it does not abort the sweep.
	healed := 0
	for i := range all {
		if all[i].FileURL != "" {
			continue
		}
		svc.generateArtifact(ctx, &all[i])
		if all[i].FileURL != "" {
			healed++
		}
	}

	return healed, nil
}

func (svc certsService) RetrieveArtifact(ctx context.Context, certificateID string) ([]byte, error) {
	// Only certificates the service knows about are served, so a stray
	// file in the artifact directory is not reachable.
	cert, err := svc.certs.RetrieveByCertID(ctx, certificateID)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrNotFound, err)
	}
	if cert.FileURL == "" {
		return nil, svcerr.ErrNotFound
	}

	artifact, err := svc.artifacts.Get(ctx, certificateID)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrNotFound, err)
	}

	return artifact, nil
}
