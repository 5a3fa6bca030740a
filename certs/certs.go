// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package certs

import (
	"context"
	"time"

	"github.com/attesta/attesta/pkg/errors"
)

// Status represents the standing of an issued certificate. A revoked
// certificate remains verifiable; the status only conveys standing.
type Status string

const (
	Active  Status = "active"
	Revoked Status = "revoked"
)

// ErrInvalidStatus indicates an unknown status value.
var ErrInvalidStatus = errors.New("invalid certificate status")

// ToStatus converts a string to a Status.
func ToStatus(s string) (Status, error) {
	switch Status(s) {
	case Active, Revoked:
		return Status(s), nil
	}

	return "", ErrInvalidStatus
}

// Certificate represents an issued credential. ID is the internal primary
// key and never leaves the service; CertificateID is the public identifier
// printed on the artifact and used for verification.
type Certificate struct {
	ID            string    `json:"-"`
	CertificateID string    `json:"certificate_id"`
	StudentID     string    `json:"student_id"`
	Course        string    `json:"course"`
	IssuedBy      string    `json:"issued_by"`
	Status        Status    `json:"status"`
	IssuedAt      time.Time `json:"issued_at"`
	FileURL       string    `json:"file_url,omitempty"`

	// Enrichment, populated by joins on retrieval. Best effort.
	StudentName  string `json:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty"`
	IssuerName   string `json:"issuer_name,omitempty"`
}

// Verification is the public answer to a verification request. Valid is
// false for unknown identifiers; this is a regular response, not an error.
type Verification struct {
	Valid        bool         `json:"valid"`
	Certificate  *Certificate `json:"certificate,omitempty"`
	IssuedByName string       `json:"issued_by_name,omitempty"`
}

// Repository specifies a certificate persistence API.
type Repository interface {
	// Save persists the certificate. A public identifier collision
	// surfaces as a conflict error so the caller can retry with a fresh
	// identifier.
	Save(ctx context.Context, cert Certificate) (Certificate, error)

	// RetrieveByCertID retrieves a certificate by its public identifier,
	// enriched with student and issuer details where available.
	RetrieveByCertID(ctx context.Context, certificateID string) (Certificate, error)

	// RetrieveByStudent retrieves all certificates of the given student,
	// newest first.
	RetrieveByStudent(ctx context.Context, studentID string) ([]Certificate, error)

	// RetrieveAll retrieves all certificates, newest first.
	RetrieveAll(ctx context.Context) ([]Certificate, error)

	// UpdateFileURL stores the artifact location on an existing record.
	UpdateFileURL(ctx context.Context, certificateID, fileURL string) error

	// UpdateStatus updates the standing of an existing record.
	UpdateStatus(ctx context.Context, certificateID string, status Status) error
}

// Renderer produces the printable artifact for a certificate. Rendering
// must respect context cancellation.
type Renderer interface {
	Render(ctx context.Context, cert Certificate) ([]byte, error)
}

// ArtifactStore persists rendered artifacts keyed by the public certificate
// identifier and serves them back for download.
type ArtifactStore interface {
	// Put stores the artifact and returns its public reference URL.
	// Storing the same identifier again overwrites the previous artifact.
	Put(ctx context.Context, certificateID string, artifact []byte) (string, error)

	// Get returns the stored artifact bytes.
	Get(ctx context.Context, certificateID string) ([]byte, error)
}
