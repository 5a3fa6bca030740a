// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package postgres contains repository implementations using PostgreSQL as
// the underlying database.
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/attesta/attesta/certs"
	"github.com/attesta/attesta/pkg/errors"
	repoerr "github.com/attesta/attesta/pkg/errors/repository"
	"github.com/attesta/attesta/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

var _ certs.Repository = (*certsRepository)(nil)

type certsRepository struct {
	db *sqlx.DB
}

// NewRepository instantiates a PostgreSQL implementation of certs repository.
func NewRepository(db *sqlx.DB) certs.Repository {
	return &certsRepository{db: db}
}

// enrichedSelect joins student and issuer accounts onto the certificate.
// LEFT JOINs keep the record retrievable when either account is gone.
const enrichedSelect = `SELECT c.id, c.certificate_id, c.student_id, c.course, c.issued_by,
		c.status, c.issued_at, c.file_url,
		s.name AS student_name, s.email AS student_email, i.name AS issuer_name
	FROM certificates c
	LEFT JOIN users s ON s.id = c.student_id
	LEFT JOIN users i ON i.id = c.issued_by`

func (cr certsRepository) Save(ctx context.Context, cert certs.Certificate) (certs.Certificate, error) {
	q := `INSERT INTO certificates (certificate_id, student_id, course, issued_by, status, issued_at)
		VALUES (:certificate_id, :student_id, :course, :issued_by, :status, :issued_at)
		RETURNING id, certificate_id, student_id, course, issued_by, status, issued_at, file_url`

	dbc := toDBCertificate(cert)
	row, err := cr.db.NamedQueryContext(ctx, q, dbc)
	if err != nil {
		return certs.Certificate{}, postgres.HandleError(repoerr.ErrCreateEntity, err)
	}
	defer row.Close()

	row.Next()
	dbc = dbCertificate{}
	if err := row.StructScan(&dbc); err != nil {
		return certs.Certificate{}, errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return toCertificate(dbc), nil
}

func (cr certsRepository) RetrieveByCertID(ctx context.Context, certificateID string) (certs.Certificate, error) {
	q := enrichedSelect + ` WHERE c.certificate_id = $1`

	dbc := dbCertificate{}
	if err := cr.db.QueryRowxContext(ctx, q, certificateID).StructScan(&dbc); err != nil {
		if err == sql.ErrNoRows {
			return certs.Certificate{}, errors.Wrap(repoerr.ErrNotFound, err)
		}
		return certs.Certificate{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}

	return toCertificate(dbc), nil
}

func (cr certsRepository) RetrieveByStudent(ctx context.Context, studentID string) ([]certs.Certificate, error) {
	q := enrichedSelect + ` WHERE c.student_id = $1 ORDER BY c.issued_at DESC`

	return cr.retrieveAll(ctx, q, studentID)
}

func (cr certsRepository) RetrieveAll(ctx context.Context) ([]certs.Certificate, error) {
	q := enrichedSelect + ` ORDER BY c.issued_at DESC`

	return cr.retrieveAll(ctx, q)
}

func (cr certsRepository) UpdateFileURL(ctx context.Context, certificateID, fileURL string) error {
	q := `UPDATE certificates SET file_url = $2 WHERE certificate_id = $1`

	return cr.update(ctx, q, certificateID, fileURL)
}

func (cr certsRepository) UpdateStatus(ctx context.Context, certificateID string, status certs.Status) error {
	q := `UPDATE certificates SET status = $2 WHERE certificate_id = $1`

	return cr.update(ctx, q, certificateID, string(status))
}

func (cr certsRepository) update(ctx context.Context, q, certificateID, value string) error {
	res, err := cr.db.ExecContext(ctx, q, certificateID, value)
	if err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return repoerr.ErrNotFound
	}

	return nil
}

func (cr certsRepository) retrieveAll(ctx context.Context, q string, args ...interface{}) ([]certs.Certificate, error) {
	rows, err := cr.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	items := []certs.Certificate{}
	for rows.Next() {
		dbc := dbCertificate{}
		if err := rows.StructScan(&dbc); err != nil {
			return nil, errors.Wrap(repoerr.ErrViewEntity, err)
		}
		items = append(items, toCertificate(dbc))
	}

	return items, nil
}

type dbCertificate struct {
	ID            string         `db:"id"`
	CertificateID string         `db:"certificate_id"`
	StudentID     string         `db:"student_id"`
	Course        string         `db:"course"`
	IssuedBy      string         `db:"issued_by"`
	Status        string         `db:"status"`
	IssuedAt      time.Time      `db:"issued_at"`
	FileURL       sql.NullString `db:"file_url"`
	StudentName   sql.NullString `db:"student_name"`
	StudentEmail  sql.NullString `db:"student_email"`
	IssuerName    sql.NullString `db:"issuer_name"`
}

func toDBCertificate(cert certs.Certificate) dbCertificate {
	return dbCertificate{
		ID:            cert.ID,
		CertificateID: cert.CertificateID,
		StudentID:     cert.StudentID,
		Course:        cert.Course,
		IssuedBy:      cert.IssuedBy,
		Status:        string(cert.Status),
		IssuedAt:      cert.IssuedAt,
		FileURL:       sql.NullString{String: cert.FileURL, Valid: cert.FileURL != ""},
	}
}

func toCertificate(dbc dbCertificate) certs.Certificate {
	return certs.Certificate{
		ID:            dbc.ID,
		CertificateID: dbc.CertificateID,
		StudentID:     dbc.StudentID,
		Course:        dbc.Course,
		IssuedBy:      dbc.IssuedBy,
		Status:        certs.Status(dbc.Status),
		IssuedAt:      dbc.IssuedAt,
		FileURL:       dbc.FileURL.String,
		StudentName:   dbc.StudentName.String,
		StudentEmail:  dbc.StudentEmail.String,
		IssuerName:    dbc.IssuerName.String,
	}
}
