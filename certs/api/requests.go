// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/attesta/attesta/certs"
	"github.com/attesta/attesta/pkg/apiutil"
)

type issueCertReq struct {
	StudentID string `json:"student_id"`
	Course    string `json:"course"`
}

func (req issueCertReq) validate() error {
	if req.StudentID == "" {
		return apiutil.ErrMissingID
	}
	if req.Course == "" {
		return apiutil.ErrMissingCourse
	}

	return nil
}

type verifyCertReq struct {
	CertificateID string `json:"certificate_id"`
}

func (req verifyCertReq) validate() error {
	if req.CertificateID == "" {
		return apiutil.ErrMissingCertID
	}

	return nil
}

type listCertsReq struct{}

func (req listCertsReq) validate() error {
	return nil
}

type backfillReq struct{}

func (req backfillReq) validate() error {
	return nil
}

type updateStatusReq struct {
	certificateID string
	Status        string `json:"status"`
}

func (req updateStatusReq) validate() error {
	if req.certificateID == "" {
		return apiutil.ErrMissingCertID
	}
	if _, err := certs.ToStatus(req.Status); err != nil {
		return apiutil.ErrInvalidStatus
	}

	return nil
}

type artifactReq struct {
	certificateID string
}

func (req artifactReq) validate() error {
	if req.certificateID == "" {
		return apiutil.ErrMissingCertID
	}

	return nil
}
