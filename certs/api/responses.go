// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/attesta/attesta"
	"github.com/attesta/attesta/certs"
)

var (
	_ attesta.Response = (*issueCertRes)(nil)
	_ attesta.Response = (*verifyCertRes)(nil)
	_ attesta.Response = (*listCertsRes)(nil)
	_ attesta.Response = (*backfillRes)(nil)
	_ attesta.Response = (*updateStatusRes)(nil)
)

type issueCertRes struct {
	CertificateID  string `json:"certificate_id"`
	CertificateURL string `json:"certificate_url,omitempty"`
}

func (res issueCertRes) Code() int {
	return http.StatusCreated
}

func (res issueCertRes) Headers() map[string]string {
	return map[string]string{}
}

func (res issueCertRes) Empty() bool {
	return false
}

type verifyCertRes struct {
	certs.Verification
}

func (res verifyCertRes) Code() int {
	return http.StatusOK
}

func (res verifyCertRes) Headers() map[string]string {
	return map[string]string{}
}

func (res verifyCertRes) Empty() bool {
	return false
}

type listCertsRes struct {
	Certificates []certs.Certificate `json:"certificates"`
}

func (res listCertsRes) Code() int {
	return http.StatusOK
}

func (res listCertsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res listCertsRes) Empty() bool {
	return false
}

type backfillRes struct {
	Updated int `json:"updated"`
}

func (res backfillRes) Code() int {
	return http.StatusOK
}

func (res backfillRes) Headers() map[string]string {
	return map[string]string{}
}

func (res backfillRes) Empty() bool {
	return false
}

type updateStatusRes struct {
	CertificateID string `json:"certificate_id"`
	Status        string `json:"status"`
}

func (res updateStatusRes) Code() int {
	return http.StatusOK
}

func (res updateStatusRes) Headers() map[string]string {
	return map[string]string{}
}

func (res updateStatusRes) Empty() bool {
	return false
}
