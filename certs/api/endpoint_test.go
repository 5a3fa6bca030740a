// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/attesta/attesta/auth"
	authjwt "github.com/attesta/attesta/auth/jwt"
	"github.com/attesta/attesta/certs"
	"github.com/attesta/attesta/certs/api"
	"github.com/attesta/attesta/certs/mocks"
	"github.com/attesta/attesta/pkg/apiutil"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const contentType = "application/json"

var cert = certs.Certificate{
	CertificateID: "a1b2c3d4e5f6",
	StudentID:     "f2c7a3e1-1b88-4c0e-9a33-2f0e19c4a001",
	Course:        "Distributed Systems",
	IssuedBy:      "0ad61e21-7c6f-4a52-bd96-2f0e19c4a002",
	Status:        certs.Active,
	IssuedAt:      time.Now().UTC(),
	FileURL:       "/certificates/artifact/a1b2c3d4e5f6.pdf",
	StudentName:   "Alice Doe",
	IssuerName:    "Registrar",
}

type testRequest struct {
	client      *http.Client
	method      string
	url         string
	contentType string
	token       string
	body        string
}

func (tr testRequest) make() (*http.Response, error) {
	req, err := http.NewRequest(tr.method, tr.url, strings.NewReader(tr.body))
	if err != nil {
		return nil, err
	}
	if tr.contentType != "" {
		req.Header.Set("Content-Type", tr.contentType)
	}
	if tr.token != "" {
		req.Header.Set("Authorization", apiutil.BearerPrefix+tr.token)
	}

	return tr.client.Do(req)
}

func newCertsServer(t *testing.T) (*httptest.Server, *mocks.Service, string, string) {
	t.Helper()

	svc := new(mocks.Service)
	tokenizer := authjwt.New([]byte("access-secret-for-tests"), []byte("refresh-secret-for-tests"), time.Minute, time.Hour)

	adminAccess, err := tokenizer.IssueAccess(cert.IssuedBy, auth.AdminRole)
	require.Nil(t, err)
	studentAccess, err := tokenizer.IssueAccess(cert.StudentID, auth.StudentRole)
	require.Nil(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mux := api.MakeHandler(svc, tokenizer, chi.NewRouter(), logger)

	return httptest.NewServer(mux), svc, adminAccess, studentAccess
}

func toJSON(t *testing.T, data interface{}) string {
	t.Helper()

	js, err := json.Marshal(data)
	require.Nil(t, err)

	return string(js)
}

func TestIssueEndpoint(t *testing.T) {
	srv, svc, adminAccess, studentAccess := newCertsServer(t)
	defer srv.Close()

	svcCall := svc.On("Issue", mock.Anything, mock.Anything, cert.StudentID, cert.Course).Return(cert, nil)
	defer svcCall.Unset()

	cases := []struct {
		desc        string
		body        string
		contentType string
		token       string
		status      int
	}{
		{
			desc:        "admin issues certificate",
			body:        toJSON(t, map[string]string{"student_id": cert.StudentID, "course": cert.Course}),
			contentType: contentType,
			token:       adminAccess,
			status:      http.StatusCreated,
		},
		{
			desc:        "student may not issue",
			body:        toJSON(t, map[string]string{"student_id": cert.StudentID, "course": cert.Course}),
			contentType: contentType,
			token:       studentAccess,
			status:      http.StatusForbidden,
		},
		{
			desc:        "no token",
			body:        toJSON(t, map[string]string{"student_id": cert.StudentID, "course": cert.Course}),
			contentType: contentType,
			status:      http.StatusUnauthorized,
		},
		{
			desc:        "missing course",
			body:        toJSON(t, map[string]string{"student_id": cert.StudentID}),
			contentType: contentType,
			token:       adminAccess,
			status:      http.StatusBadRequest,
		},
		{
			desc:        "missing content type",
			body:        toJSON(t, map[string]string{"student_id": cert.StudentID, "course": cert.Course}),
			token:       adminAccess,
			status:      http.StatusUnsupportedMediaType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := testRequest{
				client:      srv.Client(),
				method:      http.MethodPost,
				url:         srv.URL + "/certificates/issue",
				contentType: tc.contentType,
				token:       tc.token,
				body:        tc.body,
			}.make()
			require.Nil(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode, fmt.Sprintf("%s: expected %d got %d", tc.desc, tc.status, res.StatusCode))

			if tc.status == http.StatusCreated {
				var body map[string]interface{}
				require.Nil(t, json.NewDecoder(res.Body).Decode(&body))
				assert.Equal(t, cert.CertificateID, body["certificate_id"])
				assert.Equal(t, cert.FileURL, body["certificate_url"])
			}
		})
	}
}

func TestVerifyEndpoint(t *testing.T) {
	srv, svc, _, _ := newCertsServer(t)
	defer srv.Close()

	known := cert
	svcCall := svc.On("Verify", mock.Anything, cert.CertificateID).Return(certs.Verification{Valid: true, Certificate: &known, IssuedByName: "Registrar"}, nil)
	svcCall1 := svc.On("Verify", mock.Anything, "000000000000").Return(certs.Verification{Valid: false}, nil)
	defer svcCall.Unset()
	defer svcCall1.Unset()

	t.Run("known certificate", func(t *testing.T) {
		res, err := testRequest{
			client:      srv.Client(),
			method:      http.MethodPost,
			url:         srv.URL + "/certificates/verify",
			contentType: contentType,
			body:        toJSON(t, map[string]string{"certificate_id": cert.CertificateID}),
		}.make()
		require.Nil(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		var body map[string]interface{}
		require.Nil(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equal(t, true, body["valid"])
		assert.Equal(t, "Registrar", body["issued_by_name"])
	})

	t.Run("unknown certificate is 200 with valid false", func(t *testing.T) {
		res, err := testRequest{
			client:      srv.Client(),
			method:      http.MethodPost,
			url:         srv.URL + "/certificates/verify",
			contentType: contentType,
			body:        toJSON(t, map[string]string{"certificate_id": "000000000000"}),
		}.make()
		require.Nil(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)

		var body map[string]interface{}
		require.Nil(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equal(t, false, body["valid"])
		assert.NotContains(t, body, "certificate")
	})

	t.Run("empty identifier", func(t *testing.T) {
		res, err := testRequest{
			client:      srv.Client(),
			method:      http.MethodPost,
			url:         srv.URL + "/certificates/verify",
			contentType: contentType,
			body:        toJSON(t, map[string]string{}),
		}.make()
		require.Nil(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestListEndpoints(t *testing.T) {
	srv, svc, adminAccess, studentAccess := newCertsServer(t)
	defer srv.Close()

	svcCall := svc.On("ListByStudent", mock.Anything, mock.Anything).Return([]certs.Certificate{cert}, nil)
	svcCall1 := svc.On("ListAll", mock.Anything).Return([]certs.Certificate{cert}, nil)
	defer svcCall.Unset()
	defer svcCall1.Unset()

	cases := []struct {
		desc   string
		url    string
		token  string
		status int
	}{
		{"student lists own", "/certificates/my", studentAccess, http.StatusOK},
		{"admin may not use student listing", "/certificates/my", adminAccess, http.StatusForbidden},
		{"admin lists all", "/certificates", adminAccess, http.StatusOK},
		{"student may not list all", "/certificates", studentAccess, http.StatusForbidden},
		{"anonymous listing", "/certificates", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := testRequest{
				client: srv.Client(),
				method: http.MethodGet,
				url:    srv.URL + tc.url,
				token:  tc.token,
			}.make()
			require.Nil(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode, fmt.Sprintf("%s: expected %d got %d", tc.desc, tc.status, res.StatusCode))
		})
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	srv, svc, adminAccess, studentAccess := newCertsServer(t)
	defer srv.Close()

	svcCall := svc.On("UpdateStatus", mock.Anything, cert.CertificateID, certs.Revoked).Return(nil)
	svcCall1 := svc.On("UpdateStatus", mock.Anything, "000000000000", certs.Revoked).Return(svcerr.ErrNotFound)
	defer svcCall.Unset()
	defer svcCall1.Unset()

	cases := []struct {
		desc   string
		id     string
		body   string
		token  string
		status int
	}{
		{
			desc:   "admin revokes",
			id:     cert.CertificateID,
			body:   toJSON(t, map[string]string{"status": "revoked"}),
			token:  adminAccess,
			status: http.StatusOK,
		},
		{
			desc:   "unknown certificate",
			id:     "000000000000",
			body:   toJSON(t, map[string]string{"status": "revoked"}),
			token:  adminAccess,
			status: http.StatusNotFound,
		},
		{
			desc:   "invalid status value",
			id:     cert.CertificateID,
			body:   toJSON(t, map[string]string{"status": "frozen"}),
			token:  adminAccess,
			status: http.StatusBadRequest,
		},
		{
			desc:   "student may not revoke",
			id:     cert.CertificateID,
			body:   toJSON(t, map[string]string{"status": "revoked"}),
			token:  studentAccess,
			status: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := testRequest{
				client:      srv.Client(),
				method:      http.MethodPatch,
				url:         srv.URL + "/certificates/" + tc.id + "/status",
				contentType: contentType,
				token:       tc.token,
				body:        tc.body,
			}.make()
			require.Nil(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode, fmt.Sprintf("%s: expected %d got %d", tc.desc, tc.status, res.StatusCode))
		})
	}
}

func TestBackfillEndpoint(t *testing.T) {
	srv, svc, adminAccess, studentAccess := newCertsServer(t)
	defer srv.Close()

	svcCall := svc.On("BackfillArtifacts", mock.Anything).Return(3, nil)
	defer svcCall.Unset()

	cases := []struct {
		desc    string
		token   string
		status  int
		updated int
	}{
		{
			desc:    "admin backfills",
			token:   adminAccess,
			status:  http.StatusOK,
			updated: 3,
		},
		{
			desc:   "student may not backfill",
			token:  studentAccess,
			status: http.StatusForbidden,
		},
		{
			desc:   "missing token",
			token:  "",
			status: http.StatusUnauthorized,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			res, err := testRequest{
				client: srv.Client(),
				method: http.MethodPost,
				url:    srv.URL + "/certificates/backfill",
				token:  tc.token,
			}.make()
			require.Nil(t, err)
			defer res.Body.Close()
			assert.Equal(t, tc.status, res.StatusCode, fmt.Sprintf("%s: expected %d got %d", tc.desc, tc.status, res.StatusCode))
			if tc.status == http.StatusOK {
				var body map[string]int
				require.Nil(t, json.NewDecoder(res.Body).Decode(&body))
				assert.Equal(t, tc.updated, body["updated"])
			}
		})
	}
}

func TestArtifactEndpoint(t *testing.T) {
	srv, svc, _, _ := newCertsServer(t)
	defer srv.Close()

	svcCall := svc.On("RetrieveArtifact", mock.Anything, cert.CertificateID).Return([]byte("%PDF artifact"), nil)
	svcCall1 := svc.On("RetrieveArtifact", mock.Anything, "000000000000").Return([]byte(nil), svcerr.ErrNotFound)
	defer svcCall.Unset()
	defer svcCall1.Unset()

	t.Run("download with pdf suffix", func(t *testing.T) {
		res, err := testRequest{
			client: srv.Client(),
			method: http.MethodGet,
			url:    srv.URL + "/certificates/artifact/" + cert.CertificateID + ".pdf",
		}.make()
		require.Nil(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))

		body, err := io.ReadAll(res.Body)
		require.Nil(t, err)
		assert.Equal(t, "%PDF artifact", string(body))
	})

	t.Run("unknown artifact is 404", func(t *testing.T) {
		res, err := testRequest{
			client: srv.Client(),
			method: http.MethodGet,
			url:    srv.URL + "/certificates/artifact/000000000000.pdf",
		}.make()
		require.Nil(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
