// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package jwt_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/attesta/attesta/auth"
	authjwt "github.com/attesta/attesta/auth/jwt"
	"github.com/attesta/attesta/pkg/errors"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("accesssecretaccesssecret")
	refreshSecret = []byte("refreshsecretrefreshsecret")
	userID        = "b43e4b5a-9c61-4f3e-8c9b-6c2e8a1f2a11"
)

func newTokenizer() auth.Tokenizer {
	return authjwt.New(accessSecret, refreshSecret, time.Minute, time.Hour)
}

func TestIssueAndParseAccess(t *testing.T) {
	tok := newTokenizer()

	access, err := tok.IssueAccess(userID, auth.AdminRole)
	require.Nil(t, err, fmt.Sprintf("issuing access token expected to succeed: %s", err))
	assert.NotEmpty(t, access)

	session, err := tok.ParseAccess(access)
	require.Nil(t, err, fmt.Sprintf("parsing access token expected to succeed: %s", err))
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, auth.AdminRole, session.Role)
}

func TestIssueAndParseRefresh(t *testing.T) {
	tok := newTokenizer()

	refresh, err := tok.IssueRefresh(userID)
	require.Nil(t, err, fmt.Sprintf("issuing refresh token expected to succeed: %s", err))

	id, err := tok.ParseRefresh(refresh)
	require.Nil(t, err, fmt.Sprintf("parsing refresh token expected to succeed: %s", err))
	assert.Equal(t, userID, id)
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	tok := newTokenizer()

	refresh, err := tok.IssueRefresh(userID)
	require.Nil(t, err, fmt.Sprintf("issuing refresh token expected to succeed: %s", err))

	_, err = tok.ParseAccess(refresh)
	assert.True(t, errors.Contains(err, svcerr.ErrAuthentication), fmt.Sprintf("expected authentication error, got %s", err))
}

func TestParseRefreshRejectsAccessToken(t *testing.T) {
	tok := newTokenizer()

	access, err := tok.IssueAccess(userID, auth.StudentRole)
	require.Nil(t, err, fmt.Sprintf("issuing access token expected to succeed: %s", err))

	_, err = tok.ParseRefresh(access)
	assert.True(t, errors.Contains(err, svcerr.ErrAuthentication), fmt.Sprintf("expected authentication error, got %s", err))
}

func TestParseExpiredAccess(t *testing.T) {
	tok := authjwt.New(accessSecret, refreshSecret, -time.Minute, time.Hour)

	access, err := tok.IssueAccess(userID, auth.StudentRole)
	require.Nil(t, err, fmt.Sprintf("issuing access token expected to succeed: %s", err))

	_, err = tok.ParseAccess(access)
	assert.True(t, errors.Contains(err, auth.ErrExpiry), fmt.Sprintf("expected expiry error, got %s", err))
}

func TestParseAccessWrongSecret(t *testing.T) {
	tok := newTokenizer()
	other := authjwt.New([]byte("othersecretothersecret"), refreshSecret, time.Minute, time.Hour)

	access, err := other.IssueAccess(userID, auth.StudentRole)
	require.Nil(t, err, fmt.Sprintf("issuing access token expected to succeed: %s", err))

	_, err = tok.ParseAccess(access)
	assert.True(t, errors.Contains(err, svcerr.ErrAuthentication), fmt.Sprintf("expected authentication error, got %s", err))
}

func TestParseAccessMalformed(t *testing.T) {
	tok := newTokenizer()

	cases := []struct {
		desc  string
		token string
	}{
		{desc: "empty token", token: ""},
		{desc: "random text", token: "not-a-jwt"},
		{desc: "truncated token", token: "eyJhbGciOiJIUzUxMiJ9"},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := tok.ParseAccess(tc.token)
			assert.True(t, errors.Contains(err, svcerr.ErrAuthentication), fmt.Sprintf("%s: expected authentication error, got %s", tc.desc, err))
		})
	}
}
