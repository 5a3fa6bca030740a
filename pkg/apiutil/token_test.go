// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package apiutil_test

import (
	"net/http"
	"testing"

	"github.com/attesta/attesta/pkg/apiutil"
	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		desc    string
		request *http.Request
		token   string
	}{
		{
			desc: "valid bearer token",
			request: &http.Request{
				Header: map[string][]string{
					"Authorization": {"Bearer 123"},
				},
			},
			token: "123",
		},
		{
			desc: "invalid bearer token",
			request: &http.Request{
				Header: map[string][]string{
					"Authorization": {"123"},
				},
			},
			token: "",
		},
		{
			desc: "empty bearer token",
			request: &http.Request{
				Header: map[string][]string{
					"Authorization": {""},
				},
			},
			token: "",
		},
		{
			desc: "empty header",
			request: &http.Request{
				Header: map[string][]string{},
			},
			token: "",
		},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			token := apiutil.ExtractBearerToken(c.request)
			assert.Equal(t, c.token, token)
		})
	}
}

func TestExtractRefreshToken(t *testing.T) {
	withCookie, _ := http.NewRequest(http.MethodPost, "/auth/refresh", nil)
	withCookie.AddCookie(&http.Cookie{Name: apiutil.RefreshCookie, Value: "123"})

	wrongCookie, _ := http.NewRequest(http.MethodPost, "/auth/refresh", nil)
	wrongCookie.AddCookie(&http.Cookie{Name: "session", Value: "123"})

	bare, _ := http.NewRequest(http.MethodPost, "/auth/refresh", nil)

	cases := []struct {
		desc    string
		request *http.Request
		token   string
	}{
		{
			desc:    "valid refresh cookie",
			request: withCookie,
			token:   "123",
		},
		{
			desc:    "different cookie",
			request: wrongCookie,
			token:   "",
		},
		{
			desc:    "no cookie",
			request: bare,
			token:   "",
		},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			token := apiutil.ExtractRefreshToken(c.request)
			assert.Equal(t, c.token, token)
		})
	}
}
