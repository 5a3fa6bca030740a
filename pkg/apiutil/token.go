// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package apiutil

import (
	"net/http"
	"strings"
)

// BearerPrefix represents the token prefix for Bearer authentication scheme.
const BearerPrefix = "Bearer "

// RefreshCookie is the name of the cookie carrying the refresh token. The
// cookie is HttpOnly so the token never crosses a script-readable channel.
const RefreshCookie = "refresh_token"

// ExtractBearerToken returns value of the bearer token. If there is no bearer token - an empty value is returned.
func ExtractBearerToken(r *http.Request) string {
	token := r.Header.Get("Authorization")

	if !strings.HasPrefix(token, BearerPrefix) {
		return ""
	}

	return strings.TrimPrefix(token, BearerPrefix)
}

// ExtractRefreshToken returns the value of the refresh token cookie. If the
// cookie is absent - an empty value is returned.
func ExtractRefreshToken(r *http.Request) string {
	c, err := r.Cookie(RefreshCookie)
	if err != nil {
		return ""
	}

	return c.Value
}
