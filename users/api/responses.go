// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"time"

	"github.com/attesta/attesta"
	"github.com/attesta/attesta/pkg/apiutil"
)

var (
	_ attesta.Response = (*createUserRes)(nil)
	_ attesta.Response = (*tokenRes)(nil)
	_ attesta.Response = (*logoutRes)(nil)
	_ attesta.Response = (*viewProfileRes)(nil)
	_ attesta.Response = (*listStudentsRes)(nil)
)

type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type createUserRes struct {
	userView
}

func (res createUserRes) Code() int {
	return http.StatusCreated
}

func (res createUserRes) Headers() map[string]string {
	return map[string]string{}
}

func (res createUserRes) Empty() bool {
	return false
}

type tokenRes struct {
	AccessToken string `json:"access_token"`
	AccessType  string `json:"access_type"`
	Role        string `json:"role,omitempty"`

	refreshToken string
	refreshTTL   time.Duration
	secure       bool
}

func (res tokenRes) Code() int {
	return http.StatusOK
}

func (res tokenRes) Headers() map[string]string {
	return map[string]string{}
}

func (res tokenRes) Empty() bool {
	return false
}

// Cookies delivers the refresh token on an HttpOnly cookie scoped to the
// auth routes, keeping it out of script-readable channels.
func (res tokenRes) Cookies() []*http.Cookie {
	if res.refreshToken == "" {
		return nil
	}

	return []*http.Cookie{{
		Name:     apiutil.RefreshCookie,
		Value:    res.refreshToken,
		Path:     "/auth",
		MaxAge:   int(res.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   res.secure,
		SameSite: http.SameSiteStrictMode,
	}}
}

type logoutRes struct {
	Message string `json:"message"`
}

func (res logoutRes) Code() int {
	return http.StatusOK
}

func (res logoutRes) Headers() map[string]string {
	return map[string]string{}
}

func (res logoutRes) Empty() bool {
	return false
}

// Cookies expires the refresh cookie on the client.
func (res logoutRes) Cookies() []*http.Cookie {
	return []*http.Cookie{{
		Name:     apiutil.RefreshCookie,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
	}}
}

type viewProfileRes struct {
	userView
}

func (res viewProfileRes) Code() int {
	return http.StatusOK
}

func (res viewProfileRes) Headers() map[string]string {
	return map[string]string{}
}

func (res viewProfileRes) Empty() bool {
	return false
}

type listStudentsRes struct {
	Students []userView `json:"students"`
}

func (res listStudentsRes) Code() int {
	return http.StatusOK
}

func (res listStudentsRes) Headers() map[string]string {
	return map[string]string{}
}

func (res listStudentsRes) Empty() bool {
	return false
}
