// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package auth contains the token types and the Tokenizer contract shared by
// the identity service and the HTTP authentication middleware.
package auth

import "github.com/attesta/attesta/pkg/errors"

// Role is the account role carried as an access token claim. There is no
// hierarchy between roles: every protected operation enumerates the exact
// roles it accepts.
type Role string

const (
	StudentRole  Role = "student"
	VerifierRole Role = "verifier"
	AdminRole    Role = "admin"
)

// ErrInvalidRole indicates an unknown role value.
var ErrInvalidRole = errors.New("invalid account role")

// ErrExpiry indicates that the token is expired.
var ErrExpiry = errors.New("token is expired")

// ToRole converts a string to a Role, failing on unknown values.
func ToRole(s string) (Role, error) {
	switch Role(s) {
	case StudentRole, VerifierRole, AdminRole:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// Session identifies the authenticated caller of a request. It is derived
// from a parsed access token and exposed to handlers via request context.
type Session struct {
	UserID string
	Role   Role
}

// Token is a pair of signed tokens minted on login. AccessType is the
// authorization scheme the access token is meant to be presented with. Role
// is returned alongside so the client can branch without decoding the token.
type Token struct {
	AccessToken  string
	RefreshToken string
	AccessType   string
	Role         Role
}
