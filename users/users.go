// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package users

import (
	"context"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/pkg/apiutil"
)

// User represents an account. Each user is identified by its email and
// authenticates with a bcrypt-hashed secret. RefreshToken holds the single
// currently valid refresh token, or an empty string when the user is logged
// out; it is the server-side session state that makes logout and re-login
// real revocation events.
type User struct {
	ID           string
	Name         string
	Email        string
	Secret       string
	Role         auth.Role
	RefreshToken string
	CreatedAt    time.Time
}

// Validate returns an error if user representation is invalid.
func (u User) Validate() error {
	if u.Name == "" {
		return apiutil.ErrMissingName
	}
	if u.Email == "" {
		return apiutil.ErrMissingEmail
	}
	if !govalidator.IsEmail(u.Email) {
		return apiutil.ErrInvalidEmail
	}
	if u.Secret == "" {
		return apiutil.ErrMissingPass
	}

	return nil
}

// Repository specifies an account persistence API.
type Repository interface {
	// Save persists the user. A unique violation on email is reported as a
	// conflict error.
	Save(ctx context.Context, user User) (User, error)

	// RetrieveByID retrieves user by its unique identifier.
	RetrieveByID(ctx context.Context, id string) (User, error)

	// RetrieveByEmail retrieves user by its email. Email match is
	// case-sensitive.
	RetrieveByEmail(ctx context.Context, email string) (User, error)

	// RetrieveByRole retrieves all users holding the given role.
	RetrieveByRole(ctx context.Context, role auth.Role) ([]User, error)

	// UpdateRefreshToken overwrites the stored refresh token for the user.
	// The write is last-write-wins: a concurrent login leaves only the later
	// token valid, which is the single-active-session semantic.
	UpdateRefreshToken(ctx context.Context, id, token string) error

	// ClearRefreshToken clears the stored refresh token of whichever user
	// currently holds the given value. The compare-and-clear is a single
	// conditional update, so a concurrent rotation cannot be lost. Clearing
	// a token no user holds is not an error.
	ClearRefreshToken(ctx context.Context, token string) error
}

// Hasher specifies an API for generating hashes of an arbitrary textual
// content.
type Hasher interface {
	// Hash generates the hashed string.
	Hash(pwd string) (string, error)

	// Compare compares plain and hashed string.
	Compare(plain, hashed string) error
}
