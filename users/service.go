// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package users

import (
	"context"

	"github.com/attesta/attesta"
	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/pkg/errors"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
)

// Service specifies an API that must be fulfilled by the identity service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// Register creates a new student account. Self-registration is open to
	// anonymous callers and always yields the student role.
	Register(ctx context.Context, user User) (User, error)

	// RegisterWithRole creates a privileged (admin or verifier) account on
	// behalf of an admin caller. The created account is not authenticated.
	RegisterWithRole(ctx context.Context, user User, role auth.Role) (User, error)

	// IssueToken authenticates the user by email and password and mints a
	// fresh access/refresh token pair. The new refresh token replaces any
	// previously stored one, invalidating older sessions.
	IssueToken(ctx context.Context, email, secret string) (auth.Token, error)

	// RefreshToken mints a new access token for a presented refresh token.
	// The token must match the value currently stored on the account; a
	// stale token, rotated away by a newer login or cleared by logout,
	// fails closed.
	RefreshToken(ctx context.Context, refreshToken string) (auth.Token, error)

	// Logout clears the stored refresh token of the account owning the
	// presented token. It is idempotent and never fails from the caller's
	// perspective.
	Logout(ctx context.Context, refreshToken string) error

	// ViewProfile returns the account of the authenticated caller.
	ViewProfile(ctx context.Context, session auth.Session) (User, error)

	// ListStudents returns all student accounts.
	ListStudents(ctx context.Context) ([]User, error)
}

var _ Service = (*usersService)(nil)

type usersService struct {
	users     Repository
	hasher    Hasher
	tokenizer auth.Tokenizer
	idp       attesta.IDProvider
}

// New instantiates the users service implementation.
func New(users Repository, hasher Hasher, tokenizer auth.Tokenizer, idp attesta.IDProvider) Service {
	return &usersService{
		users:     users,
		hasher:    hasher,
		tokenizer: tokenizer,
		idp:       idp,
	}
}

func (svc usersService) Register(ctx context.Context, user User) (User, error) {
	user.Role = auth.StudentRole
	return svc.register(ctx, user)
}

func (svc usersService) RegisterWithRole(ctx context.Context, user User, role auth.Role) (User, error) {
	if role != auth.AdminRole && role != auth.VerifierRole {
		return User{}, errors.Wrap(svcerr.ErrInvalidRole, auth.ErrInvalidRole)
	}
	user.Role = role
	return svc.register(ctx, user)
}

func (svc usersService) register(ctx context.Context, user User) (User, error) {
	if err := user.Validate(); err != nil {
		return User{}, errors.Wrap(svcerr.ErrMalformedEntity, err)
	}

	id, err := svc.idp.ID()
	if err != nil {
		return User{}, errors.Wrap(svcerr.ErrUniqueID, err)
	}
	user.ID = id

	hash, err := svc.hasher.Hash(user.Secret)
	if err != nil {
		return User{}, errors.Wrap(svcerr.ErrMalformedEntity, err)
	}
	user.Secret = hash

	saved, err := svc.users.Save(ctx, user)
	if err != nil {
		return User{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}
	saved.Secret = ""

	return saved, nil
}

func (svc usersService) IssueToken(ctx context.Context, email, secret string) (auth.Token, error) {
	// Lookup and hash-compare failures collapse into the same error so the
	// response gives no oracle for which of the two failed.
	dbUser, err := svc.users.RetrieveByEmail(ctx, email)
	if err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrLogin, err)
	}

	if err := svc.hasher.Compare(secret, dbUser.Secret); err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrLogin, err)
	}

	access, err := svc.tokenizer.IssueAccess(dbUser.ID, dbUser.Role)
	if err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrAuthentication, err)
	}
	refresh, err := svc.tokenizer.IssueRefresh(dbUser.ID)
	if err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrAuthentication, err)
	}

	if err := svc.users.UpdateRefreshToken(ctx, dbUser.ID, refresh); err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return auth.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessType:   "Bearer",
		Role:         dbUser.Role,
	}, nil
}

func (svc usersService) RefreshToken(ctx context.Context, refreshToken string) (auth.Token, error) {
	userID, err := svc.tokenizer.ParseRefresh(refreshToken)
	if err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrAuthentication, err)
	}

	dbUser, err := svc.users.RetrieveByID(ctx, userID)
	if err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrAuthentication, err)
	}

	// A validly signed token that is not the one stored on the account has
	// been rotated away or revoked: fail closed.
	if dbUser.RefreshToken == "" || dbUser.RefreshToken != refreshToken {
		return auth.Token{}, errors.Wrap(svcerr.ErrAuthentication, errors.New("refresh token revoked"))
	}

	access, err := svc.tokenizer.IssueAccess(dbUser.ID, dbUser.Role)
	if err != nil {
		return auth.Token{}, errors.Wrap(svcerr.ErrAuthentication, err)
	}

	return auth.Token{
		AccessToken: access,
		AccessType:  "Bearer",
		Role:        dbUser.Role,
	}, nil
}

func (svc usersService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	// Best effort: an invalid or already-cleared token is not an error.
	if err := svc.users.ClearRefreshToken(ctx, refreshToken); err != nil {
		return nil
	}

	return nil
}

func (svc usersService) ViewProfile(ctx context.Context, session auth.Session) (User, error) {
	dbUser, err := svc.users.RetrieveByID(ctx, session.UserID)
	if err != nil {
		return User{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	dbUser.Secret = ""
	dbUser.RefreshToken = ""

	return dbUser, nil
}

func (svc usersService) ListStudents(ctx context.Context) ([]User, error) {
	students, err := svc.users.RetrieveByRole(ctx, auth.StudentRole)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	for i := range students {
		students[i].Secret = ""
		students[i].RefreshToken = ""
	}

	return students, nil
}
