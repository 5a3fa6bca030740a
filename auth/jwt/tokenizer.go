// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package jwt

import (
	"context"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/pkg/errors"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	issuerName = "attesta.auth"

	tokenTypeClaim = "type"
	roleClaim      = "role"

	accessType  = "access"
	refreshType = "refresh"
)

var (
	errInvalidIssuer = errors.New("invalid token issuer value")
	errTokenType     = errors.New("invalid token type")
	// errJWTExpiryKey is used to check if the token is expired.
	errJWTExpiryKey = errors.New(`"exp" not satisfied`)
	// ErrSignJWT indicates an error in signing jwt token.
	ErrSignJWT = errors.New("failed to sign jwt token")
	// ErrValidateJWTToken indicates a failure to validate JWT token.
	ErrValidateJWTToken = errors.New("failed to validate jwt token")
)

var _ auth.Tokenizer = (*tokenizer)(nil)

type tokenizer struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

// New instantiates a JWT tokenizer with separate access and refresh secrets.
func New(accessSecret, refreshSecret []byte, accessDuration, refreshDuration time.Duration) auth.Tokenizer {
	return &tokenizer{
		accessSecret:    accessSecret,
		refreshSecret:   refreshSecret,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}
}

func (tok *tokenizer) IssueAccess(userID string, role auth.Role) (string, error) {
	now := time.Now()
	tkn, err := jwt.NewBuilder().
		Issuer(issuerName).
		IssuedAt(now).
		Subject(userID).
		Claim(roleClaim, string(role)).
		Claim(tokenTypeClaim, accessType).
		Expiration(now.Add(tok.accessDuration)).
		Build()
	if err != nil {
		return "", errors.Wrap(svcerr.ErrAuthentication, err)
	}
	signed, err := jwt.Sign(tkn, jwt.WithKey(jwa.HS512, tok.accessSecret))
	if err != nil {
		return "", errors.Wrap(ErrSignJWT, err)
	}
	return string(signed), nil
}

func (tok *tokenizer) IssueRefresh(userID string) (string, error) {
	now := time.Now()
	tkn, err := jwt.NewBuilder().
		Issuer(issuerName).
		IssuedAt(now).
		Subject(userID).
		Claim(tokenTypeClaim, refreshType).
		Expiration(now.Add(tok.refreshDuration)).
		Build()
	if err != nil {
		return "", errors.Wrap(svcerr.ErrAuthentication, err)
	}
	signed, err := jwt.Sign(tkn, jwt.WithKey(jwa.HS512, tok.refreshSecret))
	if err != nil {
		return "", errors.Wrap(ErrSignJWT, err)
	}
	return string(signed), nil
}

func (tok *tokenizer) ParseAccess(token string) (auth.Session, error) {
	tkn, err := tok.validateToken(token, tok.accessSecret, accessType)
	if err != nil {
		return auth.Session{}, errors.Wrap(svcerr.ErrAuthentication, err)
	}

	roleVal, ok := tkn.Get(roleClaim)
	if !ok {
		return auth.Session{}, errors.Wrap(svcerr.ErrAuthentication, errTokenType)
	}
	roleText, ok := roleVal.(string)
	if !ok {
		return auth.Session{}, errors.Wrap(svcerr.ErrAuthentication, errTokenType)
	}
	role, err := auth.ToRole(roleText)
	if err != nil {
		return auth.Session{}, errors.Wrap(svcerr.ErrAuthentication, err)
	}

	return auth.Session{UserID: tkn.Subject(), Role: role}, nil
}

func (tok *tokenizer) ParseRefresh(token string) (string, error) {
	tkn, err := tok.validateToken(token, tok.refreshSecret, refreshType)
	if err != nil {
		return "", errors.Wrap(svcerr.ErrAuthentication, err)
	}

	return tkn.Subject(), nil
}

func (tok *tokenizer) validateToken(token string, secret []byte, wantType string) (jwt.Token, error) {
	tkn, err := jwt.Parse(
		[]byte(token),
		jwt.WithValidate(true),
		jwt.WithKey(jwa.HS512, secret),
	)
	if err != nil {
		if errors.Contains(err, errJWTExpiryKey) {
			return nil, auth.ErrExpiry
		}

		return nil, err
	}
	validator := jwt.ValidatorFunc(func(_ context.Context, t jwt.Token) jwt.ValidationError {
		if t.Issuer() != issuerName {
			return jwt.NewValidationError(errInvalidIssuer)
		}
		tType, ok := t.Get(tokenTypeClaim)
		if !ok || tType != wantType {
			return jwt.NewValidationError(errTokenType)
		}
		return nil
	})
	if err := jwt.Validate(tkn, jwt.WithValidator(validator)); err != nil {
		return nil, errors.Wrap(ErrValidateJWTToken, err)
	}

	return tkn, nil
}
