// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/pkg/apiutil"
	"github.com/attesta/attesta/pkg/errors"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
)

type sessionKeyType string

// SessionKey is the context key under which the authenticated session is
// stored by AuthenticateMiddleware.
const SessionKey = sessionKeyType("session")

// AuthenticateMiddleware verifies the bearer access token and stores the
// resulting session in the request context. Requests without a valid token
// never reach the wrapped handler.
func AuthenticateMiddleware(tokenizer auth.Tokenizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := apiutil.ExtractBearerToken(r)
			if token == "" {
				EncodeError(r.Context(), apiutil.ErrBearerToken, w)
				return
			}

			session, err := tokenizer.ParseAccess(token)
			if err != nil {
				EncodeError(r.Context(), err, w)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthorizeMiddleware denies the request unless the session role is a member
// of the allowed set. It must be mounted after AuthenticateMiddleware.
func AuthorizeMiddleware(roles ...auth.Role) func(http.Handler) http.Handler {
	allowed := make(map[auth.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				EncodeError(r.Context(), apiutil.ErrBearerToken, w)
				return
			}

			if _, ok := allowed[session.Role]; !ok {
				EncodeError(r.Context(), errors.Wrap(svcerr.ErrAuthorization, auth.ErrInvalidRole), w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext retrieves the session stored by AuthenticateMiddleware.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(SessionKey).(auth.Session)
	return session, ok
}
