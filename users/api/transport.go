// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/internal/api"
	"github.com/attesta/attesta/pkg/apiutil"
	"github.com/attesta/attesta/pkg/errors"
	"github.com/attesta/attesta/users"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
)

// Config carries the transport-level token delivery options.
type Config struct {
	// RefreshTTL bounds the lifetime of the refresh cookie. It should match
	// the refresh token validity window.
	RefreshTTL time.Duration

	// SecureCookie marks the refresh cookie Secure; disable only for local
	// plain-HTTP development.
	SecureCookie bool
}

// MakeHandler mounts the identity endpoints on the given router.
func MakeHandler(svc users.Service, tokenizer auth.Tokenizer, mux *chi.Mux, logger *slog.Logger, cfg Config) *chi.Mux {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", kithttp.NewServer(
			registrationEndpoint(svc),
			decodeCreateUserReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Post("/login", kithttp.NewServer(
			issueTokenEndpoint(svc, cfg.RefreshTTL, cfg.SecureCookie),
			decodeLoginReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Post("/refresh", kithttp.NewServer(
			refreshTokenEndpoint(svc),
			decodeRefreshReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Post("/logout", kithttp.NewServer(
			logoutEndpoint(svc),
			decodeLogoutReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(api.AuthenticateMiddleware(tokenizer))

			r.With(api.AuthorizeMiddleware(auth.AdminRole)).Post("/register-admin", kithttp.NewServer(
				roleRegistrationEndpoint(svc, auth.AdminRole),
				decodeCreateUserReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)

			r.With(api.AuthorizeMiddleware(auth.AdminRole)).Post("/register-verifier", kithttp.NewServer(
				roleRegistrationEndpoint(svc, auth.VerifierRole),
				decodeCreateUserReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)

			r.Get("/me", kithttp.NewServer(
				viewProfileEndpoint(svc),
				decodeViewProfileReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)

			r.With(api.AuthorizeMiddleware(auth.AdminRole)).Get("/students", kithttp.NewServer(
				listStudentsEndpoint(svc),
				decodeListStudentsReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)
		})
	})

	return mux
}

func decodeCreateUserReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeLoginReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeRefreshReq(_ context.Context, r *http.Request) (interface{}, error) {
	return refreshReq{refreshToken: apiutil.ExtractRefreshToken(r)}, nil
}

func decodeLogoutReq(_ context.Context, r *http.Request) (interface{}, error) {
	return logoutReq{refreshToken: apiutil.ExtractRefreshToken(r)}, nil
}

func decodeViewProfileReq(_ context.Context, _ *http.Request) (interface{}, error) {
	return viewProfileReq{}, nil
}

func decodeListStudentsReq(_ context.Context, _ *http.Request) (interface{}, error) {
	return listStudentsReq{}, nil
}
