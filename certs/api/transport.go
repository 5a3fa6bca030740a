// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package api contains the HTTP transport of the certificates service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/certs"
	"github.com/attesta/attesta/internal/api"
	"github.com/attesta/attesta/pkg/apiutil"
	"github.com/attesta/attesta/pkg/errors"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
)

// MakeHandler mounts the certificates endpoints on the given router.
func MakeHandler(svc certs.Service, tokenizer auth.Tokenizer, mux *chi.Mux, logger *slog.Logger) *chi.Mux {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Route("/certificates", func(r chi.Router) {
		r.Post("/verify", kithttp.NewServer(
			verifyCertEndpoint(svc),
			decodeVerifyCertReq,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/artifact/{certificateID}", kithttp.NewServer(
			downloadArtifactEndpoint(svc),
			decodeArtifactReq,
			encodeArtifactResponse,
			opts...,
		).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(api.AuthenticateMiddleware(tokenizer))

			r.With(api.AuthorizeMiddleware(auth.AdminRole)).Post("/issue", kithttp.NewServer(
				issueCertEndpoint(svc),
				decodeIssueCertReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)

			r.With(api.AuthorizeMiddleware(auth.StudentRole)).Get("/my", kithttp.NewServer(
				listOwnCertsEndpoint(svc),
				decodeListCertsReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)

			r.With(api.AuthorizeMiddleware(auth.AdminRole)).Get("/", kithttp.NewServer(
				listAllCertsEndpoint(svc),
				decodeListCertsReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)

			r.With(api.AuthorizeMiddleware(auth.AdminRole)).Post("/backfill", kithttp.NewServer(
				backfillEndpoint(svc),
				decodeBackfillReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)

			r.With(api.AuthorizeMiddleware(auth.AdminRole)).Patch("/{certificateID}/status", kithttp.NewServer(
				updateStatusEndpoint(svc),
				decodeUpdateStatusReq,
				api.EncodeResponse,
				opts...,
			).ServeHTTP)
		})
	})

	return mux
}

func decodeIssueCertReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req issueCertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeVerifyCertReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req verifyCertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeListCertsReq(_ context.Context, _ *http.Request) (interface{}, error) {
	return listCertsReq{}, nil
}

func decodeBackfillReq(_ context.Context, _ *http.Request) (interface{}, error) {
	return backfillReq{}, nil
}

func decodeUpdateStatusReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	req := updateStatusReq{certificateID: chi.URLParam(r, "certificateID")}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return req, nil
}

func decodeArtifactReq(_ context.Context, r *http.Request) (interface{}, error) {
	// Artifact URLs carry a .pdf suffix; the identifier is the stem.
	id := strings.TrimSuffix(chi.URLParam(r, "certificateID"), ".pdf")

	return artifactReq{certificateID: id}, nil
}

type artifactRes struct {
	certificateID string
	artifact      []byte
}

func encodeArtifactResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	res := response.(artifactRes)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.certificateID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(res.artifact)

	return err
}
