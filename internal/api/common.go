// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/attesta/attesta"
	"github.com/attesta/attesta/pkg/apiutil"
	"github.com/attesta/attesta/pkg/errors"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
)

// ContentType represents JSON content type.
const ContentType = "application/json"

// Cookier is an optional interface for responses that set HTTP cookies, such
// as the login and logout responses carrying the refresh token.
type Cookier interface {
	Cookies() []*http.Cookie
}

// EncodeResponse encodes successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if cr, ok := response.(Cookier); ok {
		for _, c := range cr.Cookies() {
			http.SetCookie(w, c)
		}
	}

	if ar, ok := response.(attesta.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, svcerr.ErrAuthorization):
		err = unwrap(err)
		w.WriteHeader(http.StatusForbidden)

	case errors.Contains(err, svcerr.ErrAuthentication),
		errors.Contains(err, apiutil.ErrBearerToken),
		errors.Contains(err, apiutil.ErrRefreshToken),
		errors.Contains(err, svcerr.ErrLogin):
		err = unwrap(err)
		w.WriteHeader(http.StatusUnauthorized)

	case errors.Contains(err, svcerr.ErrMalformedEntity),
		errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrMissingID),
		errors.Contains(err, apiutil.ErrMissingName),
		errors.Contains(err, apiutil.ErrMissingEmail),
		errors.Contains(err, apiutil.ErrInvalidEmail),
		errors.Contains(err, apiutil.ErrMissingPass),
		errors.Contains(err, apiutil.ErrPasswordFormat),
		errors.Contains(err, apiutil.ErrMissingCertID),
		errors.Contains(err, apiutil.ErrMissingCourse),
		errors.Contains(err, apiutil.ErrInvalidStatus),
		errors.Contains(err, svcerr.ErrInvalidStatus),
		errors.Contains(err, svcerr.ErrInvalidRole),
		errors.Contains(err, svcerr.ErrInvalidStudent),
		errors.Contains(err, apiutil.ErrValidation):
		err = unwrap(err)
		w.WriteHeader(http.StatusBadRequest)

	case errors.Contains(err, svcerr.ErrNotFound):
		err = unwrap(err)
		w.WriteHeader(http.StatusNotFound)

	case errors.Contains(err, svcerr.ErrConflict):
		err = unwrap(err)
		w.WriteHeader(http.StatusConflict)

	case errors.Contains(err, apiutil.ErrUnsupportedContentType):
		err = unwrap(err)
		w.WriteHeader(http.StatusUnsupportedMediaType)

	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func unwrap(err error) error {
	wrapper, err := errors.Unwrap(err)
	if wrapper != nil {
		return wrapper
	}
	return err
}
