// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/attesta/attesta/pkg/errors"

// Errors defined in this file are used by the LoggingErrorEncoder decorator
// to distinguish and log API request validation errors and avoid that service
// errors are logged twice.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrBearerToken indicates missing or invalid bearer user token.
	ErrBearerToken = errors.New("missing or invalid bearer user token")

	// ErrRefreshToken indicates missing or invalid refresh token.
	ErrRefreshToken = errors.New("missing or invalid refresh token")

	// ErrMissingID indicates missing entity ID.
	ErrMissingID = errors.New("missing entity id")

	// ErrMissingName indicates missing account name.
	ErrMissingName = errors.New("missing account name")

	// ErrMissingEmail indicates missing account email.
	ErrMissingEmail = errors.New("missing account email")

	// ErrInvalidEmail indicates malformed account email.
	ErrInvalidEmail = errors.New("invalid account email")

	// ErrMissingPass indicates missing account password.
	ErrMissingPass = errors.New("missing account password")

	// ErrPasswordFormat indicates weak password.
	ErrPasswordFormat = errors.New("password does not meet the requirements")

	// ErrMissingCertID indicates missing certificate identifier.
	ErrMissingCertID = errors.New("missing certificate id")

	// ErrMissingCourse indicates missing certificate course label.
	ErrMissingCourse = errors.New("missing certificate course")

	// ErrInvalidStatus indicates an invalid certificate status value.
	ErrInvalidStatus = errors.New("invalid certificate status")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)
