// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package service

import "github.com/attesta/attesta/pkg/errors"

// Wrapper for Service errors.
var (
	// ErrAuthentication indicates failure occurred while authenticating the entity.
	ErrAuthentication = errors.New("authentication error")

	// ErrAuthorization indicates failure occurred while authorizing the entity.
	ErrAuthorization = errors.New("failed to perform authorization over the entity")

	// ErrLogin indicates wrong login credentials.
	ErrLogin = errors.New("invalid credentials")

	// ErrMalformedEntity indicates a malformed entity specification.
	ErrMalformedEntity = errors.New("malformed entity specification")

	// ErrNotFound indicates a non-existent entity request.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict indicates that entity already exists.
	ErrConflict = errors.New("entity already exists")

	// ErrCreateEntity indicates error in creating entity or entities.
	ErrCreateEntity = errors.New("failed to create entity in the db")

	// ErrViewEntity indicates error in viewing entity or entities.
	ErrViewEntity = errors.New("view entity failed")

	// ErrUpdateEntity indicates error in updating entity or entities.
	ErrUpdateEntity = errors.New("update entity failed")

	// ErrUniqueID indicates an error in generating a unique identifier.
	ErrUniqueID = errors.New("failed to generate unique identifier")

	// ErrInvalidStatus indicates an invalid certificate status.
	ErrInvalidStatus = errors.New("invalid certificate status")

	// ErrInvalidRole indicates an invalid account role.
	ErrInvalidRole = errors.New("invalid account role")

	// ErrInvalidStudent indicates that the certificate subject is not a
	// student account.
	ErrInvalidStudent = errors.New("subject is not a student account")
)
