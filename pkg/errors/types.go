// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package errors

var (
	// ErrMalformedEntity indicates a malformed entity specification.
	ErrMalformedEntity = New("malformed entity specification")

	// ErrUnidentified indicates unidentified error.
	ErrUnidentified = New("unidentified error")
)
