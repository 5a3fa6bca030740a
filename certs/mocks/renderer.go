// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync"

	"github.com/attesta/attesta/certs"
)

var _ certs.Renderer = (*Renderer)(nil)

// Renderer is a stub renderer producing a fixed payload. It records the
// last certificate it was asked to render.
type Renderer struct {
	// Fail forces Render to fail.
	Fail error

	mu   sync.Mutex
	last certs.Certificate
}

func (r *Renderer) Render(_ context.Context, cert certs.Certificate) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Fail != nil {
		return nil, r.Fail
	}
	r.last = cert

	return []byte("%PDF " + cert.CertificateID), nil
}

// Last returns the certificate passed to the most recent Render call.
func (r *Renderer) Last() certs.Certificate {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.last
}
