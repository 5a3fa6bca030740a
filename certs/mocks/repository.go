// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/attesta/attesta/certs"
	"github.com/stretchr/testify/mock"
)

var _ certs.Repository = (*Repository)(nil)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, cert certs.Certificate) (certs.Certificate, error) {
	ret := m.Called(ctx, cert)

	var r0 certs.Certificate
	if rf, ok := ret.Get(0).(func(context.Context, certs.Certificate) certs.Certificate); ok {
		r0 = rf(ctx, cert)
	} else {
		r0 = ret.Get(0).(certs.Certificate)
	}

	return r0, ret.Error(1)
}

func (m *Repository) RetrieveByCertID(ctx context.Context, certificateID string) (certs.Certificate, error) {
	ret := m.Called(ctx, certificateID)

	return ret.Get(0).(certs.Certificate), ret.Error(1)
}

func (m *Repository) RetrieveByStudent(ctx context.Context, studentID string) ([]certs.Certificate, error) {
	ret := m.Called(ctx, studentID)

	return ret.Get(0).([]certs.Certificate), ret.Error(1)
}

func (m *Repository) RetrieveAll(ctx context.Context) ([]certs.Certificate, error) {
	ret := m.Called(ctx)

	return ret.Get(0).([]certs.Certificate), ret.Error(1)
}

func (m *Repository) UpdateFileURL(ctx context.Context, certificateID, fileURL string) error {
	ret := m.Called(ctx, certificateID, fileURL)

	return ret.Error(0)
}

func (m *Repository) UpdateStatus(ctx context.Context, certificateID string, status certs.Status) error {
	ret := m.Called(ctx, certificateID, status)

	return ret.Error(0)
}
