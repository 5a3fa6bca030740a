// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains mocks of the certs service dependencies.
package mocks

import (
	"context"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/certs"
	"github.com/stretchr/testify/mock"
)

var _ certs.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

func (m *Service) Issue(ctx context.Context, session auth.Session, studentID, course string) (certs.Certificate, error) {
	ret := m.Called(ctx, session, studentID, course)

	return ret.Get(0).(certs.Certificate), ret.Error(1)
}

func (m *Service) Verify(ctx context.Context, certificateID string) (certs.Verification, error) {
	ret := m.Called(ctx, certificateID)

	return ret.Get(0).(certs.Verification), ret.Error(1)
}

func (m *Service) ListByStudent(ctx context.Context, session auth.Session) ([]certs.Certificate, error) {
	ret := m.Called(ctx, session)

	return ret.Get(0).([]certs.Certificate), ret.Error(1)
}

func (m *Service) ListAll(ctx context.Context) ([]certs.Certificate, error) {
	ret := m.Called(ctx)

	return ret.Get(0).([]certs.Certificate), ret.Error(1)
}

func (m *Service) UpdateStatus(ctx context.Context, certificateID string, status certs.Status) error {
	ret := m.Called(ctx, certificateID, status)

	return ret.Error(0)
}

func (m *Service) BackfillArtifacts(ctx context.Context) (int, error) {
	ret := m.Called(ctx)

	return ret.Get(0).(int), ret.Error(1)
}

func (m *Service) RetrieveArtifact(ctx context.Context, certificateID string) ([]byte, error) {
	ret := m.Called(ctx, certificateID)

	return ret.Get(0).([]byte), ret.Error(1)
}
