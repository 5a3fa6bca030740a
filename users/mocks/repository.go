// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/users"
	"github.com/stretchr/testify/mock"
)

var _ users.Repository = (*Repository)(nil)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, user users.User) (users.User, error) {
	ret := m.Called(ctx, user)

	var r0 users.User
	if rf, ok := ret.Get(0).(func(context.Context, users.User) users.User); ok {
		r0 = rf(ctx, user)
	} else {
		r0 = ret.Get(0).(users.User)
	}

	return r0, ret.Error(1)
}

func (m *Repository) RetrieveByID(ctx context.Context, id string) (users.User, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(users.User), ret.Error(1)
}

func (m *Repository) RetrieveByEmail(ctx context.Context, email string) (users.User, error) {
	ret := m.Called(ctx, email)

	return ret.Get(0).(users.User), ret.Error(1)
}

func (m *Repository) RetrieveByRole(ctx context.Context, role auth.Role) ([]users.User, error) {
	ret := m.Called(ctx, role)

	return ret.Get(0).([]users.User), ret.Error(1)
}

func (m *Repository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	ret := m.Called(ctx, id, token)

	return ret.Error(0)
}

func (m *Repository) ClearRefreshToken(ctx context.Context, token string) error {
	ret := m.Called(ctx, token)

	return ret.Error(0)
}
