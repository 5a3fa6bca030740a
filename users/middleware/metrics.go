// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/users"
	"github.com/go-kit/kit/metrics"
)

var _ users.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     users.Service
}

// MetricsMiddleware instruments users service by tracking request count and latency.
func MetricsMiddleware(svc users.Service, counter metrics.Counter, latency metrics.Histogram) users.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (ms *metricsMiddleware) Register(ctx context.Context, user users.User) (users.User, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "register").Add(1)
		ms.latency.With("method", "register").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Register(ctx, user)
}

func (ms *metricsMiddleware) RegisterWithRole(ctx context.Context, user users.User, role auth.Role) (users.User, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "register_with_role").Add(1)
		ms.latency.With("method", "register_with_role").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.RegisterWithRole(ctx, user, role)
}

func (ms *metricsMiddleware) IssueToken(ctx context.Context, email, secret string) (auth.Token, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "issue_token").Add(1)
		ms.latency.With("method", "issue_token").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.IssueToken(ctx, email, secret)
}

func (ms *metricsMiddleware) RefreshToken(ctx context.Context, refreshToken string) (auth.Token, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "refresh_token").Add(1)
		ms.latency.With("method", "refresh_token").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.RefreshToken(ctx, refreshToken)
}

func (ms *metricsMiddleware) Logout(ctx context.Context, refreshToken string) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "logout").Add(1)
		ms.latency.With("method", "logout").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Logout(ctx, refreshToken)
}

func (ms *metricsMiddleware) ViewProfile(ctx context.Context, session auth.Session) (users.User, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "view_profile").Add(1)
		ms.latency.With("method", "view_profile").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.ViewProfile(ctx, session)
}

func (ms *metricsMiddleware) ListStudents(ctx context.Context) ([]users.User, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "list_students").Add(1)
		ms.latency.With("method", "list_students").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.ListStudents(ctx)
}
