// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/certs"
	"github.com/go-kit/kit/metrics"
)

var _ certs.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     certs.Service
}

// MetricsMiddleware instruments certs service by tracking request count and latency.
func MetricsMiddleware(svc certs.Service, counter metrics.Counter, latency metrics.Histogram) certs.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (ms *metricsMiddleware) Issue(ctx context.Context, session auth.Session, studentID, course string) (certs.Certificate, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "issue").Add(1)
		ms.latency.With("method", "issue").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Issue(ctx, session, studentID, course)
}

func (ms *metricsMiddleware) Verify(ctx context.Context, certificateID string) (certs.Verification, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "verify").Add(1)
		ms.latency.With("method", "verify").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.Verify(ctx, certificateID)
}

func (ms *metricsMiddleware) ListByStudent(ctx context.Context, session auth.Session) ([]certs.Certificate, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "list_by_student").Add(1)
		ms.latency.With("method", "list_by_student").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.ListByStudent(ctx, session)
}

func (ms *metricsMiddleware) ListAll(ctx context.Context) ([]certs.Certificate, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "list_all").Add(1)
		ms.latency.With("method", "list_all").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.ListAll(ctx)
}

func (ms *metricsMiddleware) UpdateStatus(ctx context.Context, certificateID string, status certs.Status) error {
	defer func(begin time.Time) {
		ms.counter.With("method", "update_status").Add(1)
		ms.latency.With("method", "update_status").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.UpdateStatus(ctx, certificateID, status)
}

func (ms *metricsMiddleware) BackfillArtifacts(ctx context.Context) (int, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "backfill_artifacts").Add(1)
		ms.latency.With("method", "backfill_artifacts").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.BackfillArtifacts(ctx)
}

func (ms *metricsMiddleware) RetrieveArtifact(ctx context.Context, certificateID string) ([]byte, error) {
	defer func(begin time.Time) {
		ms.counter.With("method", "retrieve_artifact").Add(1)
		ms.latency.With("method", "retrieve_artifact").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return ms.svc.RetrieveArtifact(ctx, certificateID)
}
