// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/certs"
)

var _ certs.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    certs.Service
}

// LoggingMiddleware adds logging facilities to the certs service.
func LoggingMiddleware(svc certs.Service, logger *slog.Logger) certs.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) Issue(ctx context.Context, session auth.Session, studentID, course string) (c certs.Certificate, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("certificate",
				slog.String("certificate_id", c.CertificateID),
				slog.String("student_id", studentID),
				slog.String("course", course),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Issue certificate failed", args...)
			return
		}
		if c.FileURL == "" {
			args = append(args, slog.Bool("artifact_missing", true))
		}
		lm.logger.Info("Issue certificate completed successfully", args...)
	}(time.Now())
	return lm.svc.Issue(ctx, session, studentID, course)
}

func (lm *loggingMiddleware) Verify(ctx context.Context, certificateID string) (v certs.Verification, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("certificate_id", certificateID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Verify certificate failed", args...)
			return
		}
		args = append(args, slog.Bool("valid", v.Valid))
		lm.logger.Info("Verify certificate completed successfully", args...)
	}(time.Now())
	return lm.svc.Verify(ctx, certificateID)
}

func (lm *loggingMiddleware) ListByStudent(ctx context.Context, session auth.Session) (cs []certs.Certificate, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("student_id", session.UserID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List student certificates failed", args...)
			return
		}
		lm.logger.Info("List student certificates completed successfully", args...)
	}(time.Now())
	return lm.svc.ListByStudent(ctx, session)
}

func (lm *loggingMiddleware) ListAll(ctx context.Context) (cs []certs.Certificate, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List all certificates failed", args...)
			return
		}
		lm.logger.Info("List all certificates completed successfully", args...)
	}(time.Now())
	return lm.svc.ListAll(ctx)
}

func (lm *loggingMiddleware) UpdateStatus(ctx context.Context, certificateID string, status certs.Status) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("certificate_id", certificateID),
			slog.String("status", string(status)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Update certificate status failed", args...)
			return
		}
		lm.logger.Info("Update certificate status completed successfully", args...)
	}(time.Now())
	return lm.svc.UpdateStatus(ctx, certificateID, status)
}

func (lm *loggingMiddleware) BackfillArtifacts(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("healed", n),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Backfill artifacts failed", args...)
			return
		}
		lm.logger.Info("Backfill artifacts completed successfully", args...)
	}(time.Now())
	return lm.svc.BackfillArtifacts(ctx)
}

func (lm *loggingMiddleware) RetrieveArtifact(ctx context.Context, certificateID string) (a []byte, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("certificate_id", certificateID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Retrieve certificate artifact failed", args...)
			return
		}
		lm.logger.Info("Retrieve certificate artifact completed successfully", args...)
	}(time.Now())
	return lm.svc.RetrieveArtifact(ctx, certificateID)
}
