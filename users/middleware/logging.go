// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/users"
)

var _ users.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    users.Service
}

// LoggingMiddleware adds logging facilities to the users service.
func LoggingMiddleware(svc users.Service, logger *slog.Logger) users.Service {
	return &loggingMiddleware{logger, svc}
}

func (lm *loggingMiddleware) Register(ctx context.Context, user users.User) (u users.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("user",
				slog.String("id", u.ID),
				slog.String("email", user.Email),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Register student failed", args...)
			return
		}
		lm.logger.Info("Register student completed successfully", args...)
	}(time.Now())
	return lm.svc.Register(ctx, user)
}

func (lm *loggingMiddleware) RegisterWithRole(ctx context.Context, user users.User, role auth.Role) (u users.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("role", string(role)),
			slog.Group("user",
				slog.String("id", u.ID),
				slog.String("email", user.Email),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Register privileged account failed", args...)
			return
		}
		lm.logger.Info("Register privileged account completed successfully", args...)
	}(time.Now())
	return lm.svc.RegisterWithRole(ctx, user, role)
}

func (lm *loggingMiddleware) IssueToken(ctx context.Context, email, secret string) (t auth.Token, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Issue token failed", args...)
			return
		}
		args = append(args, slog.String("role", string(t.Role)))
		lm.logger.Info("Issue token completed successfully", args...)
	}(time.Now())
	return lm.svc.IssueToken(ctx, email, secret)
}

func (lm *loggingMiddleware) RefreshToken(ctx context.Context, refreshToken string) (t auth.Token, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Refresh token failed", args...)
			return
		}
		lm.logger.Info("Refresh token completed successfully", args...)
	}(time.Now())
	return lm.svc.RefreshToken(ctx, refreshToken)
}

func (lm *loggingMiddleware) Logout(ctx context.Context, refreshToken string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		lm.logger.Info("Logout completed", args...)
	}(time.Now())
	return lm.svc.Logout(ctx, refreshToken)
}

func (lm *loggingMiddleware) ViewProfile(ctx context.Context, session auth.Session) (u users.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("user_id", session.UserID),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View profile failed", args...)
			return
		}
		lm.logger.Info("View profile completed successfully", args...)
	}(time.Now())
	return lm.svc.ViewProfile(ctx, session)
}

func (lm *loggingMiddleware) ListStudents(ctx context.Context) (us []users.User, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List students failed", args...)
			return
		}
		lm.logger.Info("List students completed successfully", args...)
	}(time.Now())
	return lm.svc.ListStudents(ctx)
}
