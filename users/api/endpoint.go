// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"time"

	"github.com/attesta/attesta/auth"
	internalapi "github.com/attesta/attesta/internal/api"
	"github.com/attesta/attesta/pkg/apiutil"
	"github.com/attesta/attesta/pkg/errors"
	"github.com/attesta/attesta/users"
	"github.com/go-kit/kit/endpoint"
)

func registrationEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		user, err := svc.Register(ctx, users.User{
			Name:   req.Name,
			Email:  req.Email,
			Secret: req.Password,
		})
		if err != nil {
			return nil, err
		}

		return createUserRes{toUserView(user)}, nil
	}
}

func roleRegistrationEndpoint(svc users.Service, role auth.Role) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(createUserReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		user, err := svc.RegisterWithRole(ctx, users.User{
			Name:   req.Name,
			Email:  req.Email,
			Secret: req.Password,
		}, role)
		if err != nil {
			return nil, err
		}

		return createUserRes{toUserView(user)}, nil
	}
}

func issueTokenEndpoint(svc users.Service, refreshTTL time.Duration, secure bool) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(loginReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		token, err := svc.IssueToken(ctx, req.Email, req.Password)
		if err != nil {
			return nil, err
		}

		return tokenRes{
			AccessToken:  token.AccessToken,
			AccessType:   token.AccessType,
			Role:         string(token.Role),
			refreshToken: token.RefreshToken,
			refreshTTL:   refreshTTL,
			secure:       secure,
		}, nil
	}
}

func refreshTokenEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(refreshReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		token, err := svc.RefreshToken(ctx, req.refreshToken)
		if err != nil {
			return nil, err
		}

		return tokenRes{
			AccessToken: token.AccessToken,
			AccessType:  token.AccessType,
		}, nil
	}
}

func logoutEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(logoutReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		if err := svc.Logout(ctx, req.refreshToken); err != nil {
			return nil, err
		}

		return logoutRes{Message: "logged out"}, nil
	}
}

func viewProfileEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		session, ok := internalapi.SessionFromContext(ctx)
		if !ok {
			return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrBearerToken)
		}

		user, err := svc.ViewProfile(ctx, session)
		if err != nil {
			return nil, err
		}

		return viewProfileRes{toUserView(user)}, nil
	}
}

func listStudentsEndpoint(svc users.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		students, err := svc.ListStudents(ctx)
		if err != nil {
			return nil, err
		}

		res := listStudentsRes{Students: []userView{}}
		for _, s := range students {
			res.Students = append(res.Students, toUserView(s))
		}

		return res, nil
	}
}

func toUserView(user users.User) userView {
	return userView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}
