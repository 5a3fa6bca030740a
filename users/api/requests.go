// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/asaskevich/govalidator"
	"github.com/attesta/attesta/pkg/apiutil"
)

type createUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req createUserReq) validate() error {
	if req.Name == "" {
		return apiutil.ErrMissingName
	}
	if req.Email == "" {
		return apiutil.ErrMissingEmail
	}
	if !govalidator.IsEmail(req.Email) {
		return apiutil.ErrInvalidEmail
	}
	if req.Password == "" {
		return apiutil.ErrMissingPass
	}

	return nil
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req loginReq) validate() error {
	if req.Email == "" {
		return apiutil.ErrMissingEmail
	}
	if req.Password == "" {
		return apiutil.ErrMissingPass
	}

	return nil
}

type refreshReq struct {
	refreshToken string
}

func (req refreshReq) validate() error {
	if req.refreshToken == "" {
		return apiutil.ErrRefreshToken
	}

	return nil
}

type logoutReq struct {
	refreshToken string
}

// Logout is idempotent: an absent token is not a validation failure.
func (req logoutReq) validate() error {
	return nil
}

type viewProfileReq struct{}

type listStudentsReq struct{}
