// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/attesta/attesta/certs"
	internalapi "github.com/attesta/attesta/internal/api"
	"github.com/attesta/attesta/pkg/apiutil"
	"github.com/attesta/attesta/pkg/errors"
	svcerr "github.com/attesta/attesta/pkg/errors/service"
	"github.com/go-kit/kit/endpoint"
)

func issueCertEndpoint(svc certs.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(issueCertReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		session, ok := internalapi.SessionFromContext(ctx)
		if !ok {
			return nil, svcerr.ErrAuthentication
		}

		cert, err := svc.Issue(ctx, session, req.StudentID, req.Course)
		if err != nil {
			return nil, err
		}

		return issueCertRes{
			CertificateID:  cert.CertificateID,
			CertificateURL: cert.FileURL,
		}, nil
	}
}

func verifyCertEndpoint(svc certs.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(verifyCertReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		verification, err := svc.Verify(ctx, req.CertificateID)
		if err != nil {
			return nil, err
		}

		return verifyCertRes{verification}, nil
	}
}

func listOwnCertsEndpoint(svc certs.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		session, ok := internalapi.SessionFromContext(ctx)
		if !ok {
			return nil, svcerr.ErrAuthentication
		}

		list, err := svc.ListByStudent(ctx, session)
		if err != nil {
			return nil, err
		}

		return listCertsRes{Certificates: list}, nil
	}
}

func listAllCertsEndpoint(svc certs.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		list, err := svc.ListAll(ctx)
		if err != nil {
			return nil, err
		}

		return listCertsRes{Certificates: list}, nil
	}
}

func backfillEndpoint(svc certs.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(backfillReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		updated, err := svc.BackfillArtifacts(ctx)
		if err != nil {
			return nil, err
		}

		return backfillRes{Updated: updated}, nil
	}
}

func updateStatusEndpoint(svc certs.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(updateStatusReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		if err := svc.UpdateStatus(ctx, req.certificateID, certs.Status(req.Status)); err != nil {
			return nil, err
		}

		return updateStatusRes{
			CertificateID: req.certificateID,
			Status:        req.Status,
		}, nil
	}
}

func downloadArtifactEndpoint(svc certs.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(artifactReq)
		if err := req.validate(); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}

		artifact, err := svc.RetrieveArtifact(ctx, req.certificateID)
		if err != nil {
			return nil, err
		}

		return artifactRes{
			certificateID: req.certificateID,
			artifact:      artifact,
		}, nil
	}
}
