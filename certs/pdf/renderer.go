// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package pdf renders certificate artifacts as A4 PDF documents.
package pdf

import (
	"context"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/attesta/attesta/certs"
)

const (
	studentPlaceholder = "Student"
	coursePlaceholder  = "Course"
	issuerPlaceholder  = "Issuer"
)

var _ certs.Renderer = (*renderer)(nil)

type renderer struct{}

// New returns a maroto-backed certificate renderer.
func New() certs.Renderer {
	return &renderer{}
}

func (r *renderer) Render(ctx context.Context, cert certs.Certificate) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	student := cert.StudentName
	if student == "" {
		student = studentPlaceholder
	}
	course := cert.Course
	if course == "" {
		course = coursePlaceholder
	}
	issuer := cert.IssuerName
	if issuer == "" {
		issuer = issuerPlaceholder
	}

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 25, 20)

	primaryColor := color.Color{Red: 41, Green: 128, Blue: 185}
	accentColor := color.Color{Red: 26, Green: 82, Blue: 118}
	subtleColor := color.Color{Red: 189, Green: 195, Blue: 199}
	textSecondary := color.Color{Red: 127, Green: 140, Blue: 141}
	white := color.NewWhite()

	m.SetBackgroundColor(primaryColor)
	m.Row(3, func() { m.Col(12, func() {}) })
	m.SetBackgroundColor(white)

	m.Row(20, func() {})
	m.Row(15, func() {
		m.Col(12, func() {
			m.Text("Certificate of Completion", props.Text{
				Size:  26,
				Style: consts.Bold,
				Color: primaryColor,
				Align: consts.Center,
			})
		})
	})

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("This is to certify that", props.Text{
				Size:  11,
				Style: consts.Italic,
				Color: textSecondary,
				Align: consts.Center,
			})
		})
	})

	m.Row(15, func() {
		m.Col(12, func() {
			m.Text(student, props.Text{
				Size:  20,
				Style: consts.Bold,
				Color: accentColor,
				Align: consts.Center,
			})
		})
	})

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("has successfully completed", props.Text{
				Size:  11,
				Style: consts.Italic,
				Color: textSecondary,
				Align: consts.Center,
			})
		})
	})

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(course, props.Text{
				Size:  16,
				Style: consts.Bold,
				Color: accentColor,
				Align: consts.Center,
			})
		})
	})

	m.Row(10, func() {})
	m.SetBackgroundColor(subtleColor)
	m.Row(0.5, func() { m.Col(12, func() {}) })
	m.SetBackgroundColor(white)
	m.Row(5, func() {})

	m.Row(8, func() {
		m.Col(6, func() {
			m.Text("Issued by: "+issuer, props.Text{
				Size:  10,
				Align: consts.Left,
				Color: textSecondary,
			})
		})
		m.Col(6, func() {
			m.Text("Date: "+cert.IssuedAt.Format("02 Jan 2006"), props.Text{
				Size:  10,
				Align: consts.Right,
				Color: textSecondary,
			})
		})
	})

	m.Row(8, func() {
		m.Col(12, func() {
			m.Text("Certificate ID: "+cert.CertificateID, props.Text{
				Size:  9,
				Style: consts.Italic,
				Align: consts.Center,
				Color: textSecondary,
			})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
