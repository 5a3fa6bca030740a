// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/attesta/attesta/auth"
	"github.com/attesta/attesta/pkg/errors"
	repoerr "github.com/attesta/attesta/pkg/errors/repository"
	"github.com/attesta/attesta/pkg/postgres"
	"github.com/attesta/attesta/users"
	"github.com/jmoiron/sqlx"
)

var _ users.Repository = (*usersRepository)(nil)

type usersRepository struct {
	db *sqlx.DB
}

// NewRepository instantiates a PostgreSQL implementation of users repository.
func NewRepository(db *sqlx.DB) users.Repository {
	return &usersRepository{db: db}
}

func (ur usersRepository) Save(ctx context.Context, user users.User) (users.User, error) {
	q := `INSERT INTO users (id, name, email, secret, role, refresh_token, created_at)
		VALUES (:id, :name, :email, :secret, :role, :refresh_token, :created_at)
		RETURNING id, name, email, secret, role, refresh_token, created_at`

	dbu := toDBUser(user)
	if dbu.CreatedAt.IsZero() {
		dbu.CreatedAt = time.Now()
	}

	row, err := ur.db.NamedQueryContext(ctx, q, dbu)
	if err != nil {
		return users.User{}, postgres.HandleError(repoerr.ErrCreateEntity, err)
	}
	defer row.Close()

	row.Next()
	dbu = dbUser{}
	if err := row.StructScan(&dbu); err != nil {
		return users.User{}, errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return toUser(dbu), nil
}

func (ur usersRepository) RetrieveByID(ctx context.Context, id string) (users.User, error) {
	q := `SELECT id, name, email, secret, role, refresh_token, created_at FROM users WHERE id = $1`

	return ur.retrieve(ctx, q, id)
}

func (ur usersRepository) RetrieveByEmail(ctx context.Context, email string) (users.User, error) {
	q := `SELECT id, name, email, secret, role, refresh_token, created_at FROM users WHERE email = $1`

	return ur.retrieve(ctx, q, email)
}

func (ur usersRepository) RetrieveByRole(ctx context.Context, role auth.Role) ([]users.User, error) {
	q := `SELECT id, name, email, secret, role, refresh_token, created_at FROM users
		WHERE role = $1 ORDER BY created_at DESC`

	rows, err := ur.db.QueryxContext(ctx, q, string(role))
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	items := []users.User{}
	for rows.Next() {
		dbu := dbUser{}
		if err := rows.StructScan(&dbu); err != nil {
			return nil, errors.Wrap(repoerr.ErrViewEntity, err)
		}
		items = append(items, toUser(dbu))
	}

	return items, nil
}

func (ur usersRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	q := `UPDATE users SET refresh_token = $2 WHERE id = $1`

	res, err := ur.db.ExecContext(ctx, q, id, token)
	if err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return repoerr.ErrNotFound
	}

	return nil
}

func (ur usersRepository) ClearRefreshToken(ctx context.Context, token string) error {
	// Conditional update: only the user still holding this exact token is
	// cleared, so a token rotated away by a newer login is left alone.
	q := `UPDATE users SET refresh_token = NULL WHERE refresh_token = $1`

	if _, err := ur.db.ExecContext(ctx, q, token); err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}

	return nil
}

func (ur usersRepository) retrieve(ctx context.Context, q string, arg interface{}) (users.User, error) {
	dbu := dbUser{}
	if err := ur.db.QueryRowxContext(ctx, q, arg).StructScan(&dbu); err != nil {
		if err == sql.ErrNoRows {
			return users.User{}, errors.Wrap(repoerr.ErrNotFound, err)
		}
		return users.User{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}

	return toUser(dbu), nil
}

type dbUser struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Secret       string         `db:"secret"`
	Role         string         `db:"role"`
	RefreshToken sql.NullString `db:"refresh_token"`
	CreatedAt    time.Time      `db:"created_at"`
}

func toDBUser(user users.User) dbUser {
	refresh := sql.NullString{String: user.RefreshToken, Valid: user.RefreshToken != ""}

	return dbUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Secret:       user.Secret,
		Role:         string(user.Role),
		RefreshToken: refresh,
		CreatedAt:    user.CreatedAt,
	}
}

func toUser(dbu dbUser) users.User {
	return users.User{
		ID:           dbu.ID,
		Name:         dbu.Name,
		Email:        dbu.Email,
		Secret:       dbu.Secret,
		Role:         auth.Role(dbu.Role),
		RefreshToken: dbu.RefreshToken.String,
		CreatedAt:    dbu.CreatedAt,
	}
}
