// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/attesta/attesta/pkg/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	errMigration               = errors.New("failed to apply migrations")
	errInvalidConnectionString = errors.New("invalid connection string")
)

// Config defines the options that are used when connecting to a PostgreSQL instance.
type Config struct {
	Host        string        `env:"HOST"              envDefault:"localhost"`
	Port        string        `env:"PORT"              envDefault:"5432"`
	User        string        `env:"USER"              envDefault:"attesta"`
	Pass        string        `env:"PASS"              envDefault:"attesta"`
	Name        string        `env:"NAME"              envDefault:""`
	SSLMode     string        `env:"SSL_MODE"          envDefault:"disable"`
	SSLCert     string        `env:"SSL_CERT"          envDefault:""`
	SSLKey      string        `env:"SSL_KEY"           envDefault:""`
	SSLRootCert string        `env:"SSL_ROOT_CERT"     envDefault:""`
	MaxConns    uint16        `env:"MAX_CONNS"         envDefault:"5"`
	MinConns    uint16        `env:"MIN_CONNS"         envDefault:"1"`
	MaxIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"15m"`
}

// Setup creates a connection to the Postgres instance and applies any
// unapplied database migrations. A non-nil error is returned to indicate
// failure.
func Setup(cfg Config, migrations migrate.MemoryMigrationSource) (*sqlx.DB, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	if _, err = migrate.Exec(db.DB, "postgres", migrations, migrate.Up); err != nil {
		return nil, errors.Wrap(errMigration, err)
	}

	return db, nil
}

// Connect creates a connection to the Postgres instance.
func Connect(cfg Config) (*sqlx.DB, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.dbConnURL())
	if err != nil {
		return nil, errors.Wrap(errInvalidConnectionString, err)
	}

	pgxPoolConfig.MaxConnIdleTime = cfg.MaxIdleTime
	pgxPoolConfig.MaxConns = int32(cfg.MaxConns)
	pgxPoolConfig.MinConns = int32(cfg.MinConns)

	dbpool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(dbpool)

	return sqlx.NewDb(sqlDB, "pgx"), nil
}

func (cfg Config) dbConnURL() string {
	urlParts := []string{}

	if cfg.Host != "" {
		urlParts = append(urlParts, "host="+cfg.Host)
	}
	if cfg.Port != "" {
		urlParts = append(urlParts, "port="+cfg.Port)
	}
	if cfg.User != "" {
		urlParts = append(urlParts, "user="+cfg.User)
	}
	if cfg.Pass != "" {
		urlParts = append(urlParts, "password="+cfg.Pass)
	}
	if cfg.Name != "" {
		urlParts = append(urlParts, "dbname="+cfg.Name)
	}
	if cfg.SSLMode != "" {
		urlParts = append(urlParts, "sslmode="+cfg.SSLMode)
	}
	if cfg.SSLCert != "" {
		urlParts = append(urlParts, "sslcert="+cfg.SSLCert)
	}
	if cfg.SSLKey != "" {
		urlParts = append(urlParts, "sslkey="+cfg.SSLKey)
	}
	if cfg.SSLRootCert != "" {
		urlParts = append(urlParts, "sslrootcert="+cfg.SSLRootCert)
	}
	return strings.Join(urlParts, " ")
}
