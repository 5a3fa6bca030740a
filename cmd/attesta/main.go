// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package main contains attesta main function to start the attesta service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/attesta/attesta"
	"github.com/attesta/attesta/auth"
	authjwt "github.com/attesta/attesta/auth/jwt"
	"github.com/attesta/attesta/certs"
	certsapi "github.com/attesta/attesta/certs/api"
	certsmw "github.com/attesta/attesta/certs/middleware"
	"github.com/attesta/attesta/certs/pdf"
	certspg "github.com/attesta/attesta/certs/postgres"
	"github.com/attesta/attesta/certs/storage"
	"github.com/attesta/attesta/logger"
	"github.com/attesta/attesta/pkg/postgres"
	"github.com/attesta/attesta/pkg/prometheus"
	"github.com/attesta/attesta/pkg/server"
	httpserver "github.com/attesta/attesta/pkg/server/http"
	"github.com/attesta/attesta/pkg/uuid"
	"github.com/attesta/attesta/users"
	usersapi "github.com/attesta/attesta/users/api"
	"github.com/attesta/attesta/users/hasher"
	usersmw "github.com/attesta/attesta/users/middleware"
	userspg "github.com/attesta/attesta/users/postgres"
	"github.com/caarlos0/env/v7"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	migrate "github.com/rubenv/sql-migrate"
	"golang.org/x/sync/errgroup"
)

const (
	svcName       = "attesta"
	envPrefixDB   = "ATTESTA_DB_"
	envPrefixHTTP = "ATTESTA_HTTP_"
	defHTTPPort   = "9000"
)

type config struct {
	LogLevel        string        `env:"ATTESTA_LOG_LEVEL"              envDefault:"info"`
	AccessSecret    string        `env:"ATTESTA_ACCESS_TOKEN_SECRET"    envDefault:""`
	RefreshSecret   string        `env:"ATTESTA_REFRESH_TOKEN_SECRET"   envDefault:""`
	AccessDuration  time.Duration `env:"ATTESTA_ACCESS_TOKEN_DURATION"  envDefault:"15m"`
	RefreshDuration time.Duration `env:"ATTESTA_REFRESH_TOKEN_DURATION" envDefault:"24h"`
	ArtifactDir     string        `env:"ATTESTA_ARTIFACT_DIR"           envDefault:"./artifacts"`
	ArtifactTimeout time.Duration `env:"ATTESTA_ARTIFACT_TIMEOUT"       envDefault:"10s"`
	SecureCookie    bool          `env:"ATTESTA_SECURE_COOKIE"          envDefault:"false"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	var exitCode int
	defer logger.ExitWithError(&exitCode)

	l, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %s", err.Error())
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		l.Error("access and refresh token secrets must be set")
		exitCode = 1
		return
	}

	dbConfig := postgres.Config{}
	if err := env.Parse(&dbConfig, env.Options{Prefix: envPrefixDB}); err != nil {
		l.Error(fmt.Sprintf("failed to load %s database configuration : %s", svcName, err))
		exitCode = 1
		return
	}
	db, err := postgres.Setup(dbConfig, migrations())
	if err != nil {
		l.Error(err.Error())
		exitCode = 1
		return
	}
	defer db.Close()

	tokenizer := authjwt.New([]byte(cfg.AccessSecret), []byte(cfg.RefreshSecret), cfg.AccessDuration, cfg.RefreshDuration)

	usersSvc := newUsersService(db, tokenizer, l)
	certsSvc, err := newCertsService(db, cfg, l)
	if err != nil {
		l.Error(fmt.Sprintf("failed to create certs service: %s", err))
		exitCode = 1
		return
	}

	httpServerConfig := server.Config{Port: defHTTPPort}
	if err := env.Parse(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		l.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	mux := chi.NewRouter()
	mux = usersapi.MakeHandler(usersSvc, tokenizer, mux, l, usersapi.Config{
		RefreshTTL:   cfg.RefreshDuration,
		SecureCookie: cfg.SecureCookie,
	})
	mux = certsapi.MakeHandler(certsSvc, tokenizer, mux, l)
	mux.Get("/health", attesta.Health(svcName))
	mux.Get("/version", attesta.Health(svcName))
	mux.Handle("/metrics", promhttp.Handler())

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, mux, l)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, l, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		l.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
		exitCode = 1
	}
}

func migrations() migrate.MemoryMigrationSource {
	src := userspg.Migration()
	src.Migrations = append(src.Migrations, certspg.Migration().Migrations...)

	return src
}

func newUsersService(db *sqlx.DB, tokenizer auth.Tokenizer, l *slog.Logger) users.Service {
	repo := userspg.NewRepository(db)
	svc := users.New(repo, hasher.New(), tokenizer, uuid.New())
	svc = usersmw.LoggingMiddleware(svc, l)
	counter, latency := prometheus.MakeMetrics(svcName, "users")
	svc = usersmw.MetricsMiddleware(svc, counter, latency)

	return svc
}

func newCertsService(db *sqlx.DB, cfg config, l *slog.Logger) (certs.Service, error) {
	artifacts, err := storage.New(cfg.ArtifactDir)
	if err != nil {
		return nil, err
	}

	repo := certspg.NewRepository(db)
	urepo := userspg.NewRepository(db)
	svc := certs.New(repo, urepo, pdf.New(), artifacts, cfg.ArtifactTimeout)
	svc = certsmw.LoggingMiddleware(svc, l)
	counter, latency := prometheus.MakeMetrics(svcName, "certs")
	svc = certsmw.MetricsMiddleware(svc, counter, latency)

	return svc, nil
}
