// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

// Package logger provides a structured JSON logger backed by log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON slog logger writing to w at the given level.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(levelText))); err != nil {
		return nil, fmt.Errorf("invalid log level: %s", levelText)
	}

	logHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})

	return slog.New(logHandler), nil
}

// ExitWithError closes the process with the given exit code. It is meant to
// be deferred from main so that cleanup deferred later still runs.
func ExitWithError(code *int) {
	os.Exit(*code)
}
