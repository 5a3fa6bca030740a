// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package postgres

import migrate "github.com/rubenv/sql-migrate"

// Migration of the users table.
func Migration() migrate.MemoryMigrationSource {
	return migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "users_1",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS users (
						id            UUID PRIMARY KEY,
						name          VARCHAR(254) NOT NULL,
						email         VARCHAR(254) NOT NULL UNIQUE,
						secret        TEXT NOT NULL,
						role          VARCHAR(16) NOT NULL CHECK (role IN ('student', 'verifier', 'admin')),
						refresh_token TEXT,
						created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
					)`,
				},
				Down: []string{
					"DROP TABLE users",
				},
			},
		},
	}
}
