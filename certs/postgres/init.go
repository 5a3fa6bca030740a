// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package postgres

import migrate "github.com/rubenv/sql-migrate"

// Migration of the certificates table.
func Migration() migrate.MemoryMigrationSource {
	return migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "certs_1",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS certificates (
						id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
						certificate_id VARCHAR(12) NOT NULL UNIQUE,
						student_id     UUID NOT NULL REFERENCES users (id),
						course         VARCHAR(254) NOT NULL,
						issued_by      UUID NOT NULL,
						status         VARCHAR(16) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'revoked')),
						issued_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
						file_url       TEXT
					)`,
					`CREATE INDEX IF NOT EXISTS idx_certificates_student ON certificates (student_id)`,
				},
				Down: []string{
					"DROP TABLE certificates",
				},
			},
		},
	}
}
