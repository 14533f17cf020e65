package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerSchema is the Postgres DDL for ingestion jobs, archived source files
// and API users. Every statement is idempotent.
var LedgerSchema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
	`CREATE TABLE IF NOT EXISTS ingestion_jobs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		source TEXT NOT NULL,
		recursive BOOLEAN NOT NULL DEFAULT FALSE,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		outcomes JSONB NOT NULL DEFAULT '[]',
		processed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS source_files (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		document_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		mime_type VARCHAR(128) NOT NULL,
		size BIGINT NOT NULL,
		storage_path TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_source_files_document_id ON source_files(document_id)`,
	`CREATE TABLE IF NOT EXISTS api_users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		key_prefix VARCHAR(16) NOT NULL UNIQUE,
		key_hash TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_used_at TIMESTAMPTZ
	)`,
}

// EnsureLedgerSchema applies LedgerSchema in order
func EnsureLedgerSchema(ctx context.Context, db *pgxpool.Pool) error {
	for i, stmt := range LedgerSchema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply ledger statement %d: %w", i+1, err)
		}
	}
	return nil
}
