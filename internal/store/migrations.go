package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			decimal_separator TEXT NOT NULL DEFAULT 'DOT' CHECK (decimal_separator IN ('DOT','COMMA')),
			fraction_digits   INTEGER NOT NULL DEFAULT 2,
			time_zone_offset  INTEGER NOT NULL DEFAULT 0,
			date_pattern      TEXT NOT NULL DEFAULT '2006-01-02',
			periodicity       TEXT NOT NULL DEFAULT 'MONTHLY' CHECK (periodicity IN ('DAILY','MONTHLY','YEARLY')),
			created_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id              TEXT PRIMARY KEY,
			book_id         TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			name            TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			type            TEXT NOT NULL CHECK (type IN ('ASSET','LIABILITY','INCOMING','OUTGOING')),
			archived        INTEGER NOT NULL DEFAULT 0,
			group_names     TEXT NOT NULL DEFAULT '[]',
			properties      TEXT NOT NULL DEFAULT '{}',
			created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			UNIQUE (book_id, normalized_name)
		)`,

		// "groups" is a keyword in recent SQLite.
		`CREATE TABLE IF NOT EXISTS account_groups (
			id              TEXT PRIMARY KEY,
			book_id         TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			name            TEXT NOT NULL,
			normalized_name TEXT NOT NULL,
			parent          TEXT NOT NULL DEFAULT '',
			type            TEXT NOT NULL DEFAULT '',
			hidden          INTEGER NOT NULL DEFAULT 0,
			properties      TEXT NOT NULL DEFAULT '{}',
			created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			UNIQUE (book_id, normalized_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_groups_parent ON account_groups(book_id, parent)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id          TEXT PRIMARY KEY,
			book_id     TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			periodicity TEXT NOT NULL,
			payload     TEXT NOT NULL,
			created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_book ON snapshots(book_id, created_at)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
