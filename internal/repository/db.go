package repository

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id           TEXT PRIMARY KEY,
	created_at   TIMESTAMP NOT NULL,
	source_name  TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	cnpj         TEXT NOT NULL DEFAULT '',
	outcome      TEXT NOT NULL,
	phase        TEXT NOT NULL,
	reason       TEXT NOT NULL,
	report_json  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations (created_at);
CREATE INDEX IF NOT EXISTS idx_evaluations_cnpj ON evaluations (cnpj);
`

// Open opens (or creates) the sqlite history store and applies the schema.
func Open(ctx context.Context, path string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("history store ready", zap.String("path", path))
	}
	return db, nil
}
