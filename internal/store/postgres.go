package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"vitalsd/internal/config"
	"vitalsd/internal/logger"
	"vitalsd/internal/metrics"
)

const archiveContentType = "application/json"

// PostgresArchive stores JSON documents in a single table keyed by
// object path, one row per archived record.
type PostgresArchive struct {
	db    *sql.DB
	table string
}

// NewPostgresArchive opens the archive database and ensures the
// archive table exists.
func NewPostgresArchive(ctx context.Context, cfg config.ArchiveConfig) (*PostgresArchive, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}

	a := &PostgresArchive{db: db, table: cfg.Table}
	if err := a.ensureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log := logger.WithComponent("archive_store")
	log.Info().
		Str("table", cfg.Table).
		Msg("postgres archive store initialized")

	return a, nil
}

func (a *PostgresArchive) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			object_key   TEXT PRIMARY KEY,
			content_type TEXT NOT NULL,
			body         JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, a.table)

	if _, err := a.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure archive table: %w", err)
	}
	return nil
}

// Put writes one JSON document under the given object key. Re-putting
// the same key overwrites the body, matching object-store semantics.
func (a *PostgresArchive) Put(ctx context.Context, objectKey string, body []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (object_key, content_type, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (object_key)
		DO UPDATE SET content_type = EXCLUDED.content_type, body = EXCLUDED.body`, a.table)

	start := time.Now()
	_, err := a.db.ExecContext(ctx, query, objectKey, archiveContentType, body)
	metrics.StoreWriteDuration.WithLabelValues("archive").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.StoreWriteFailures.WithLabelValues("archive").Inc()
		return fmt.Errorf("archive store write %s: %w", objectKey, err)
	}
	return nil
}

// HealthCheck pings the database.
func (a *PostgresArchive) HealthCheck(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Close closes the database handle.
func (a *PostgresArchive) Close() error {
	return a.db.Close()
}
