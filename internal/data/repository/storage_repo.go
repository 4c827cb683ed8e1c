package repository

import (
	"context"
	"errors"
	"fmt"

	"seatmap-client/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// StorageRepository is durable per-origin key/value storage, the client's
// equivalent of browser local storage.
type StorageRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const createStorageTable = `
	CREATE TABLE IF NOT EXISTS client_storage (
		origin     TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (origin, key)
	)
`

type postgresStorageRepository struct {
	db     database.PgxIface
	origin string
	log    *zap.Logger
}

func NewPostgresStorageRepository(db database.PgxIface, origin string, log *zap.Logger) StorageRepository {
	return &postgresStorageRepository{
		db:     db,
		origin: origin,
		log:    log.With(zap.String("repository", "storage"), zap.String("driver", "postgres")),
	}
}

// EnsureStorageSchema creates the storage table when missing.
func EnsureStorageSchema(ctx context.Context, db database.PgxIface) error {
	if _, err := db.Exec(ctx, createStorageTable); err != nil {
		return fmt.Errorf("create client_storage table: %w", err)
	}
	return nil
}

func (r *postgresStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM client_storage WHERE origin = $1 AND key = $2`

	var value string
	err := r.db.QueryRow(ctx, query, r.origin, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.log.Error("Failed to read key", zap.Error(err), zap.String("key", key))
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return value, true, nil
}

func (r *postgresStorageRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO client_storage (origin, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (origin, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, r.origin, key, value); err != nil {
		r.log.Error("Failed to write key", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

func (r *postgresStorageRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM client_storage WHERE origin = $1 AND key = $2`

	if _, err := r.db.Exec(ctx, query, r.origin, key); err != nil {
		r.log.Error("Failed to delete key", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}
