package store

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"github.com/pkg/errors"
)

// Both stores ship a single LATEST.sql per dialect. Every statement is
// idempotent (IF NOT EXISTS), so the schema is applied unconditionally on
// startup; there is no incremental migration history to track for a
// read-mostly analytics deployment.

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST.sql"

// Migrate applies the latest schema to both stores.
func (s *Store) Migrate(ctx context.Context) error {
	sharedPath := "migration/shared/" + s.profile.SharedDriver + "/" + latestSchemaFileName
	if err := applySchema(ctx, s.shared.GetDB(), sharedPath); err != nil {
		return errors.Wrap(err, "failed to migrate shared store")
	}

	localPath := "migration/local/sqlite/" + latestSchemaFileName
	if err := applySchema(ctx, s.local.GetDB(), localPath); err != nil {
		return errors.Wrap(err, "failed to migrate local store")
	}

	slog.Info("store schema up to date",
		slog.String("shared_driver", s.profile.SharedDriver))
	return nil
}

func applySchema(ctx context.Context, db *sql.DB, path string) error {
	buf, err := migrationFS.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read schema file %s", path)
	}
	if _, err := db.ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrapf(err, "failed to apply schema file %s", path)
	}
	return nil
}
