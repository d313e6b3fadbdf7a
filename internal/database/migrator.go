package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	versionTable = "schema_version"

	// LatestVersion asks MigrateTo for the newest embedded migration.
	LatestVersion int32 = -1
)

// Migrate brings the schema at dsn up to the latest embedded migration.
func Migrate(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	return MigrateTo(ctx, logger, dsn, LatestVersion)
}

// MigrateTo moves the schema up or down to target. Version 0 is an empty
// schema.
func MigrateTo(ctx context.Context, logger *zerolog.Logger, dsn string, target int32) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := newMigrator(ctx, conn)
	if err != nil {
		return err
	}

	latest := int32(len(m.Migrations))
	if target == LatestVersion {
		target = latest
	}
	if target < 0 || target > latest {
		return fmt.Errorf("migration version %d out of range [0, %d]", target, latest)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	log := logger.With().Str("component", "migrator").Int32("from", from).Int32("to", target).Logger()
	if from == target {
		log.Info().Msg("database schema up to date")
		return nil
	}

	m.OnStart = func(sequence int32, name, direction, _ string) {
		log.Debug().Int32("sequence", sequence).Str("name", name).Str("direction", direction).Msg("applying migration")
	}
	if err := m.MigrateTo(ctx, target); err != nil {
		return fmt.Errorf("failed to migrate schema from %d to %d: %w", from, target, err)
	}

	log.Info().Msg("migrated database schema")
	return nil
}

func newMigrator(ctx context.Context, conn *pgx.Conn) (*tern.Migrator, error) {
	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return nil, fmt.Errorf("failed to construct migrator: %w", err)
	}

	files, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	if err := m.LoadMigrations(files); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	return m, nil
}
