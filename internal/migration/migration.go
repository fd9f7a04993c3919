package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BolkaZ/Tracker/internal/logger"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner manages database schema migrations. Migration files are named
// NNN_name.sql and applied in version order, each in its own transaction.
type Runner struct {
	db *sql.DB
	fs fs.FS
}

// NewRunner creates a new migration runner
func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{
		db: db,
		fs: migrationFS,
	}
}

// EnsureSchemaVersionTable creates the schema_version table if it doesn't exist
func (r *Runner) EnsureSchemaVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`)
	return err
}

// CurrentVersion returns the current schema version, or 0 for a fresh database.
func (r *Runner) CurrentVersion(ctx context.Context) (int, error) {
	if err := r.EnsureSchemaVersionTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	err := r.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// setVersionSQL avoids bind parameters so the same statement runs on every dialect.
func setVersionSQL(version int) string {
	return "INSERT INTO schema_version (version) VALUES (" + strconv.Itoa(version) + ")"
}

// SetVersion overwrites the recorded schema version.
func (r *Runner) SetVersion(ctx context.Context, version int) error {
	if err := r.EnsureSchemaVersionTable(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, setVersionSQL(version)); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}

// ReadMigrationFiles parses the migration files, sorted by version.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		// "001_init.sql" -> 1
		prefix, name, ok := strings.Cut(file.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file.Name())
		}

		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("invalid version number in filename %s: %w", file.Name(), err)
		}
		if version < 1 {
			return nil, fmt.Errorf("invalid version number in filename %s: version must be at least 1", file.Name())
		}

		content, err := fs.ReadFile(r.fs, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(name, ".sql"),
			SQL:     string(content),
		})
	}

	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })

	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// LatestVersion returns the highest migration version available
func (r *Runner) LatestVersion() (int, error) {
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}
	return migrations[len(migrations)-1].Version, nil
}

// Pending returns the migrations newer than the database's current version.
func (r *Runner) Pending(ctx context.Context) ([]Migration, error) {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return nil, err
	}
	if n := len(migrations); n > 0 && current > migrations[n-1].Version {
		return nil, newerSchemaError(current, migrations[n-1].Version)
	}

	var pending []Migration
	for _, m := range migrations {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Apply applies all pending migrations and returns how many ran.
func (r *Runner) Apply(ctx context.Context) (int, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		logger.Debug("Database schema is up to date")
		return 0, nil
	}

	start := time.Now()
	applied := 0
	for _, m := range pending {
		if err := r.apply(ctx, m); err != nil {
			return applied, err
		}
		applied++
		logger.Info("Applied migration", "version", m.Version, "name", m.Name)
	}

	logger.Info("Migrations complete", "applied", applied, "duration", time.Since(start))
	return applied, nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version in migration %d: %w", m.Version, err)
	}
	if _, err := tx.ExecContext(ctx, setVersionSQL(m.Version)); err != nil {
		return fmt.Errorf("failed to set version in migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ValidateVersion checks if the database version is compatible with the application
func (r *Runner) ValidateVersion(ctx context.Context) error {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	latest, err := r.LatestVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return newerSchemaError(current, latest)
	}
	return nil
}

func newerSchemaError(current, latest int) error {
	return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", current, latest)
}
