// Package storage is the persistent entity store: categories, trackers,
// their weekday schedules and the daily completion log.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/migration"
	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/storage/postgres"
	"github.com/BolkaZ/Tracker/internal/storage/sqlite"
	"github.com/BolkaZ/Tracker/internal/utils"
	"github.com/BolkaZ/Tracker/migrations"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type Option func(*DB)

// WithTimezone overrides the timezone stored in settings.
func WithTimezone(tz string) Option {
	return func(d *DB) { d.timezone = tz }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *DB) { d.now = now }
}

// DB owns the database handle, the day-boundary location and the change hub.
// It is constructed once at startup and handed to every store.
type DB struct {
	target   string
	dialect  Dialect
	timezone string

	conn *sql.DB
	loc  *time.Location
	hub  *Hub
	now  func() time.Time
}

// New prepares a DB for target, which is either a SQLite file path or a
// PostgreSQL connection string. Call Init or Load before use.
func New(target string, opts ...Option) *DB {
	d := &DB{
		target:  target,
		dialect: DialectSQLite,
		loc:     time.Local,
		hub:     NewHub(),
		now:     time.Now,
	}
	if postgres.IsConnString(target) {
		d.dialect = DialectPostgres
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init opens the database, creating it if needed, and applies pending migrations.
func (d *DB) Init(ctx context.Context) error {
	if err := d.open(); err != nil {
		return err
	}

	if _, err := d.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	settings, err := d.GetSettings(ctx)
	if err != nil {
		return err
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
		if err := d.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return d.resolveLocation(settings)
}

// Load opens an initialized database and checks its schema version.
func (d *DB) Load(ctx context.Context) error {
	if d.conn != nil {
		return nil
	}
	if d.dialect == DialectSQLite && !sqlite.Exists(d.target) {
		return ErrNotInitialized
	}
	if err := d.open(); err != nil {
		return err
	}

	runner, err := d.migrationRunner()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(ctx); err != nil {
		return err
	}
	current, err := runner.CurrentVersion(ctx)
	if err != nil {
		return d.wrap("schema version", err)
	}
	if current == 0 {
		return ErrNotInitialized
	}

	settings, err := d.GetSettings(ctx)
	if err != nil {
		return err
	}
	return d.resolveLocation(settings)
}

func (d *DB) open() error {
	if d.conn != nil {
		return nil
	}

	var (
		conn *sql.DB
		err  error
	)
	switch d.dialect {
	case DialectPostgres:
		conn, err = postgres.Open(d.target)
	default:
		conn, err = sqlite.Open(d.target)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	d.conn = conn
	logger.Debug("Opened database", "dialect", d.dialect, "target", d.Target())
	return nil
}

func (d *DB) resolveLocation(settings models.Settings) error {
	tz := settings.Timezone
	if d.timezone != "" {
		tz = d.timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	d.loc = loc
	return nil
}

func (d *DB) migrationRunner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, string(d.dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", d.dialect, err)
	}
	return migration.NewRunner(d.conn, subFS), nil
}

// Migrate applies pending schema migrations and returns how many ran.
func (d *DB) Migrate(ctx context.Context) (int, error) {
	if err := d.open(); err != nil {
		return 0, err
	}
	runner, err := d.migrationRunner()
	if err != nil {
		return 0, err
	}
	return runner.Apply(ctx)
}

// SchemaVersion reports the applied and the latest known schema versions.
func (d *DB) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	if d.conn == nil {
		return 0, 0, ErrNotInitialized
	}
	runner, err := d.migrationRunner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.CurrentVersion(ctx); err != nil {
		return 0, 0, d.wrap("schema version", err)
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// Ping checks that the database answers.
func (d *DB) Ping(ctx context.Context) error {
	if d.conn == nil {
		return ErrNotInitialized
	}
	return d.wrap("ping", d.conn.PingContext(ctx))
}

func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *DB) Dialect() Dialect { return d.dialect }

// Location is the location day boundaries are computed in.
func (d *DB) Location() *time.Location { return d.loc }

// Now returns the current time in the store's location.
func (d *DB) Now() time.Time { return d.now().In(d.loc) }

// Today returns the start of the current day.
func (d *DB) Today() time.Time { return utils.StartOfDay(d.Now(), d.loc) }

// Target returns the database path, or a non-sensitive identifier for PostgreSQL.
func (d *DB) Target() string {
	if d.dialect == DialectPostgres {
		return "postgresql"
	}
	return d.target
}

// Conn exposes the underlying handle for maintenance tasks such as backups.
func (d *DB) Conn() *sql.DB { return d.conn }

// OnChange subscribes fn to every committed mutation of any entity.
func (d *DB) OnChange(fn func(Change)) (unsubscribe func()) {
	return d.hub.Subscribe(fn)
}

// Mutate runs fn in a single transaction. After a successful commit every
// subscriber is notified exactly once before Mutate returns; a failed
// transaction is rolled back and notifies nobody.
func (d *DB) Mutate(ctx context.Context, change Change, fn func(*Tx) error) error {
	if d.conn == nil {
		return ErrNotInitialized
	}

	sqlTx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return d.wrap("begin transaction", err)
	}
	tx := &Tx{tx: sqlTx, dialect: d.dialect}

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Warn("Rollback failed", "error", rbErr)
		}
		return d.wrap(string(change.Op), err)
	}

	if err := sqlTx.Commit(); err != nil {
		return d.wrap("commit", err)
	}
	if tx.id != uuid.Nil {
		change.ID = tx.id
	}

	logger.Debug("Committed change", "op", change.Op, "entities", change.Entities, "id", change.ID)
	d.hub.Notify(change)
	return nil
}

// QueryContext runs a read outside any transaction.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if d.conn == nil {
		return nil, ErrNotInitialized
	}
	rows, err := d.conn.QueryContext(ctx, rebind(d.dialect, query), args...)
	if err != nil {
		return nil, d.wrap("query", err)
	}
	return rows, nil
}

func (d *DB) isUniqueViolation(err error) bool {
	if d.dialect == DialectPostgres {
		return postgres.IsUniqueViolation(err)
	}
	return sqlite.IsUniqueViolation(err)
}

// wrap passes domain and context errors through and reports everything
// else as ErrStorageUnavailable.
func (d *DB) wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsDomainError(err), errors.Is(err, ErrNotInitialized):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	logger.Error("Storage failure", "op", op, "dialect", d.dialect, "error", err)
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
