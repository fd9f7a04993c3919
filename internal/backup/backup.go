// Package backup keeps timestamped copies of the SQLite database.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/storage/sqlite"
)

const timestampFormat = "20060102-150405"

// ErrInUse is returned when a restore is attempted while another tracker
// process may hold the database open.
var ErrInUse = errors.New("another tracker process is running, close it before restoring")

// Info describes one backup file
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	dbPath    string
	backupDir string

	now       func() time.Time
	processes func() ([]ps.Process, error)
	pid       int
}

// NewManager creates a manager that stores backups next to the database,
// in the backups directory.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
		processes: ps.Processes,
		pid:       os.Getpid(),
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new backup and removes the oldest ones beyond the
// retention limit.
func (m *Manager) Create(ctx context.Context) (string, error) {
	path, err := m.create(ctx)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if !sqlite.Exists(m.dbPath) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	src, err := sql.Open(sqlite.DriverName, m.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(ctx, src); err != nil {
		return "", fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	logger.Info("Created backup", "path", path)
	return path, nil
}

// nextPath picks a file name that does not exist yet.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	for n := 1; fileExists(path); n++ {
		if n > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, n, constants.BackupFileSuffix))
	}
	return path, nil
}

// List returns every backup, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: stamp,
			Size:      info.Size(),
		})
	}

	slices.SortStableFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

// parseName extracts the timestamp of tracker-YYYYMMDD-HHMMSS[-N].db.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stamp) > len(timestampFormat) {
		stamp = stamp[:len(timestampFormat)]
	}
	t, err := time.ParseInLocation(timestampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with a backup. The current database is
// backed up first and the swap is an atomic rename.
func (m *Manager) Restore(ctx context.Context, backupPath string) error {
	if !fileExists(backupPath) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.ensureNotRunning(); err != nil {
		return err
	}
	if err := verifyFile(ctx, backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if sqlite.Exists(m.dbPath) {
		current, err := m.create(ctx)
		if err != nil {
			return fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		logger.Info("Backed up current database before restore", "path", current)
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}

	// stale WAL files belong to the replaced database
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(m.dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to remove stale WAL file", "path", m.dbPath+suffix, "error", err)
		}
	}

	logger.Info("Restored database", "from", backupPath)
	return nil
}

// ensureNotRunning refuses while another tracker process is alive.
func (m *Manager) ensureNotRunning() error {
	procs, err := m.processes()
	if err != nil {
		logger.Warn("Failed to list processes", "error", err)
		return nil
	}
	for _, p := range procs {
		if p.Pid() == m.pid {
			continue
		}
		name := strings.TrimSuffix(p.Executable(), ".exe")
		if name == constants.AppName {
			return fmt.Errorf("%w (pid %d)", ErrInUse, p.Pid())
		}
	}
	return nil
}

func verifyFile(ctx context.Context, path string) error {
	db, err := sql.Open(sqlite.DriverName, path)
	if err != nil {
		return err
	}
	defer db.Close()
	return verify(ctx, db)
}

// verify checks that db is a readable tracker database.
func verify(ctx context.Context, db *sql.DB) error {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('schema_version', 'trackers')").Scan(&n)
	if err != nil {
		return err
	}
	if n != 2 {
		return errors.New("not a tracker database")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
