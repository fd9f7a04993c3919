package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/storage"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

// setupTestDB creates an initialized tracker database holding one category.
func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tracker.db")

	db := storage.New(dbPath, storage.WithTimezone("UTC"))
	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	if _, err := storage.NewCategoryStore(db).Create(ctx, "Health"); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Failed to close database: %v", err)
	}
	return dbPath
}

func newTestManager(dbPath string) *Manager {
	m := NewManager(dbPath)
	m.processes = func() ([]ps.Process, error) { return nil, nil }
	return m
}

func categoryTitles(t *testing.T, dbPath string) []string {
	t.Helper()
	db := storage.New(dbPath, storage.WithTimezone("UTC"))
	ctx := context.Background()
	if err := db.Load(ctx); err != nil {
		t.Fatalf("Failed to load database: %v", err)
	}
	defer db.Close()

	cats, err := storage.NewCategoryStore(db).List(ctx)
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	titles := make([]string, len(cats))
	for i, c := range cats {
		titles[i] = c.Title
	}
	return titles
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := newTestManager(dbPath)

	path, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to unexpected directory: %s", path)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		t.Errorf("unexpected backup name %q", name)
	}
	if got := categoryTitles(t, path); len(got) != 1 || got[0] != "Health" {
		t.Errorf("backup contents = %v, want [Health]", got)
	}
}

func TestCreateBackupWithNoDatabase(t *testing.T) {
	m := newTestManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.Create(context.Background()); err == nil {
		t.Fatal("expected error when database does not exist")
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	m := newTestManager(dbPath)
	fixed := time.Date(2024, 1, 3, 10, 30, 0, 0, time.Local)
	m.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := m.Create(context.Background())
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("got %d backups, want 3", len(backups))
	}
	for _, b := range backups {
		if !b.Timestamp.Equal(fixed) {
			t.Errorf("timestamp of %s = %v, want %v", b.Path, b.Timestamp, fixed)
		}
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	m := newTestManager(dbPath)
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	day := 0
	m.now = func() time.Time { return start.AddDate(0, 0, day) }

	for day = 0; day < constants.MaxBackups+3; day++ {
		if _, err := m.Create(context.Background()); err != nil {
			t.Fatalf("Create on day %d failed: %v", day, err)
		}
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("got %d backups, want %d", len(backups), constants.MaxBackups)
	}
	newest := start.AddDate(0, 0, constants.MaxBackups+2)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, newest)
	}
	oldest := start.AddDate(0, 0, 3)
	if last := backups[len(backups)-1]; !last.Timestamp.Equal(oldest) {
		t.Errorf("oldest kept backup = %v, want %v", last.Timestamp, oldest)
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	m := newTestManager(dbPath)

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List on missing directory failed: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	if err := os.MkdirAll(m.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "tracker-garbage.db", "other-20240101-000000.db"} {
		if err := os.WriteFile(filepath.Join(m.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	m.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local) }
	first, err := m.Create(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local) }
	second, err := m.Create(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	backups, err = m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("got %d backups, want 2", len(backups))
	}
	if backups[0].Path != second || backups[1].Path != first {
		t.Errorf("backups not sorted newest first: %v", backups)
	}
	if backups[0].Size == 0 {
		t.Error("backup size should be recorded")
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"tracker-20240103-103000.db", true},
		{"tracker-20240103-103000-2.db", true},
		{"tracker-20240103.db", false},
		{"habits-20240103-103000.db", false},
		{"tracker-20240103-103000.db.tmp", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseName(tt.name)
			if ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := newTestManager(dbPath)
	ctx := context.Background()

	m.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local) }
	backupPath, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// change the live database after the backup
	db := storage.New(dbPath, storage.WithTimezone("UTC"))
	if err := db.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.NewCategoryStore(db).Create(ctx, "Work"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local) }
	if err := m.Restore(ctx, backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := categoryTitles(t, dbPath); len(got) != 1 || got[0] != "Health" {
		t.Errorf("restored categories = %v, want [Health]", got)
	}

	// the pre-restore state is kept as a backup of its own
	backups, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("got %d backups, want 2", len(backups))
	}
	if got := categoryTitles(t, backups[0].Path); len(got) != 2 {
		t.Errorf("pre-restore backup categories = %v, want 2 entries", got)
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := newTestManager(dbPath)
	ctx := context.Background()

	if err := m.Restore(ctx, filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	corrupted := filepath.Join(t.TempDir(), "corrupted.db")
	if err := os.WriteFile(corrupted, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := m.Restore(ctx, corrupted); err == nil {
		t.Error("expected error for corrupted backup")
	}

	if got := categoryTitles(t, dbPath); len(got) != 1 {
		t.Errorf("database changed after failed restore: %v", got)
	}
}

func TestRestoreRefusesWhileTrackerRunning(t *testing.T) {
	dbPath := setupTestDB(t)
	m := newTestManager(dbPath)
	ctx := context.Background()

	backupPath, err := m.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	m.processes = func() ([]ps.Process, error) {
		return []ps.Process{
			fakeProcess{pid: m.pid, name: constants.AppName},
			fakeProcess{pid: 4242, name: "bash"},
		}, nil
	}
	if err := m.Restore(ctx, backupPath); err != nil {
		t.Fatalf("own process should not block restore: %v", err)
	}

	m.processes = func() ([]ps.Process, error) {
		return []ps.Process{fakeProcess{pid: 4242, name: constants.AppName}}, nil
	}
	if err := m.Restore(ctx, backupPath); !errors.Is(err, ErrInUse) {
		t.Errorf("Restore error = %v, want ErrInUse", err)
	}

	m.processes = func() ([]ps.Process, error) {
		return nil, errors.New("ps unavailable")
	}
	if err := m.Restore(ctx, backupPath); err != nil {
		t.Errorf("process listing failure should not block restore: %v", err)
	}
}
