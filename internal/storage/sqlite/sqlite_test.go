package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	if Exists(path) {
		t.Fatal("database should not exist yet")
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if !Exists(path) {
		t.Error("expected database file to be created")
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("failed to read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT UNIQUE)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO items (id, name) VALUES (1, 'a')"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err = db.Exec("INSERT INTO items (id, name) VALUES (2, 'a')")
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}

	_, err = db.Exec("INSERT INTO items (id, name) VALUES (1, 'b')")
	if !IsUniqueViolation(err) {
		t.Errorf("expected primary key violation, got %v", err)
	}

	if IsUniqueViolation(nil) {
		t.Error("nil is not a unique violation")
	}
	if IsUniqueViolation(errors.New("disk I/O error")) {
		t.Error("unrelated error reported as unique violation")
	}
}
