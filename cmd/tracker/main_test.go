package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BolkaZ/Tracker/internal/cli"
	"github.com/BolkaZ/Tracker/internal/storage"
)

// run parses args like the binary does and runs the command against db.
func run(t *testing.T, db *storage.DB, args ...string) string {
	t.Helper()
	var a app
	parser, err := newParser(&a)
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}

	appCtx := cli.NewContext(context.Background(), db)
	out := &bytes.Buffer{}
	appCtx.Out = out
	appCtx.In = strings.NewReader("")
	if err := kctx.Run(appCtx); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestWorkflow(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)
	db := storage.New(filepath.Join(t.TempDir(), "tracker.db"),
		storage.WithTimezone("UTC"),
		storage.WithClock(func() time.Time { return now }))
	t.Cleanup(func() { db.Close() })

	run(t, db, "init")
	run(t, db, "category", "add", "Health")
	run(t, db, "tracker", "add", "Run", "--category", "Health", "--days", "daily")
	run(t, db, "tracker", "add", "Dentist", "-c", "Errands", "--emoji", "🦷")
	run(t, db, "tracker", "pin", "dentist")
	run(t, db, "done", "run", "--date", "yesterday")
	run(t, db, "done", "run")

	view := run(t, db, "view", "--filter", "completed")
	if !strings.Contains(view, "[x] ⭐ Run") || strings.Contains(view, "Dentist") {
		t.Errorf("completed view:\n%s", view)
	}

	view = run(t, db, "view")
	if !strings.Contains(view, "Pinned") || !strings.Contains(view, "Dentist") {
		t.Errorf("full view:\n%s", view)
	}

	stats := run(t, db, "stats")
	if !strings.Contains(stats, "Best period: 2") {
		t.Errorf("stats output:\n%s", stats)
	}

	run(t, db, "tracker", "delete", "run", "--yes")
	if out := run(t, db, "stats"); !strings.Contains(out, "No statistics yet.") {
		t.Errorf("records should be deleted with the tracker:\n%s", out)
	}
}

func TestParserDefaults(t *testing.T) {
	var a app
	parser, err := newParser(&a)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRACKER_TZ", "Europe/Paris")

	kctx, err := parser.Parse([]string{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if kctx.Command() != "tui" {
		t.Errorf("default command = %q, want tui", kctx.Command())
	}
	if a.Timezone != "Europe/Paris" {
		t.Errorf("timezone = %q, want value from TRACKER_TZ", a.Timezone)
	}

	if _, err := parser.Parse([]string{"view", "--filter", "bogus"}); err == nil {
		t.Error("expected error for unknown filter")
	}
}
