package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/models"
)

func setupRecordStore(t *testing.T, opts ...Option) (*RecordStore, models.Tracker) {
	t.Helper()
	ctx := context.Background()

	db := setupTestDB(t, opts...)
	if _, err := NewCategoryStore(db).Create(ctx, "Health"); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	tr, err := NewTrackerStore(db).Create(ctx, newTestTracker("Run", false), "Health")
	if err != nil {
		t.Fatalf("failed to create tracker: %v", err)
	}
	return NewRecordStore(db), tr
}

func TestRecordAddRemove(t *testing.T) {
	ctx := context.Background()
	store, tr := setupRecordStore(t)

	day := time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC)
	rec, err := store.Add(ctx, tr.ID, day)
	if err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if !rec.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("record date not normalized: %v", rec.Date)
	}

	// same day, different time
	if _, err := store.Add(ctx, tr.ID, day.Add(10*time.Hour)); !errors.Is(err, ErrRecordAlreadyExists) {
		t.Fatalf("expected ErrRecordAlreadyExists, got %v", err)
	}

	done, err := store.IsCompleted(ctx, tr.ID, day)
	if err != nil || !done {
		t.Errorf("IsCompleted() = %v, %v; want true", done, err)
	}

	if err := store.Remove(ctx, tr.ID, day); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	done, err = store.IsCompleted(ctx, tr.ID, day)
	if err != nil || done {
		t.Errorf("IsCompleted() after remove = %v, %v; want false", done, err)
	}
	if err := store.Remove(ctx, tr.ID, day); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecordAddUnknownTracker(t *testing.T) {
	store, _ := setupRecordStore(t)
	if _, err := store.Add(context.Background(), uuid.New(), testNow); !errors.Is(err, ErrTrackerNotFound) {
		t.Errorf("expected ErrTrackerNotFound, got %v", err)
	}
}

func TestRecordDayBoundaryUsesLocation(t *testing.T) {
	ctx := context.Background()
	store, tr := setupRecordStore(t, WithTimezone("Asia/Tokyo"))

	// 20:00 UTC on Jan 1 is already Jan 2 in Tokyo
	instant := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	rec, err := store.Add(ctx, tr.ID, instant)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := rec.Date.Format("2006-01-02"); got != "2024-01-02" {
		t.Errorf("record day = %s, want 2024-01-02", got)
	}

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("LoadLocation failed: %v", err)
	}
	done, err := store.IsCompleted(ctx, tr.ID, time.Date(2024, 1, 2, 23, 0, 0, 0, tokyo))
	if err != nil || !done {
		t.Errorf("IsCompleted() = %v, %v; want true", done, err)
	}
}

func TestRecordQueries(t *testing.T) {
	ctx := context.Background()
	store, tr := setupRecordStore(t)

	days := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range days {
		if _, err := store.Add(ctx, tr.ID, d); err != nil {
			t.Fatalf("Add(%v) failed: %v", d, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 records, got %d", len(all))
	}

	completed, err := store.CompletedOn(ctx, days[1].Add(5*time.Hour))
	if err != nil {
		t.Fatalf("CompletedOn failed: %v", err)
	}
	if !completed[tr.ID] || len(completed) != 1 {
		t.Errorf("CompletedOn() = %v", completed)
	}

	counts, err := store.CountByTracker(ctx)
	if err != nil {
		t.Fatalf("CountByTracker failed: %v", err)
	}
	if counts[tr.ID] != 3 {
		t.Errorf("count = %d, want 3", counts[tr.ID])
	}
}

func TestRecordConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	store, tr := setupRecordStore(t)

	const workers = 6
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Add(ctx, tr.ID, testNow)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, ErrRecordAlreadyExists):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly one successful add, got %d", succeeded)
	}
}

func TestRecordNotifications(t *testing.T) {
	ctx := context.Background()
	store, tr := setupRecordStore(t)

	var changes []Change
	store.Subscribe(func(c Change) { changes = append(changes, c) })

	rec, err := store.Add(ctx, tr.ID, testNow)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, tr.ID, testNow); err == nil {
		t.Fatal("expected duplicate add to fail")
	}
	if err := store.Remove(ctx, tr.ID, testNow); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if len(changes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(changes))
	}
	if changes[0].Op != OpCreate || changes[1].Op != OpDelete {
		t.Errorf("unexpected ops: %v, %v", changes[0].Op, changes[1].Op)
	}
	if changes[1].ID != rec.ID {
		t.Errorf("delete change id = %v, want %v", changes[1].ID, rec.ID)
	}
}
