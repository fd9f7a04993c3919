package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/validation"
)

// trackerRow is a tracker as stored: the schedule lives in its own table
// and the owning category is referenced by id.
type trackerRow struct {
	models.Tracker
	CategoryID uuid.UUID
}

var trackerTable = Table[trackerRow]{
	Name:   "trackers",
	Entity: constants.EntityTracker,
	Key:    "id",
	Columns: []string{
		"id", "title", "title_key", "color_hex", "emoji", "is_pinned",
		"category_id", "created_at", "updated_at",
	},
	Scan: func(r scanner) (trackerRow, error) {
		var (
			row                  trackerRow
			id, key, categoryID  string
			createdAt, updatedAt string
		)
		err := r.Scan(&id, &row.Title, &key, &row.ColorHex, &row.Emoji, &row.IsPinned,
			&categoryID, &createdAt, &updatedAt)
		if err != nil {
			return trackerRow{}, err
		}
		if row.ID, err = parseID("tracker id", id); err != nil {
			return trackerRow{}, err
		}
		if row.CategoryID, err = parseID("category_id", categoryID); err != nil {
			return trackerRow{}, err
		}
		if row.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return trackerRow{}, err
		}
		if row.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
			return trackerRow{}, err
		}
		row.Schedule = models.Schedule{}
		return row, nil
	},
	Values: func(t trackerRow) []any {
		return []any{
			t.ID.String(), t.Title, titleKey(t.Title), t.ColorHex, t.Emoji, t.IsPinned,
			t.CategoryID.String(), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		}
	},
	KeyOf:    func(t trackerRow) uuid.UUID { return t.ID },
	NotFound: ErrTrackerNotFound,
}

// TrackerStore manages trackers and their weekday schedules.
type TrackerStore struct {
	db         *DB
	rows       *Store[trackerRow]
	categories *Store[models.Category]
}

func NewTrackerStore(db *DB) *TrackerStore {
	return &TrackerStore{
		db:         db,
		rows:       NewStore(db, trackerTable),
		categories: NewStore(db, categoryTable),
	}
}

func prepareTracker(t models.Tracker) (models.Tracker, error) {
	t = validation.NormalizeTracker(t)
	result := validation.ValidateTracker(t)
	if err := result.Err(); err != nil {
		return models.Tracker{}, err
	}
	return t, nil
}

// Create stores a new tracker in the named category. A zero ID is replaced
// with a fresh one.
func (s *TrackerStore) Create(ctx context.Context, t models.Tracker, categoryTitle string) (models.Tracker, error) {
	t, err := prepareTracker(t)
	if err != nil {
		return models.Tracker{}, err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := s.db.Now()
	t.CreatedAt, t.UpdatedAt = now, now

	err = s.rows.Mutate(ctx, OpCreate, t.ID, func(tx *Tx) error {
		c, err := categoryByTitle(ctx, s.categories, tx, categoryTitle)
		if err != nil {
			return err
		}
		if err := s.rows.insert(ctx, tx, trackerRow{Tracker: t, CategoryID: c.ID}); err != nil {
			return err
		}
		return s.insertSchedule(ctx, tx, t.ID, t.Schedule)
	})
	if err != nil {
		return models.Tracker{}, err
	}

	logger.Debug("Created tracker", "id", t.ID, "title", t.Title, "category", categoryTitle)
	return t, nil
}

// Update replaces every field of an existing tracker, moves it to the named
// category and swaps its schedule in the same transaction.
func (s *TrackerStore) Update(ctx context.Context, t models.Tracker, categoryTitle string) (models.Tracker, error) {
	t, err := prepareTracker(t)
	if err != nil {
		return models.Tracker{}, err
	}

	err = s.rows.Mutate(ctx, OpUpdate, t.ID, func(tx *Tx) error {
		existing, err := s.rows.get(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		c, err := categoryByTitle(ctx, s.categories, tx, categoryTitle)
		if err != nil {
			return err
		}

		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = s.db.Now()
		if err := s.rows.update(ctx, tx, trackerRow{Tracker: t, CategoryID: c.ID}); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM tracker_schedule WHERE tracker_id = ?", t.ID.String()); err != nil {
			return err
		}
		return s.insertSchedule(ctx, tx, t.ID, t.Schedule)
	})
	if err != nil {
		return models.Tracker{}, err
	}
	return t, nil
}

func (s *TrackerStore) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	return s.rows.Mutate(ctx, OpUpdate, id, func(tx *Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE trackers SET is_pinned = ?, updated_at = ? WHERE id = ?",
			pinned, formatTime(s.db.Now()), id.String())
		if err != nil {
			return err
		}
		return s.rows.requireRow(res)
	})
}

// Delete removes a tracker together with its schedule and completion records.
func (s *TrackerStore) Delete(ctx context.Context, id uuid.UUID) error {
	change := Change{
		Op:       OpDelete,
		Entities: []string{constants.EntityTracker, constants.EntityRecord},
		ID:       id,
	}
	return s.db.Mutate(ctx, change, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tracker_records WHERE tracker_id = ?", id.String()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tracker_schedule WHERE tracker_id = ?", id.String()); err != nil {
			return err
		}
		return s.rows.delete(ctx, tx, id)
	})
}

func (s *TrackerStore) Get(ctx context.Context, id uuid.UUID) (models.Tracker, error) {
	rows, err := s.listRows(ctx, s.db, Query{Where: "id = ?", Args: []any{id.String()}})
	if err != nil {
		return models.Tracker{}, err
	}
	if len(rows) == 0 {
		return models.Tracker{}, ErrTrackerNotFound
	}
	return rows[0].Tracker, nil
}

// Resolve finds a tracker by id or by its case-insensitive title.
func (s *TrackerStore) Resolve(ctx context.Context, ref string) (models.Tracker, error) {
	if id, err := uuid.Parse(strings.TrimSpace(ref)); err == nil {
		return s.Get(ctx, id)
	}

	rows, err := s.listRows(ctx, s.db, Query{Where: "title_key = ?", Args: []any{titleKey(ref)}})
	if err != nil {
		return models.Tracker{}, err
	}
	switch len(rows) {
	case 0:
		return models.Tracker{}, ErrTrackerNotFound
	case 1:
		return rows[0].Tracker, nil
	}
	return models.Tracker{}, ErrAmbiguousTracker
}

// CategoryTitle returns the title of the tracker's category, or false if the
// tracker does not exist.
func (s *TrackerStore) CategoryTitle(ctx context.Context, id uuid.UUID) (string, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT c.title FROM trackers t JOIN categories c ON c.id = t.category_id WHERE t.id = ?", id.String())
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, s.db.wrap("category title", rows.Err())
	}
	var title string
	if err := rows.Scan(&title); err != nil {
		return "", false, s.db.wrap("category title", err)
	}
	return title, true, nil
}

// List returns every tracker ordered by category title, then tracker title.
func (s *TrackerStore) List(ctx context.Context) ([]models.Tracker, error) {
	return s.sorted(ctx, Query{})
}

// ListInCategory returns the trackers of one category ordered by title.
func (s *TrackerStore) ListInCategory(ctx context.Context, title string) ([]models.Tracker, error) {
	c, err := categoryByTitle(ctx, s.categories, s.db, title)
	if err != nil {
		return nil, s.db.wrap("list trackers", err)
	}
	return s.sorted(ctx, Query{Where: "category_id = ?", Args: []any{c.ID.String()}})
}

// Snapshot returns every category, empty ones included, with its trackers.
func (s *TrackerStore) Snapshot(ctx context.Context) ([]models.CategoryWithTrackers, error) {
	categories, err := s.categories.List(ctx, Query{})
	if err != nil {
		return nil, err
	}
	rows, err := s.listRows(ctx, s.db, Query{})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uuid.UUID][]models.Tracker, len(categories))
	for _, row := range rows {
		byCategory[row.CategoryID] = append(byCategory[row.CategoryID], row.Tracker)
	}

	slices.SortStableFunc(categories, func(a, b models.Category) int {
		return models.CompareTitles(a.Title, b.Title)
	})

	out := make([]models.CategoryWithTrackers, 0, len(categories))
	for _, c := range categories {
		trackers := byCategory[c.ID]
		slices.SortStableFunc(trackers, func(a, b models.Tracker) int {
			return models.CompareTitles(a.Title, b.Title)
		})
		out = append(out, models.CategoryWithTrackers{Title: c.Title, Trackers: trackers})
	}
	return out, nil
}

func (s *TrackerStore) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.rows.Subscribe(fn)
}

func (s *TrackerStore) sorted(ctx context.Context, sel Query) ([]models.Tracker, error) {
	rows, err := s.listRows(ctx, s.db, sel)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx, Query{})
	if err != nil {
		return nil, err
	}
	categoryTitles := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryTitles[c.ID] = c.Title
	}

	slices.SortStableFunc(rows, func(a, b trackerRow) int {
		if c := models.CompareTitles(categoryTitles[a.CategoryID], categoryTitles[b.CategoryID]); c != 0 {
			return c
		}
		return models.CompareTitles(a.Title, b.Title)
	})

	out := make([]models.Tracker, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Tracker)
	}
	return out, nil
}

// listRows loads tracker rows with their schedules attached.
func (s *TrackerStore) listRows(ctx context.Context, q querier, sel Query) ([]trackerRow, error) {
	rows, err := s.rows.list(ctx, q, sel)
	if err != nil {
		return nil, s.db.wrap("list trackers", err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	var scheduleQuery string
	var args []any
	if len(rows) == 1 {
		scheduleQuery = "SELECT tracker_id, weekday FROM tracker_schedule WHERE tracker_id = ?"
		args = []any{rows[0].ID.String()}
	} else {
		scheduleQuery = "SELECT tracker_id, weekday FROM tracker_schedule"
	}
	schedules, err := s.loadSchedules(ctx, q, scheduleQuery, args...)
	if err != nil {
		return nil, s.db.wrap("list schedules", err)
	}

	for i := range rows {
		if days, ok := schedules[rows[i].ID]; ok {
			rows[i].Schedule = models.NewSchedule(days...)
		}
	}
	return rows, nil
}

func (s *TrackerStore) loadSchedules(ctx context.Context, q querier, query string, args ...any) (map[uuid.UUID][]models.Weekday, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.Weekday)
	for rows.Next() {
		var (
			trackerID string
			weekday   int
		)
		if err := rows.Scan(&trackerID, &weekday); err != nil {
			return nil, err
		}
		id, err := parseID("tracker_id", trackerID)
		if err != nil {
			return nil, err
		}
		wd := models.Weekday(weekday)
		if !wd.Valid() {
			return nil, fmt.Errorf("invalid weekday %d for tracker %s", weekday, trackerID)
		}
		out[id] = append(out[id], wd)
	}
	return out, rows.Err()
}

func (s *TrackerStore) insertSchedule(ctx context.Context, tx *Tx, id uuid.UUID, schedule models.Schedule) error {
	for _, wd := range schedule {
		if _, err := tx.ExecContext(ctx, "INSERT INTO tracker_schedule (tracker_id, weekday) VALUES (?, ?)",
			id.String(), int(wd)); err != nil {
			return err
		}
	}
	return nil
}
