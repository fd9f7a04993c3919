package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/utils"
)

// recordRow carries the creation time, which the domain type does not expose.
type recordRow struct {
	models.TrackerRecord
	CreatedAt time.Time
}

func newRecordTable(db *DB) Table[recordRow] {
	return Table[recordRow]{
		Name:    "tracker_records",
		Entity:  constants.EntityRecord,
		Key:     "id",
		Columns: []string{"id", "tracker_id", "day", "created_at"},
		Scan: func(r scanner) (recordRow, error) {
			var id, trackerID, day, createdAt string
			if err := r.Scan(&id, &trackerID, &day, &createdAt); err != nil {
				return recordRow{}, err
			}
			var (
				row recordRow
				err error
			)
			if row.ID, err = parseID("record id", id); err != nil {
				return recordRow{}, err
			}
			if row.TrackerID, err = parseID("tracker_id", trackerID); err != nil {
				return recordRow{}, err
			}
			if row.Date, err = utils.ParseDay(day, db.Location()); err != nil {
				return recordRow{}, err
			}
			if row.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
				return recordRow{}, err
			}
			return row, nil
		},
		Values: func(r recordRow) []any {
			return []any{
				r.ID.String(), r.TrackerID.String(),
				utils.FormatDay(r.Date, db.Location()), formatTime(r.CreatedAt),
			}
		},
		KeyOf:    func(r recordRow) uuid.UUID { return r.ID },
		NotFound: ErrRecordNotFound,
	}
}

// RecordStore is the completion log: at most one record per tracker and day.
type RecordStore struct {
	db   *DB
	rows *Store[recordRow]
}

func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db, rows: NewStore(db, newRecordTable(db))}
}

func (s *RecordStore) day(date time.Time) string {
	return utils.FormatDay(date, s.db.Location())
}

// Add marks the tracker as completed on date's calendar day.
func (s *RecordStore) Add(ctx context.Context, trackerID uuid.UUID, date time.Time) (models.TrackerRecord, error) {
	row := recordRow{
		TrackerRecord: models.TrackerRecord{
			ID:        uuid.New(),
			TrackerID: trackerID,
			Date:      utils.StartOfDay(date, s.db.Location()),
		},
		CreatedAt: s.db.Now(),
	}

	err := s.rows.Mutate(ctx, OpCreate, row.ID, func(tx *Tx) error {
		known, err := tx.exists(ctx, "SELECT 1 FROM trackers WHERE id = ?", trackerID.String())
		if err != nil {
			return err
		}
		if !known {
			return ErrTrackerNotFound
		}

		done, err := tx.exists(ctx, "SELECT 1 FROM tracker_records WHERE tracker_id = ? AND day = ?",
			trackerID.String(), s.day(date))
		if err != nil {
			return err
		}
		if done {
			return ErrRecordAlreadyExists
		}

		if err := s.rows.insert(ctx, tx, row); err != nil {
			if s.db.isUniqueViolation(err) {
				return ErrRecordAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.TrackerRecord{}, err
	}

	logger.Debug("Added record", "tracker", trackerID, "day", s.day(date))
	return row.TrackerRecord, nil
}

// Remove deletes the record of the tracker on date's calendar day.
func (s *RecordStore) Remove(ctx context.Context, trackerID uuid.UUID, date time.Time) error {
	return s.rows.Mutate(ctx, OpDelete, uuid.Nil, func(tx *Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, "SELECT id FROM tracker_records WHERE tracker_id = ? AND day = ?",
			trackerID.String(), s.day(date)).Scan(&id)
		if isNoRows(err) {
			return ErrRecordNotFound
		}
		if err != nil {
			return err
		}

		recordID, err := parseID("record id", id)
		if err != nil {
			return err
		}
		tx.setID(recordID)
		return s.rows.delete(ctx, tx, recordID)
	})
}

func (s *RecordStore) IsCompleted(ctx context.Context, trackerID uuid.UUID, date time.Time) (bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT 1 FROM tracker_records WHERE tracker_id = ? AND day = ?",
		trackerID.String(), s.day(date))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	found := rows.Next()
	return found, s.db.wrap("is completed", rows.Err())
}

// List returns the whole completion log in no particular order.
func (s *RecordStore) List(ctx context.Context) ([]models.TrackerRecord, error) {
	rows, err := s.rows.List(ctx, Query{})
	if err != nil {
		return nil, err
	}
	out := make([]models.TrackerRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.TrackerRecord)
	}
	return out, nil
}

// CompletedOn returns the set of trackers completed on date's calendar day.
func (s *RecordStore) CompletedOn(ctx context.Context, date time.Time) (map[uuid.UUID]bool, error) {
	rows, err := s.rows.List(ctx, Query{Where: "day = ?", Args: []any{s.day(date)}})
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		out[row.TrackerID] = true
	}
	return out, nil
}

// CountByTracker returns the all-time number of completed days per tracker.
func (s *RecordStore) CountByTracker(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tracker_id, COUNT(*) FROM tracker_records GROUP BY tracker_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			trackerID string
			n         int
		)
		if err := rows.Scan(&trackerID, &n); err != nil {
			return nil, s.db.wrap("count records", err)
		}
		id, err := parseID("tracker_id", trackerID)
		if err != nil {
			return nil, s.db.wrap("count records", err)
		}
		out[id] = n
	}
	return out, s.db.wrap("count records", rows.Err())
}

func (s *RecordStore) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.rows.Subscribe(fn)
}
