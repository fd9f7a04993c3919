package models

import (
	"time"

	"github.com/google/uuid"
)

type TrackerKind string

const (
	KindHabit TrackerKind = "habit"
	KindEvent TrackerKind = "event"
)

// Tracker is a habit (recurring) or an event (empty schedule) that completions are logged for.
type Tracker struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ColorHex  string    `json:"color_hex"` // RRGGBB, no leading '#'
	Emoji     string    `json:"emoji"`
	Schedule  Schedule  `json:"schedule"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t Tracker) Kind() TrackerKind {
	if t.Schedule.IsIrregular() {
		return KindEvent
	}
	return KindHabit
}

// TrackerRecord marks a tracker as completed on one calendar day.
type TrackerRecord struct {
	ID        uuid.UUID `json:"id"`
	TrackerID uuid.UUID `json:"tracker_id"`
	Date      time.Time `json:"date"` // start of day in the store's location
}
