package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryWithTrackers is a category title with a snapshot of the trackers it owns.
type CategoryWithTrackers struct {
	Title    string
	Trackers []Tracker
}
