package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", column, value, err)
	}
	return t, nil
}

func parseID(column, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", column, value, err)
	}
	return id, nil
}

// titleKey is the case-insensitive identity of a title.
func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
