package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/query"
	"github.com/BolkaZ/Tracker/internal/storage"
	"github.com/BolkaZ/Tracker/internal/storage/postgres"
	"github.com/BolkaZ/Tracker/internal/validation"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", Message(err))
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

var messages = []struct {
	err error
	msg string
}{
	{storage.ErrDuplicateTitle, "a category with this title already exists"},
	{storage.ErrCategoryNotFound, "no category with this title"},
	{storage.ErrCategoryNotEmpty, "the category still has trackers, move or delete them first"},
	{storage.ErrTrackerNotFound, "no such tracker"},
	{storage.ErrAmbiguousTracker, "more than one tracker has this title, use its id instead"},
	{storage.ErrRecordAlreadyExists, "the tracker is already completed on this day"},
	{storage.ErrRecordNotFound, "the tracker is not completed on this day"},
	{storage.ErrNotInitialized, "storage not initialized, run 'tracker init' first"},
	{storage.ErrStorageUnavailable, "the database is unavailable, see the log for details"},
	{query.ErrFutureDate, "trackers cannot be completed for a future date"},
	{validation.ErrInvalidTitle, "the title cannot be empty"},
	{validation.ErrTitleTooLong, validation.ErrTitleTooLong.Error()},
	{validation.ErrInvalidColor, "the color must be six hex digits, e.g. FF8800"},
	{validation.ErrInvalidEmoji, "an emoji is required"},
	{validation.ErrInvalidWeekday, "weekdays must be between 1 (Monday) and 7 (Sunday)"},
	{postgres.ErrEmbeddedCredentials, "PostgreSQL connection strings must not contain a password, use the keyring or TRACKER_DB_CONNECTION"},
}

// Message maps an error to a short user-facing line. Joined errors are
// mapped one by one.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var joined interface{ Unwrap() []error }
	if stderrors.As(err, &joined) {
		if errs := joined.Unwrap(); len(errs) > 1 {
			parts := make([]string, 0, len(errs))
			for _, e := range errs {
				parts = append(parts, Message(e))
			}
			return strings.Join(parts, "; ")
		}
	}

	for _, m := range messages {
		if stderrors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
