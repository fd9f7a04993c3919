package storage

import (
	"errors"

	"github.com/BolkaZ/Tracker/internal/validation"
)

var (
	ErrInvalidTitle        = validation.ErrInvalidTitle
	ErrDuplicateTitle      = errors.New("a category with this title already exists")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryNotEmpty    = errors.New("category still has trackers")
	ErrTrackerNotFound     = errors.New("tracker not found")
	ErrRecordAlreadyExists = errors.New("tracker is already completed on this day")
	ErrRecordNotFound      = errors.New("tracker is not completed on this day")
	ErrAmbiguousTracker    = errors.New("more than one tracker has this title, use its id")

	// ErrStorageUnavailable wraps every engine failure (I/O, corruption,
	// connection loss) that is not one of the domain errors above.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrNotInitialized = errors.New("storage not initialized, run 'tracker init' first")
)

var domainErrors = []error{
	ErrInvalidTitle,
	ErrDuplicateTitle,
	ErrCategoryNotFound,
	ErrCategoryNotEmpty,
	ErrTrackerNotFound,
	ErrRecordAlreadyExists,
	ErrRecordNotFound,
	ErrAmbiguousTracker,
	ErrStorageUnavailable,
}

// IsDomainError reports whether err is one of the typed store errors.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
