package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
)

var (
	ErrInvalidTitle   = errors.New("title cannot be empty")
	ErrTitleTooLong   = fmt.Errorf("title cannot be longer than %d characters", constants.TrackerTitleLimit)
	ErrInvalidColor   = errors.New("color must be six hex digits")
	ErrInvalidEmoji   = errors.New("emoji cannot be empty")
	ErrInvalidWeekday = errors.New("weekday must be between 1 (Monday) and 7 (Sunday)")
)

var colorPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// ProblemType represents the kind of validation problem
type ProblemType string

const (
	ProblemInvalidTitle   ProblemType = "invalid_title"
	ProblemTitleTooLong   ProblemType = "title_too_long"
	ProblemInvalidColor   ProblemType = "invalid_color"
	ProblemInvalidEmoji   ProblemType = "invalid_emoji"
	ProblemInvalidWeekday ProblemType = "invalid_weekday"
	ProblemDuplicateTitle ProblemType = "duplicate_title"
)

// Problem is one thing wrong with a tracker
type Problem struct {
	Type        ProblemType
	Description string
	Items       []string // tracker titles involved
	Err         error
}

// Result contains all detected problems
type Result struct {
	Problems []Problem
}

func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}

func (r *Result) add(p Problem) {
	r.Problems = append(r.Problems, p)
}

// Err joins the sentinel errors of every problem, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, p := range r.Problems {
		if p.Err != nil {
			errs = append(errs, p.Err)
		}
	}
	return errors.Join(errs...)
}

// FormatReport returns a human-readable report of all problems
func (r *Result) FormatReport() string {
	if !r.HasProblems() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s\n", p.Description)
	}
	return b.String()
}

// NormalizeColor strips a leading '#' and upper-cases the digits.
func NormalizeColor(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
}

// NormalizeTracker trims text fields, normalizes the color and sorts and
// de-duplicates the schedule.
func NormalizeTracker(t models.Tracker) models.Tracker {
	t.Title = strings.TrimSpace(t.Title)
	t.Emoji = strings.TrimSpace(t.Emoji)
	t.ColorHex = NormalizeColor(t.ColorHex)
	t.Schedule = models.NewSchedule(t.Schedule...)
	return t
}

// ValidateTitle checks a tracker title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	if utf8.RuneCountInString(title) > constants.TrackerTitleLimit {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateColor checks a color in RRGGBB form, with or without '#'.
func ValidateColor(hex string) error {
	if !colorPattern.MatchString(NormalizeColor(hex)) {
		return ErrInvalidColor
	}
	return nil
}

// ValidateTracker checks a single tracker.
func ValidateTracker(t models.Tracker) Result {
	result := Result{}
	name := strings.TrimSpace(t.Title)

	if err := ValidateTitle(t.Title); err != nil {
		pt := ProblemInvalidTitle
		if errors.Is(err, ErrTitleTooLong) {
			pt = ProblemTitleTooLong
		}
		result.add(Problem{
			Type:        pt,
			Description: fmt.Sprintf("Tracker %q: %v", name, err),
			Items:       []string{name},
			Err:         err,
		})
	}

	if err := ValidateColor(t.ColorHex); err != nil {
		result.add(Problem{
			Type:        ProblemInvalidColor,
			Description: fmt.Sprintf("Tracker %q has invalid color: %q", name, t.ColorHex),
			Items:       []string{name},
			Err:         err,
		})
	}

	if strings.TrimSpace(t.Emoji) == "" {
		result.add(Problem{
			Type:        ProblemInvalidEmoji,
			Description: fmt.Sprintf("Tracker %q has no emoji", name),
			Items:       []string{name},
			Err:         ErrInvalidEmoji,
		})
	}

	for _, wd := range t.Schedule {
		if !wd.Valid() {
			result.add(Problem{
				Type:        ProblemInvalidWeekday,
				Description: fmt.Sprintf("Tracker %q has invalid weekday: %d", name, int(wd)),
				Items:       []string{name},
				Err:         ErrInvalidWeekday,
			})
		}
	}

	return result
}

// ValidateTrackers checks every tracker and reports titles shared by more
// than one tracker, which cannot be addressed by title.
func ValidateTrackers(trackers []models.Tracker) Result {
	result := Result{}
	seen := make(map[string][]string)
	var order []string

	for _, t := range trackers {
		result.Problems = append(result.Problems, ValidateTracker(t).Problems...)

		key := strings.ToLower(strings.TrimSpace(t.Title))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = append(seen[key], t.ID.String())
	}

	for _, key := range order {
		if ids := seen[key]; len(ids) > 1 {
			result.add(Problem{
				Type:        ProblemDuplicateTitle,
				Description: fmt.Sprintf("Duplicate tracker title: %q (IDs: %v)", key, ids),
				Items:       []string{key},
			})
		}
	}

	return result
}
