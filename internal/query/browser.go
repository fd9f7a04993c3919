package query

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/utils"
)

// ErrFutureDate is returned when completion is toggled for a day that has
// not started yet.
var ErrFutureDate = errors.New("cannot complete trackers for a future date")

type TrackerSource interface {
	Snapshot(ctx context.Context) ([]models.CategoryWithTrackers, error)
}

type RecordSource interface {
	CompletedOn(ctx context.Context, date time.Time) (map[uuid.UUID]bool, error)
	CountByTracker(ctx context.Context) (map[uuid.UUID]int, error)
	Add(ctx context.Context, trackerID uuid.UUID, date time.Time) (models.TrackerRecord, error)
	Remove(ctx context.Context, trackerID uuid.UUID, date time.Time) error
}

// Cell is what is displayed for one tracker.
type Cell struct {
	Tracker   models.Tracker
	Completed bool
	Days      int  // all-time completed days
	Enabled   bool // false for future dates
}

// Browser owns the presentation state: the selected date, search text and
// filter, and the last rendered view. It is not safe for concurrent use;
// store change callbacks must be delivered to the goroutine that owns it.
type Browser struct {
	trackers TrackerSource
	records  RecordSource
	loc      *time.Location
	now      func() time.Time

	date   time.Time
	search string
	filter models.Filter

	state     models.ViewState
	completed map[uuid.UUID]bool
	counts    map[uuid.UUID]int
}

func NewBrowser(trackers TrackerSource, records RecordSource, loc *time.Location, now func() time.Time) *Browser {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	b := &Browser{
		trackers:  trackers,
		records:   records,
		loc:       loc,
		now:       now,
		filter:    models.FilterAll,
		completed: map[uuid.UUID]bool{},
		counts:    map[uuid.UUID]int{},
	}
	b.date = b.today()
	return b
}

func (b *Browser) today() time.Time {
	return utils.StartOfDay(b.now(), b.loc)
}

func (b *Browser) Date() time.Time { return b.date }
func (b *Browser) Search() string { return b.search }
func (b *Browser) Filter() models.Filter { return b.filter }
func (b *Browser) State() models.ViewState { return b.state }
func (b *Browser) Location() *time.Location { return b.loc }

// IsFuture reports whether the selected date is after today.
func (b *Browser) IsFuture() bool {
	return b.date.After(b.today())
}

func (b *Browser) SetDate(date time.Time) {
	b.date = utils.StartOfDay(date, b.loc)
}

// ShiftDate moves the selected date by n days.
func (b *Browser) ShiftDate(n int) {
	b.date = utils.AddDays(b.date, n)
}

func (b *Browser) SetSearch(search string) {
	b.search = search
}

// SelectFilter changes the filter mode. Selecting the today filter also
// jumps back to the current date.
func (b *Browser) SelectFilter(f models.Filter) {
	b.filter = f
	if f == models.FilterToday {
		b.date = b.today()
	}
}

// Refresh reloads the snapshot and completion data and re-renders.
func (b *Browser) Refresh(ctx context.Context) (models.ViewState, error) {
	categories, err := b.trackers.Snapshot(ctx)
	if err != nil {
		return b.state, err
	}
	completed, err := b.records.CompletedOn(ctx, b.date)
	if err != nil {
		return b.state, err
	}
	counts, err := b.records.CountByTracker(ctx)
	if err != nil {
		return b.state, err
	}

	b.completed, b.counts = completed, counts
	b.state = Render(Input{
		Date:        b.date,
		Search:      b.search,
		Filter:      b.filter,
		Location:    b.loc,
		Categories:  categories,
		IsCompleted: func(id uuid.UUID) bool { return completed[id] },
	})
	return b.state, nil
}

// Toggle flips the completion of a tracker on the selected date and
// reports the new completion state. The view is refreshed afterwards.
func (b *Browser) Toggle(ctx context.Context, id uuid.UUID) (bool, error) {
	if b.IsFuture() {
		return false, ErrFutureDate
	}

	done := b.completed[id]
	var err error
	if done {
		err = b.records.Remove(ctx, id, b.date)
	} else {
		_, err = b.records.Add(ctx, id, b.date)
	}
	if err != nil {
		return done, err
	}

	if _, err := b.Refresh(ctx); err != nil {
		return !done, err
	}
	return !done, nil
}

// Cells returns the display data of every visible tracker in order.
func (b *Browser) Cells() []Cell {
	enabled := !b.IsFuture()
	trackers := b.state.Trackers()
	cells := make([]Cell, 0, len(trackers))
	for _, t := range trackers {
		cells = append(cells, Cell{
			Tracker:   t,
			Completed: b.completed[t.ID],
			Days:      b.counts[t.ID],
			Enabled:   enabled,
		})
	}
	return cells
}
