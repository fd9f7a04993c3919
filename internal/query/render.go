// Package query turns a snapshot of categories and trackers into the
// sections shown for one day.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/utils"
)

// Input is everything Render needs.
type Input struct {
	Date        time.Time
	Search      string
	Filter      models.Filter
	Location    *time.Location
	Categories  []models.CategoryWithTrackers
	IsCompleted func(id uuid.UUID) bool
}

var resolveWeekday = utils.WeekdayOf

// Render computes the view for one day. Pinned trackers come first in a
// section of their own; the remaining trackers are grouped by category.
func Render(in Input) models.ViewState {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	filter := in.Filter
	if filter == "" {
		filter = models.FilterAll
	}
	state := models.ViewState{
		Date:   utils.StartOfDay(in.Date, loc),
		Filter: filter,
	}

	weekday, ok := resolveWeekday(in.Date, loc)
	if !ok {
		state.EmptyReason = models.EmptyNoTrackersForDate
		return state
	}

	search := strings.ToLower(strings.TrimSpace(in.Search))
	completed := in.IsCompleted
	if completed == nil {
		completed = func(uuid.UUID) bool { return false }
	}

	scheduled := func(t models.Tracker) bool {
		return t.Schedule.IsIrregular() || t.Schedule.Contains(weekday)
	}
	matches := func(t models.Tracker) bool {
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			return false
		}
		if !scheduled(t) {
			return false
		}
		switch filter {
		case models.FilterCompleted:
			return completed(t.ID)
		case models.FilterUncompleted:
			return !completed(t.ID)
		}
		return true
	}

	var pinned []models.Tracker
	var regular []models.Section
	for _, c := range in.Categories {
		var trackers []models.Tracker
		for _, t := range c.Trackers {
			if scheduled(t) {
				state.HasAnyForDate = true
			}
			if !matches(t) {
				continue
			}
			if t.IsPinned {
				pinned = append(pinned, t)
			} else {
				trackers = append(trackers, t)
			}
		}
		if len(trackers) == 0 {
			continue
		}
		sortByTitle(trackers)
		regular = append(regular, models.Section{Title: c.Title, Trackers: trackers})
	}

	slices.SortStableFunc(regular, func(a, b models.Section) int {
		return models.CompareTitles(a.Title, b.Title)
	})

	if len(pinned) > 0 {
		sortByTitle(pinned)
		state.Sections = append(state.Sections, models.Section{
			Title:    constants.PinnedSectionTitle,
			Pinned:   true,
			Trackers: pinned,
		})
	}
	state.Sections = append(state.Sections, regular...)

	state.HasTrackers = len(state.Sections) > 0
	switch {
	case state.HasTrackers:
		state.EmptyReason = models.EmptyNone
	case state.HasAnyForDate:
		state.EmptyReason = models.EmptyNoResults
	default:
		state.EmptyReason = models.EmptyNoTrackersForDate
	}
	return state
}

func sortByTitle(trackers []models.Tracker) {
	slices.SortStableFunc(trackers, func(a, b models.Tracker) int {
		return models.CompareTitles(a.Title, b.Title)
	})
}
