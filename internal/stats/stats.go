// Package stats derives streaks and totals from the completion log.
package stats

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/utils"
)

// Summary holds the statistics of a non-empty completion log.
type Summary struct {
	UniqueDays       []time.Time // ascending, start of day
	BestStreak       int
	PerfectDays      int
	DistinctTrackers int
	TotalRecords     int
	AveragePerDay    float64
}

// Metric is one titled value for display.
type Metric struct {
	Title string
	Value int
}

// Calculate summarizes the whole completion log with day boundaries in loc.
// It reports false when there are no records.
func Calculate(records []models.TrackerRecord, loc *time.Location) (Summary, bool) {
	if len(records) == 0 {
		return Summary{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	seenDays := make(map[string]time.Time)
	trackers := make(map[uuid.UUID]struct{})
	for _, r := range records {
		day := utils.StartOfDay(r.Date, loc)
		seenDays[day.Format(time.DateOnly)] = day
		trackers[r.TrackerID] = struct{}{}
	}

	days := make([]time.Time, 0, len(seenDays))
	for _, d := range seenDays {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	s := Summary{
		UniqueDays:       days,
		BestStreak:       bestStreak(days),
		PerfectDays:      len(days),
		DistinctTrackers: len(trackers),
		TotalRecords:     len(records),
	}
	s.AveragePerDay = float64(s.TotalRecords) / float64(max(s.PerfectDays, 1))
	return s, true
}

// bestStreak returns the longest run of consecutive calendar days in a
// sorted, de-duplicated list.
func bestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.AddDays(days[i-1], 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// AverageRounded is the average completions per perfect day rounded half
// to even, the way %.0f prints it.
func (s Summary) AverageRounded() int {
	return int(math.RoundToEven(s.AveragePerDay))
}

// Metrics lists the statistics in display order.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{Title: "Best period", Value: s.BestStreak},
		{Title: "Perfect days", Value: s.PerfectDays},
		{Title: "Trackers completed", Value: s.DistinctTrackers},
		{Title: "Average per day", Value: s.AverageRounded()},
	}
}

func (m Metric) String() string {
	return fmt.Sprintf("%s: %d", m.Title, m.Value)
}
