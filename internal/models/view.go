package models

import "time"

type EmptyReason string

const (
	EmptyNone              EmptyReason = "none"
	EmptyNoTrackersForDate EmptyReason = "noTrackersForDate"
	EmptyNoResults         EmptyReason = "noResults"
)

type Section struct {
	Title    string
	Pinned   bool
	Trackers []Tracker
}

// ViewState is everything needed to display the trackers of one day.
type ViewState struct {
	Date          time.Time
	Filter        Filter
	Sections      []Section
	HasTrackers   bool
	HasAnyForDate bool
	EmptyReason   EmptyReason
}

func (v ViewState) IsFilterActive() bool {
	return v.Filter.IsActive()
}

// Trackers flattens the sections in display order.
func (v ViewState) Trackers() []Tracker {
	var out []Tracker
	for _, s := range v.Sections {
		out = append(out, s.Trackers...)
	}
	return out
}
