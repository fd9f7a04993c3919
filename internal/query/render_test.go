package query

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
)

var (
	monday  = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tuesday = time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
)

func tracker(title string, pinned bool, days ...models.Weekday) models.Tracker {
	return models.Tracker{
		ID:       uuid.New(),
		Title:    title,
		ColorHex: "112233",
		Emoji:    "⭐",
		Schedule: models.NewSchedule(days...),
		IsPinned: pinned,
	}
}

func titles(trackers []models.Tracker) []string {
	out := make([]string, 0, len(trackers))
	for _, t := range trackers {
		out = append(out, t.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRenderScheduleFilter(t *testing.T) {
	gym := tracker("Gym", false, models.Monday, models.Wednesday)
	categories := []models.CategoryWithTrackers{{Title: "Health", Trackers: []models.Tracker{gym}}}

	onMonday := Render(Input{Date: monday, Filter: models.FilterAll, Location: time.UTC, Categories: categories})
	if got := titles(onMonday.Trackers()); !equalStrings(got, []string{"Gym"}) {
		t.Errorf("Monday view = %v, want [Gym]", got)
	}

	onTuesday := Render(Input{Date: tuesday, Filter: models.FilterAll, Location: time.UTC, Categories: categories})
	if len(onTuesday.Trackers()) != 0 {
		t.Errorf("Tuesday view = %v, want empty", titles(onTuesday.Trackers()))
	}
}

func TestRenderPinnedOrdering(t *testing.T) {
	categories := []models.CategoryWithTrackers{{
		Title: "Animals",
		Trackers: []models.Tracker{
			tracker("Apple", false, models.Monday),
			tracker("Zebra", true, models.Monday),
		},
	}}

	state := Render(Input{Date: monday, Location: time.UTC, Categories: categories})
	if len(state.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(state.Sections))
	}

	pinned := state.Sections[0]
	if !pinned.Pinned || pinned.Title != constants.PinnedSectionTitle {
		t.Errorf("first section = %+v, want pinned section", pinned)
	}
	if got := titles(pinned.Trackers); !equalStrings(got, []string{"Zebra"}) {
		t.Errorf("pinned section = %v, want [Zebra]", got)
	}

	regular := state.Sections[1]
	if regular.Pinned || regular.Title != "Animals" {
		t.Errorf("second section = %+v, want Animals", regular)
	}
	if got := titles(regular.Trackers); !equalStrings(got, []string{"Apple"}) {
		t.Errorf("regular section = %v, want [Apple]", got)
	}
}

func TestRenderEmptyStateReasons(t *testing.T) {
	categories := []models.CategoryWithTrackers{{
		Title:    "Health",
		Trackers: []models.Tracker{tracker("Gym", false, models.Monday)},
	}}

	tuesdayState := Render(Input{Date: tuesday, Location: time.UTC, Categories: categories})
	if tuesdayState.HasAnyForDate {
		t.Error("HasAnyForDate should be false on Tuesday")
	}
	if tuesdayState.HasTrackers || tuesdayState.EmptyReason != models.EmptyNoTrackersForDate {
		t.Errorf("Tuesday reason = %v, want %v", tuesdayState.EmptyReason, models.EmptyNoTrackersForDate)
	}

	searched := Render(Input{Date: monday, Search: "swim", Location: time.UTC, Categories: categories})
	if !searched.HasAnyForDate {
		t.Error("HasAnyForDate should be true on Monday")
	}
	if searched.HasTrackers || searched.EmptyReason != models.EmptyNoResults {
		t.Errorf("search reason = %v, want %v", searched.EmptyReason, models.EmptyNoResults)
	}

	shown := Render(Input{Date: monday, Location: time.UTC, Categories: categories})
	if !shown.HasTrackers || shown.EmptyReason != models.EmptyNone {
		t.Errorf("unfiltered Monday = %+v", shown)
	}

	none := Render(Input{Date: monday, Location: time.UTC})
	if none.EmptyReason != models.EmptyNoTrackersForDate {
		t.Errorf("no categories reason = %v", none.EmptyReason)
	}
}

func TestRenderSearch(t *testing.T) {
	categories := []models.CategoryWithTrackers{{
		Title: "Health",
		Trackers: []models.Tracker{
			tracker("Morning Run", false),
			tracker("Evening walk", false),
			tracker("Read", false),
		},
	}}

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"Evening walk", "Morning Run", "Read"}},
		{"  RUN ", []string{"Morning Run"}},
		{"ing", []string{"Evening walk", "Morning Run"}},
		{"xyz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			state := Render(Input{Date: monday, Search: tt.search, Location: time.UTC, Categories: categories})
			if got := titles(state.Trackers()); !equalStrings(got, tt.want) {
				t.Errorf("search %q = %v, want %v", tt.search, got, tt.want)
			}
		})
	}
}

func TestRenderCompletionFilters(t *testing.T) {
	done := tracker("Done", false)
	open := tracker("Open", false)
	categories := []models.CategoryWithTrackers{{Title: "C", Trackers: []models.Tracker{done, open}}}
	isCompleted := func(id uuid.UUID) bool { return id == done.ID }

	tests := []struct {
		filter models.Filter
		want   []string
		active bool
	}{
		{models.FilterAll, []string{"Done", "Open"}, false},
		{models.FilterToday, []string{"Done", "Open"}, false},
		{models.FilterCompleted, []string{"Done"}, true},
		{models.FilterUncompleted, []string{"Open"}, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			state := Render(Input{
				Date:        monday,
				Filter:      tt.filter,
				Location:    time.UTC,
				Categories:  categories,
				IsCompleted: isCompleted,
			})
			if got := titles(state.Trackers()); !equalStrings(got, tt.want) {
				t.Errorf("filter %v = %v, want %v", tt.filter, got, tt.want)
			}
			if state.IsFilterActive() != tt.active {
				t.Errorf("IsFilterActive() = %v, want %v", state.IsFilterActive(), tt.active)
			}
		})
	}
}

func TestRenderSectionsSortedAndEmptyDropped(t *testing.T) {
	categories := []models.CategoryWithTrackers{
		{Title: "work", Trackers: []models.Tracker{tracker("b", false), tracker("A", false)}},
		{Title: "Empty"},
		{Title: "Home", Trackers: []models.Tracker{tracker("Dishes", false)}},
		{Title: "Weekend", Trackers: []models.Tracker{tracker("Hike", false, models.Saturday)}},
		{Title: "Pins", Trackers: []models.Tracker{tracker("z", true), tracker("Y", true)}},
	}

	state := Render(Input{Date: monday, Location: time.UTC, Categories: categories})

	var sectionTitles []string
	for _, s := range state.Sections {
		sectionTitles = append(sectionTitles, s.Title)
	}
	if want := []string{constants.PinnedSectionTitle, "Home", "work"}; !equalStrings(sectionTitles, want) {
		t.Errorf("sections = %v, want %v", sectionTitles, want)
	}
	if got := titles(state.Sections[0].Trackers); !equalStrings(got, []string{"Y", "z"}) {
		t.Errorf("pinned = %v, want [Y z]", got)
	}
	if got := titles(state.Sections[2].Trackers); !equalStrings(got, []string{"A", "b"}) {
		t.Errorf("work = %v, want [A b]", got)
	}
}

func TestRenderNormalizesDate(t *testing.T) {
	state := Render(Input{Date: monday, Location: time.UTC})
	if !state.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want start of day", state.Date)
	}
	if state.Filter != models.FilterAll {
		t.Errorf("Filter = %v, want default all", state.Filter)
	}
}

func TestRenderUnresolvedWeekday(t *testing.T) {
	orig := resolveWeekday
	resolveWeekday = func(time.Time, *time.Location) (models.Weekday, bool) { return 0, false }
	defer func() { resolveWeekday = orig }()

	categories := []models.CategoryWithTrackers{{Title: "C", Trackers: []models.Tracker{tracker("Any", false)}}}
	state := Render(Input{Date: monday, Location: time.UTC, Categories: categories})
	if state.HasTrackers || state.EmptyReason != models.EmptyNoTrackersForDate {
		t.Errorf("unresolved weekday = %+v", state)
	}
}
