package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/models"
)

func record(trackerID uuid.UUID, year int, month time.Month, day int) models.TrackerRecord {
	return models.TrackerRecord{
		ID:        uuid.New(),
		TrackerID: trackerID,
		Date:      time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalculateEmpty(t *testing.T) {
	if _, ok := Calculate(nil, time.UTC); ok {
		t.Error("expected no data for an empty log")
	}
}

func TestCalculateStreakScenario(t *testing.T) {
	a := uuid.New()
	records := []models.TrackerRecord{
		record(a, 2024, 1, 5),
		record(a, 2024, 1, 1),
		record(a, 2024, 1, 3),
		record(a, 2024, 1, 2),
	}

	s, ok := Calculate(records, time.UTC)
	if !ok {
		t.Fatal("expected data")
	}
	if s.BestStreak != 3 {
		t.Errorf("BestStreak = %d, want 3", s.BestStreak)
	}
	if s.PerfectDays != 4 {
		t.Errorf("PerfectDays = %d, want 4", s.PerfectDays)
	}
	for i := 1; i < len(s.UniqueDays); i++ {
		if !s.UniqueDays[i-1].Before(s.UniqueDays[i]) {
			t.Errorf("UniqueDays not ascending: %v", s.UniqueDays)
		}
	}
}

func TestCalculateTotals(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	records := []models.TrackerRecord{
		record(a, 2024, 3, 1),
		record(b, 2024, 3, 1),
		record(c, 2024, 3, 1),
		record(a, 2024, 3, 2),
		record(b, 2024, 3, 2),
	}

	s, ok := Calculate(records, time.UTC)
	if !ok {
		t.Fatal("expected data")
	}
	if s.DistinctTrackers != 3 {
		t.Errorf("DistinctTrackers = %d, want 3", s.DistinctTrackers)
	}
	if s.PerfectDays != 2 || s.BestStreak != 2 {
		t.Errorf("PerfectDays, BestStreak = %d, %d; want 2, 2", s.PerfectDays, s.BestStreak)
	}
	if s.AveragePerDay != 2.5 {
		t.Errorf("AveragePerDay = %v, want 2.5", s.AveragePerDay)
	}
	if s.AverageRounded() != 2 {
		t.Errorf("AverageRounded() = %d, want 2", s.AverageRounded())
	}
}

func TestBestStreak(t *testing.T) {
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"empty", nil, 0},
		{"single", []time.Time{day(1, 1)}, 1},
		{"gap", []time.Time{day(1, 1), day(1, 3)}, 1},
		{"month boundary", []time.Time{day(1, 30), day(1, 31), day(2, 1)}, 3},
		{"leap day", []time.Time{day(2, 28), day(2, 29), day(3, 1)}, 3},
		{"later run longer", []time.Time{day(1, 1), day(1, 2), day(1, 10), day(1, 11), day(1, 12)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bestStreak(tt.days); got != tt.want {
				t.Errorf("bestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	a := uuid.New()
	records := []models.TrackerRecord{
		{TrackerID: a, Date: time.Date(2024, 3, 30, 0, 0, 0, 0, berlin)},
		{TrackerID: a, Date: time.Date(2024, 3, 31, 0, 0, 0, 0, berlin)},
		{TrackerID: a, Date: time.Date(2024, 4, 1, 0, 0, 0, 0, berlin)},
	}

	s, ok := Calculate(records, berlin)
	if !ok {
		t.Fatal("expected data")
	}
	if s.BestStreak != 3 {
		t.Errorf("BestStreak across DST = %d, want 3", s.BestStreak)
	}
}

func TestMetrics(t *testing.T) {
	s := Summary{BestStreak: 3, PerfectDays: 4, DistinctTrackers: 2, AveragePerDay: 1.5}
	metrics := s.Metrics()
	if len(metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(metrics))
	}
	if metrics[0].String() != "Best period: 3" {
		t.Errorf("metrics[0] = %q", metrics[0].String())
	}
	if metrics[3].Value != 2 {
		t.Errorf("rounded average = %d, want 2", metrics[3].Value)
	}
}

func TestAverageRounded(t *testing.T) {
	tests := []struct {
		average float64
		want    int
	}{
		{0.5, 0},
		{1.4, 1},
		{1.5, 2},
		{2.5, 2},
		{3.5, 4},
		{2.6, 3},
	}
	for _, tt := range tests {
		s := Summary{AveragePerDay: tt.average}
		if got := s.AverageRounded(); got != tt.want {
			t.Errorf("AverageRounded(%v) = %d, want %d", tt.average, got, tt.want)
		}
	}
}
