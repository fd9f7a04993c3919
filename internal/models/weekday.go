package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Weekday is an ISO weekday: Monday=1 ... Sunday=7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AllWeekdays returns the seven weekdays in ISO order.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Short returns the three letter abbreviation.
func (w Weekday) Short() string {
	if !w.Valid() {
		return "?"
	}
	return weekdayNames[w][:3]
}

// ParseWeekday accepts full names, three letter abbreviations and ISO numbers.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, wd := range AllWeekdays() {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Weekday(n).Valid() {
		return Weekday(n), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// ParseWeekdays parses a comma-separated list of weekdays. "daily" selects all seven.
func ParseWeekdays(s string) (Schedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Schedule{}, nil
	}
	if strings.EqualFold(s, "daily") {
		return NewSchedule(AllWeekdays()...), nil
	}
	var days []Weekday
	for _, part := range strings.Split(s, ",") {
		wd, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return NewSchedule(days...), nil
}

// Schedule is the sorted, de-duplicated set of weekdays a tracker recurs on.
// An empty schedule marks an irregular event, which is eligible every day.
type Schedule []Weekday

func NewSchedule(days ...Weekday) Schedule {
	s := make(Schedule, 0, len(days))
	for _, d := range days {
		if !slices.Contains(s, d) {
			s = append(s, d)
		}
	}
	slices.Sort(s)
	return s
}

func (s Schedule) Contains(wd Weekday) bool {
	return slices.Contains(s, wd)
}

func (s Schedule) IsIrregular() bool {
	return len(s) == 0
}

func (s Schedule) String() string {
	switch {
	case len(s) == 0:
		return "irregular"
	case len(NewSchedule(s...)) == len(AllWeekdays()):
		return "every day"
	}
	parts := make([]string, 0, len(s))
	for _, wd := range s {
		parts = append(parts, wd.Short())
	}
	return strings.Join(parts, ", ")
}
