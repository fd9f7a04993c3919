package models

import (
	"fmt"
	"strings"
)

type Filter string

const (
	FilterAll         Filter = "all"
	FilterToday       Filter = "today"
	FilterCompleted   Filter = "completed"
	FilterUncompleted Filter = "uncompleted"
)

// Filters lists every filter mode in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterToday, FilterCompleted, FilterUncompleted}
}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.TrimSpace(strings.ToLower(s)))
	switch f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterCompleted, FilterUncompleted:
		return f, nil
	}
	return "", fmt.Errorf("invalid filter: %s (expected all, today, completed or uncompleted)", s)
}

func (f Filter) String() string { return string(f) }

// Title is the human-readable label shown in filter pickers.
func (f Filter) Title() string {
	switch f {
	case FilterToday:
		return "Trackers for today"
	case FilterCompleted:
		return "Completed"
	case FilterUncompleted:
		return "Not completed"
	default:
		return "All trackers"
	}
}

// IsActive reports whether the filter narrows the result beyond schedule and search.
func (f Filter) IsActive() bool {
	return f == FilterCompleted || f == FilterUncompleted
}

// Next cycles through the filter modes.
func (f Filter) Next() Filter {
	all := Filters()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterAll
}
