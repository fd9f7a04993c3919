package models

import "strings"

// CompareTitles orders titles case-insensitively, falling back to the raw
// titles so the order is total.
func CompareTitles(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
