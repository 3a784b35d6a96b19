package types

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortAssignments orders list in place by key. Unknown or empty keys leave
// the order untouched. Ties keep their existing relative order.
//
// Titles and subjects compare with an English collator; due dates compare as
// calendar days, with unparseable dates sorted last.
func SortAssignments(list []Assignment, key string) {
	switch key {
	case SortDueDate:
		sort.SliceStable(list, func(i, j int) bool {
			return dueBefore(list[i].DueDate, list[j].DueDate)
		})
	case SortTitle:
		col := collate.New(language.English)
		sort.SliceStable(list, func(i, j int) bool {
			return col.CompareString(list[i].Title, list[j].Title) < 0
		})
	case SortSubject:
		col := collate.New(language.English)
		sort.SliceStable(list, func(i, j int) bool {
			return col.CompareString(list[i].Subject, list[j].Subject) < 0
		})
	}
}

func dueBefore(a, b string) bool {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	switch {
	case errA != nil:
		return false
	case errB != nil:
		return true
	default:
		return ta.Before(tb)
	}
}
