package view

import (
	"sort"
	"strings"

	"github.com/duedesk/apiserver/types"
)

// Filtered applies the state's filter and sort to its assignments. Entries
// start in creation order so equal sort keys come out stable.
func Filtered(state State) []types.Assignment {
	list := make([]types.Assignment, 0, len(state.Assignments))
	search := strings.ToLower(state.Filter.Search)
	for _, a := range state.Assignments {
		if state.Filter.Status != "" && state.Filter.Status != StatusAll {
			if a.Completed != (state.Filter.Status == types.StatusCompleted) {
				continue
			}
		}
		if state.Filter.Subject != "" && a.Subject != state.Filter.Subject {
			continue
		}
		if search != "" && !matches(a, search) {
			continue
		}
		list = append(list, a)
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	types.SortAssignments(list, state.Sort)
	return list
}

func matches(a types.Assignment, search string) bool {
	return strings.Contains(strings.ToLower(a.Title), search) ||
		strings.Contains(strings.ToLower(a.Description), search) ||
		strings.Contains(strings.ToLower(a.Subject), search)
}

// Paginate returns the 1-based page of list. Out-of-range pages are empty.
func Paginate(list []types.Assignment, page, perPage int) []types.Assignment {
	if page < 1 || perPage < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(list) {
		return nil
	}
	end := min(start+perPage, len(list))
	return list[start:end]
}

// PageCount is the number of pages needed for total items, at least 1.
func PageCount(total, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// UniqueSubjects lists the distinct non-empty subjects, sorted.
func UniqueSubjects(assignments map[string]types.Assignment) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range assignments {
		if a.Subject == "" {
			continue
		}
		if _, ok := seen[a.Subject]; ok {
			continue
		}
		seen[a.Subject] = struct{}{}
		out = append(out, a.Subject)
	}
	sort.Strings(out)
	return out
}
