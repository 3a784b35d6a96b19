package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionRate(t *testing.T) {
	cases := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{3, 10, 30},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 8, 12.5},
		{5, 5, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompletionRate(tc.completed, tc.total), "%d/%d", tc.completed, tc.total)
	}
}

func TestSortAssignmentsByDueDateIsStable(t *testing.T) {
	list := []Assignment{
		{ID: "a", DueDate: "2099-02-01"},
		{ID: "b", DueDate: "2099-01-01"},
		{ID: "c", DueDate: "2099-02-01"},
		{ID: "d", DueDate: "2099-01-15"},
	}
	SortAssignments(list, SortDueDate)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(list))
}

func TestSortAssignmentsByTitleUsesCollation(t *testing.T) {
	list := []Assignment{
		{ID: "1", Title: "beta"},
		{ID: "2", Title: "Alpha"},
		{ID: "3", Title: "alpha"},
		{ID: "4", Title: "Gamma"},
	}
	SortAssignments(list, SortTitle)
	got := ids(list)
	assert.Equal(t, "1", got[2])
	assert.Equal(t, "4", got[3])
	assert.ElementsMatch(t, []string{"2", "3"}, got[:2])
}

func TestSortAssignmentsUnknownKeyKeepsOrder(t *testing.T) {
	list := []Assignment{{ID: "x", Title: "z"}, {ID: "y", Title: "a"}}
	SortAssignments(list, "")
	assert.Equal(t, []string{"x", "y"}, ids(list))
}

func TestAssignmentUpdateApply(t *testing.T) {
	title := "New"
	done := true
	a := Assignment{Title: "Old", Subject: "Math", DueDate: "2099-01-01"}

	upd := AssignmentUpdate{Title: &title, Completed: &done}
	assert.False(t, upd.Empty())
	upd.Apply(&a)

	assert.Equal(t, "New", a.Title)
	assert.Equal(t, "Math", a.Subject)
	assert.True(t, a.Completed)
	assert.True(t, AssignmentUpdate{}.Empty())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("owner").Valid())
}

func ids(list []Assignment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}
