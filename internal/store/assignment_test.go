package store

import (
	"testing"
	"time"

	"github.com/duedesk/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }

func TestAssignmentCollectionAddGet(t *testing.T) {
	now := time.Date(2030, 5, 10, 9, 30, 0, 0, time.Local)
	c := NewAssignmentCollectionWithClock(fixedClock(now))

	id := c.Add("Essay", "English", "2099-01-01", "")
	require.NotEmpty(t, id)
	assert.True(t, c.Contains(id))

	a, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "Essay", a.Title)
	assert.Equal(t, "English", a.Subject)
	assert.Equal(t, "2099-01-01", a.DueDate)
	assert.False(t, a.Completed)
	assert.Equal(t, now, a.CreatedAt)
	assert.Nil(t, a.UpdatedAt)

	other := c.Add("Essay", "English", "2099-01-01", "")
	assert.NotEqual(t, id, other)
}

func TestAssignmentCollectionUpdate(t *testing.T) {
	created := time.Date(2030, 5, 10, 9, 0, 0, 0, time.Local)
	now := created
	c := NewAssignmentCollectionWithClock(func() time.Time { return now })
	id := c.Add("Essay", "English", "2099-01-01", "draft")

	now = created.Add(time.Hour)
	updated, err := c.Update(id, types.AssignmentUpdate{Completed: ptr(true)})
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, "Essay", updated.Title)
	assert.Equal(t, "draft", updated.Description)
	assert.Equal(t, created, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, now, *updated.UpdatedAt)

	_, err = c.Update("missing", types.AssignmentUpdate{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignmentCollectionDeleteIsIdempotent(t *testing.T) {
	c := NewAssignmentCollection()
	id := c.Add("Essay", "", "2099-01-01", "")

	assert.True(t, c.Delete(id))
	assert.False(t, c.Contains(id))
	assert.False(t, c.Delete(id))
	assert.Empty(t, c.List())
}

func TestAssignmentCollectionFilter(t *testing.T) {
	c := NewAssignmentCollection()
	a := c.Add("B essay", "English", "2099-03-01", "")
	b := c.Add("A lab", "Chemistry", "2099-01-01", "")
	d := c.Add("C quiz", "English", "2099-02-01", "")
	_, err := c.Update(d, types.AssignmentUpdate{Completed: ptr(true)})
	require.NoError(t, err)

	t.Run("no filter keeps insertion order", func(t *testing.T) {
		assert.Equal(t, []string{a, b, d}, idsOf(c.Filter(types.AssignmentFilter{})))
	})

	t.Run("status", func(t *testing.T) {
		assert.Equal(t, []string{a, b}, idsOf(c.Filter(types.AssignmentFilter{Status: types.StatusPending})))
		assert.Equal(t, []string{d}, idsOf(c.Filter(types.AssignmentFilter{Status: types.StatusCompleted})))
	})

	t.Run("subject and sort", func(t *testing.T) {
		got := c.Filter(types.AssignmentFilter{Subject: "English", Sort: types.SortDueDate})
		assert.Equal(t, []string{d, a}, idsOf(got))
	})

	t.Run("combined filters", func(t *testing.T) {
		got := c.Filter(types.AssignmentFilter{Status: types.StatusPending, Subject: "English"})
		assert.Equal(t, []string{a}, idsOf(got))
	})

	t.Run("title sort", func(t *testing.T) {
		got := c.Filter(types.AssignmentFilter{Sort: types.SortTitle})
		assert.Equal(t, []string{b, a, d}, idsOf(got))
	})
}

func TestAssignmentCollectionStats(t *testing.T) {
	today := time.Date(2030, 5, 10, 23, 59, 0, 0, time.Local)
	c := NewAssignmentCollectionWithClock(fixedClock(today))

	c.Add("today", "Math", "2030-05-10", "")
	c.Add("edge", "Math", "2030-05-13", "")
	c.Add("later", "", "2030-05-14", "")
	c.Add("overdue", "Art", "2030-05-09", "")
	done := c.Add("done overdue", "Art", "2030-05-01", "")
	_, err := c.Update(done, types.AssignmentUpdate{Completed: ptr(true)})
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 4, stats.Pending)
	assert.Equal(t, 2, stats.UpcomingDue)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 20.0, stats.CompletionRate)
	assert.Equal(t, types.SubjectStat{Total: 2, Completed: 0}, stats.SubjectStats["Math"])
	assert.Equal(t, types.SubjectStat{Total: 2, Completed: 1}, stats.SubjectStats["Art"])
	assert.Equal(t, types.SubjectStat{Total: 1}, stats.SubjectStats[types.UncategorizedSubject])
}

func TestAssignmentCollectionStatsCompletionRate(t *testing.T) {
	c := NewAssignmentCollection()
	assert.Equal(t, 0.0, c.Stats().CompletionRate)

	for i := 0; i < 10; i++ {
		id := c.Add("task", "", "2099-01-01", "")
		if i < 3 {
			_, err := c.Update(id, types.AssignmentUpdate{Completed: ptr(true)})
			require.NoError(t, err)
		}
	}
	stats := c.Stats()
	assert.Equal(t, 30.0, stats.CompletionRate)
	assert.Equal(t, stats.Total, stats.Completed+stats.Pending)
}

func TestAssignmentCollectionInsertKeepsCompleted(t *testing.T) {
	c := NewAssignmentCollection()
	id := c.Insert(types.Assignment{ID: "ignored", Title: "Seed", DueDate: "2099-01-01", Completed: true})

	a, ok := c.Get(id)
	require.True(t, ok)
	assert.NotEqual(t, "ignored", id)
	assert.True(t, a.Completed)
	assert.Len(t, c.Snapshot(), 1)
}

func idsOf(list []types.Assignment) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}
