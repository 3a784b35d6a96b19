package store

import (
	"sync"
	"time"

	"github.com/duedesk/apiserver/types"
	"github.com/google/uuid"
)

const upcomingWindowDays = 3

// AssignmentCollection holds one user's assignments in memory.
type AssignmentCollection struct {
	mu    sync.RWMutex
	items map[string]*types.Assignment
	order []string
	now   func() time.Time
}

// NewAssignmentCollection returns an empty collection using the wall clock.
func NewAssignmentCollection() *AssignmentCollection {
	return NewAssignmentCollectionWithClock(time.Now)
}

// NewAssignmentCollectionWithClock returns an empty collection whose
// timestamps and "today" come from now.
func NewAssignmentCollectionWithClock(now func() time.Time) *AssignmentCollection {
	if now == nil {
		now = time.Now
	}
	return &AssignmentCollection{
		items: make(map[string]*types.Assignment),
		now:   now,
	}
}

// Add stores a new pending assignment and returns its id.
func (c *AssignmentCollection) Add(title, subject, dueDate, description string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	c.items[id] = &types.Assignment{
		ID:          id,
		Title:       title,
		Subject:     subject,
		DueDate:     dueDate,
		Description: description,
		CreatedAt:   c.now(),
	}
	c.order = append(c.order, id)
	return id
}

// Insert stores a copy of a under a fresh id, keeping its Completed flag.
// ID, CreatedAt and UpdatedAt are overwritten.
func (c *AssignmentCollection) Insert(a types.Assignment) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	a.ID = uuid.NewString()
	a.CreatedAt = c.now()
	a.UpdatedAt = nil
	c.items[a.ID] = &a
	c.order = append(c.order, a.ID)
	return a.ID
}

// Get returns a copy of the assignment with the given id.
func (c *AssignmentCollection) Get(id string) (types.Assignment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.items[id]
	if !ok {
		return types.Assignment{}, false
	}
	return *a, true
}

func (c *AssignmentCollection) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[id]
	return ok
}

// Update overwrites the fields present in upd and stamps UpdatedAt.
func (c *AssignmentCollection) Update(id string, upd types.AssignmentUpdate) (types.Assignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.items[id]
	if !ok {
		return types.Assignment{}, ErrNotFound
	}
	upd.Apply(a)
	now := c.now()
	a.UpdatedAt = &now
	return *a, nil
}

// Delete removes id and reports whether it was present.
func (c *AssignmentCollection) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *AssignmentCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// List returns every assignment in insertion order.
func (c *AssignmentCollection) List() []types.Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.Assignment, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.items[id])
	}
	return out
}

// Snapshot returns the assignments keyed by id.
func (c *AssignmentCollection) Snapshot() map[string]types.Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]types.Assignment, len(c.items))
	for id, a := range c.items {
		out[id] = *a
	}
	return out
}

// Filter returns the assignments matching every non-empty field of f,
// ordered by f.Sort.
func (c *AssignmentCollection) Filter(f types.AssignmentFilter) []types.Assignment {
	all := c.List()
	out := all[:0]
	for _, a := range all {
		if f.Status != "" && a.Completed != (f.Status == types.StatusCompleted) {
			continue
		}
		if f.Subject != "" && a.Subject != f.Subject {
			continue
		}
		out = append(out, a)
	}
	types.SortAssignments(out, f.Sort)
	return out
}

// Stats aggregates the collection relative to the current local day.
func (c *AssignmentCollection) Stats() types.Stats {
	today := truncateDay(c.now())
	horizon := today.AddDate(0, 0, upcomingWindowDays)

	stats := types.Stats{SubjectStats: make(map[string]types.SubjectStat)}
	for _, a := range c.List() {
		stats.Total++
		key := types.SubjectKey(a.Subject)
		subject := stats.SubjectStats[key]
		subject.Total++
		if a.Completed {
			stats.Completed++
			subject.Completed++
		}
		stats.SubjectStats[key] = subject

		if a.Completed {
			continue
		}
		due, err := types.ParseDate(a.DueDate)
		if err != nil {
			continue
		}
		due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, today.Location())
		switch {
		case due.Before(today):
			stats.Overdue++
		case !due.After(horizon):
			stats.UpcomingDue++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	stats.CompletionRate = types.CompletionRate(stats.Completed, stats.Total)
	return stats
}

// Today returns the collection clock's current local calendar day.
func (c *AssignmentCollection) Today() time.Time {
	return truncateDay(c.now())
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
