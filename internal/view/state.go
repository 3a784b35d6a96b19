// Package view holds the terminal client's state and the views derived from
// it. Everything here is pure: Reduce returns a new State and never mutates
// its input.
package view

import (
	"maps"

	"github.com/duedesk/apiserver/types"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// DefaultItemsPerPage is the page size of a fresh State.
const DefaultItemsPerPage = 5

// Filter narrows the list shown to the user.
type Filter struct {
	Status  string
	Subject string
	Search  string
}

// State is the client's view of the signed-in user's assignments.
type State struct {
	Assignments  map[string]types.Assignment
	Loading      bool
	Error        string
	Filter       Filter
	Sort         string
	Page         int
	ItemsPerPage int
	LastAddedID  string
}

// InitialState returns the state of a freshly signed-in client.
func InitialState() State {
	return State{
		Assignments:  map[string]types.Assignment{},
		Filter:       Filter{Status: StatusAll},
		Sort:         types.SortDueDate,
		Page:         1,
		ItemsPerPage: DefaultItemsPerPage,
	}
}

// Action is a state transition understood by Reduce.
type Action interface {
	apply(State) State
}

// SetAssignments replaces every assignment.
type SetAssignments struct{ Assignments map[string]types.Assignment }

// AddAssignment upserts one assignment and marks it as the latest addition.
type AddAssignment struct{ Assignment types.Assignment }

// UpdateAssignment merges the present fields of Update into assignment ID.
type UpdateAssignment struct {
	ID     string
	Update types.AssignmentUpdate
}

// DeleteAssignment removes assignment ID.
type DeleteAssignment struct{ ID string }

type SetLoading struct{ Loading bool }

// SetError records an error message and ends any pending load.
type SetError struct{ Message string }

// SetFilter merges the non-nil fields into the filter and returns to page 1.
type SetFilter struct {
	Status  *string
	Subject *string
	Search  *string
}

type SetSort struct{ Sort string }

type SetPage struct{ Page int }

type SetLastAdded struct{ ID string }

// Reset returns to InitialState.
type Reset struct{}

// Reduce applies action to state. A nil action leaves state unchanged.
func Reduce(state State, action Action) State {
	if action == nil {
		return state
	}
	return action.apply(state)
}

func (a SetAssignments) apply(s State) State {
	s.Assignments = maps.Clone(a.Assignments)
	if s.Assignments == nil {
		s.Assignments = map[string]types.Assignment{}
	}
	s.LastAddedID = ""
	return s
}

func (a AddAssignment) apply(s State) State {
	s.Assignments = cloneAssignments(s.Assignments)
	s.Assignments[a.Assignment.ID] = a.Assignment
	s.LastAddedID = a.Assignment.ID
	return s
}

func (a UpdateAssignment) apply(s State) State {
	s.Assignments = cloneAssignments(s.Assignments)
	current, ok := s.Assignments[a.ID]
	if !ok {
		current = types.Assignment{ID: a.ID}
	}
	a.Update.Apply(&current)
	s.Assignments[a.ID] = current
	s.LastAddedID = ""
	return s
}

func (a DeleteAssignment) apply(s State) State {
	s.Assignments = cloneAssignments(s.Assignments)
	delete(s.Assignments, a.ID)
	s.LastAddedID = ""
	return s
}

func (a SetLoading) apply(s State) State {
	s.Loading = a.Loading
	return s
}

func (a SetError) apply(s State) State {
	s.Error = a.Message
	s.Loading = false
	return s
}

func (a SetFilter) apply(s State) State {
	if a.Status != nil {
		s.Filter.Status = *a.Status
	}
	if a.Subject != nil {
		s.Filter.Subject = *a.Subject
	}
	if a.Search != nil {
		s.Filter.Search = *a.Search
	}
	s.Page = 1
	return s
}

func (a SetSort) apply(s State) State {
	s.Sort = a.Sort
	return s
}

func (a SetPage) apply(s State) State {
	s.Page = a.Page
	return s
}

func (a SetLastAdded) apply(s State) State {
	s.LastAddedID = a.ID
	return s
}

func (Reset) apply(State) State {
	return InitialState()
}

func cloneAssignments(m map[string]types.Assignment) map[string]types.Assignment {
	out := make(map[string]types.Assignment, len(m)+1)
	maps.Copy(out, m)
	return out
}
