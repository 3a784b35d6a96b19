package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/store"
	"github.com/duedesk/apiserver/types"
)

// AssignmentService encapsulates a user's operations on their own
// assignments.
type AssignmentService struct {
	users  *store.UserDirectory
	policy *PermissionPolicy
	events *EventPublisher
}

func NewAssignmentService(users *store.UserDirectory, policy *PermissionPolicy, events *EventPublisher) *AssignmentService {
	return &AssignmentService{users: users, policy: policy, events: events}
}

// List returns the caller's assignments, filtered and sorted by f.
func (s *AssignmentService) List(ctx context.Context, username string, f types.AssignmentFilter) ([]types.Assignment, error) {
	c, err := s.collection(username, types.ActionRead)
	if err != nil {
		return nil, err
	}
	if !types.ValidStatus(f.Status) {
		return nil, apperr.Newf(apperr.InvalidFilter, "unknown status %q", f.Status)
	}
	if !types.ValidSort(f.Sort) {
		return nil, apperr.Newf(apperr.InvalidFilter, "unknown sort %q", f.Sort)
	}
	return c.Filter(f), nil
}

// Snapshot returns the caller's assignments keyed by id.
func (s *AssignmentService) Snapshot(ctx context.Context, username string) (map[string]types.Assignment, error) {
	c, err := s.collection(username, types.ActionRead)
	if err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

func (s *AssignmentService) Get(ctx context.Context, username, id string) (types.Assignment, error) {
	c, err := s.collection(username, types.ActionRead)
	if err != nil {
		return types.Assignment{}, err
	}
	a, ok := c.Get(id)
	if !ok {
		return types.Assignment{}, noSuchID(id)
	}
	return a, nil
}

// Create validates in and stores a new pending assignment.
func (s *AssignmentService) Create(ctx context.Context, username string, in types.AssignmentInput) (types.Assignment, error) {
	c, err := s.collection(username, types.ActionWrite)
	if err != nil {
		return types.Assignment{}, err
	}
	if err := validateStruct(in, apperr.RequiredFieldsMissing); err != nil {
		return types.Assignment{}, err
	}

	id := c.Add(in.Title, deref(in.Subject), in.DueDate, deref(in.Description))
	created, _ := c.Get(id)
	s.events.Publish(ctx, types.EventAssignmentCreated, username, types.AssignmentEvent{Owner: username, ID: id, Assignment: &created})
	return created, nil
}

// Replace overwrites an assignment. Title and due date are mandatory.
func (s *AssignmentService) Replace(ctx context.Context, username, id string, in types.AssignmentInput) (types.Assignment, error) {
	c, err := s.collection(username, types.ActionWrite)
	if err != nil {
		return types.Assignment{}, err
	}
	if err := validateStruct(in, apperr.RequiredFieldsMissing); err != nil {
		return types.Assignment{}, err
	}
	return s.apply(ctx, username, username, c, id, in.Update())
}

// Patch applies a partial update. Fields that are present may not blank out
// the title or due date.
func (s *AssignmentService) Patch(ctx context.Context, username, id string, upd types.AssignmentUpdate) (types.Assignment, error) {
	c, err := s.collection(username, types.ActionWrite)
	if err != nil {
		return types.Assignment{}, err
	}
	if err := validateStruct(upd, apperr.RequiredFieldsMissing); err != nil {
		return types.Assignment{}, err
	}
	return s.apply(ctx, username, username, c, id, upd)
}

// Delete removes an assignment and reports whether it existed.
func (s *AssignmentService) Delete(ctx context.Context, username, id string) (bool, error) {
	c, err := s.collection(username, types.ActionDelete)
	if err != nil {
		return false, err
	}
	existed := c.Delete(id)
	if existed {
		s.events.Publish(ctx, types.EventAssignmentDeleted, username, types.AssignmentEvent{Owner: username, ID: id})
	}
	return existed, nil
}

func (s *AssignmentService) Stats(ctx context.Context, username string) (types.Stats, error) {
	c, err := s.collection(username, types.ActionStats)
	if err != nil {
		return types.Stats{}, err
	}
	return c.Stats(), nil
}

func (s *AssignmentService) apply(ctx context.Context, actor, owner string, c *store.AssignmentCollection, id string, upd types.AssignmentUpdate) (types.Assignment, error) {
	updated, err := c.Update(id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Assignment{}, noSuchID(id)
		}
		return types.Assignment{}, fmt.Errorf("update assignment %s: %w", id, err)
	}
	s.events.Publish(ctx, types.EventAssignmentUpdated, actor, types.AssignmentEvent{Owner: owner, ID: id, Assignment: &updated})
	return updated, nil
}

func (s *AssignmentService) collection(username string, action types.Action) (*store.AssignmentCollection, error) {
	if !s.policy.HasPermission(username, action) {
		return nil, apperr.New(apperr.AuthInsufficient, "")
	}
	c, ok := s.users.GetUserData(username)
	if !ok {
		return nil, apperr.New(apperr.AuthMissing, "")
	}
	return c, nil
}

// DeleteMessage is the notice returned by delete endpoints.
func DeleteMessage(id string, existed bool) string {
	if existed {
		return fmt.Sprintf("assignment %s deleted", id)
	}
	return fmt.Sprintf("assignment %s did not exist", id)
}

func noSuchID(id string) error {
	return apperr.Newf(apperr.NoSuchID, "No assignment with id %s", id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
