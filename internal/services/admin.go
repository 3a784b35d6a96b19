package services

import (
	"context"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/store"
	"github.com/duedesk/apiserver/types"
)

// AdminService exposes cross-user operations to admins.
type AdminService struct {
	users       *store.UserDirectory
	policy      *PermissionPolicy
	assignments *AssignmentService
}

func NewAdminService(users *store.UserDirectory, policy *PermissionPolicy, assignments *AssignmentService) *AdminService {
	return &AdminService{users: users, policy: policy, assignments: assignments}
}

// AllAssignments returns every user's assignments keyed by username then id.
func (s *AdminService) AllAssignments(ctx context.Context, actor string) (map[string]map[string]types.Assignment, error) {
	if err := s.require(actor, types.ActionViewAllAssignments); err != nil {
		return nil, err
	}
	all := s.users.GetAllUserData()
	out := make(map[string]map[string]types.Assignment, len(all))
	for username, c := range all {
		out[username] = c.Snapshot()
	}
	return out, nil
}

// PatchAssignment applies a partial update to owner's assignment.
func (s *AdminService) PatchAssignment(ctx context.Context, actor, owner, id string, upd types.AssignmentUpdate) (types.Assignment, error) {
	if err := s.require(actor, types.ActionManageUsers); err != nil {
		return types.Assignment{}, err
	}
	c, ok := s.users.GetUserData(owner)
	if !ok {
		return types.Assignment{}, apperr.New(apperr.UserNotFound, "")
	}
	if !c.Contains(id) {
		return types.Assignment{}, noSuchID(id)
	}
	if err := validateStruct(upd, apperr.RequiredFieldsMissing); err != nil {
		return types.Assignment{}, err
	}
	return s.assignments.apply(ctx, actor, owner, c, id, upd)
}

// DeleteAssignment removes owner's assignment and reports whether it existed.
func (s *AdminService) DeleteAssignment(ctx context.Context, actor, owner, id string) (bool, error) {
	if err := s.require(actor, types.ActionManageUsers); err != nil {
		return false, err
	}
	c, ok := s.users.GetUserData(owner)
	if !ok {
		return false, apperr.New(apperr.UserNotFound, "")
	}
	existed := c.Delete(id)
	if existed {
		s.assignments.events.Publish(ctx, types.EventAssignmentDeleted, actor, types.AssignmentEvent{Owner: owner, ID: id})
	}
	return existed, nil
}

// Stats aggregates every user's assignments.
func (s *AdminService) Stats(ctx context.Context, actor string) (types.AdminStats, error) {
	if err := s.require(actor, types.ActionViewAllAssignments); err != nil {
		return types.AdminStats{}, err
	}
	return adminStats(s.users.GetAllUserData()), nil
}

func (s *AdminService) require(actor string, action types.Action) error {
	if !s.policy.HasPermission(actor, action) {
		return apperr.New(apperr.AuthInsufficient, "")
	}
	return nil
}

func adminStats(all map[string]*store.AssignmentCollection) types.AdminStats {
	stats := types.AdminStats{
		UserCount:            len(all),
		AssignmentsBySubject: make(map[string]types.SubjectStat),
		AssignmentsByUser:    make(map[string]types.SubjectStat),
	}
	for username, c := range all {
		var user types.SubjectStat
		for _, a := range c.List() {
			user.Total++
			key := types.SubjectKey(a.Subject)
			subject := stats.AssignmentsBySubject[key]
			subject.Total++
			if a.Completed {
				user.Completed++
				subject.Completed++
			}
			stats.AssignmentsBySubject[key] = subject
		}
		stats.AssignmentsByUser[username] = user
		stats.TotalAssignments += user.Total
		stats.CompletedAssignments += user.Completed
	}
	stats.CompletionRate = types.CompletionRate(stats.CompletedAssignments, stats.TotalAssignments)
	return stats
}
