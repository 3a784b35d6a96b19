package services

import (
	"errors"
	"sync"

	"github.com/duedesk/apiserver/types"
)

// ErrUnknownRole is returned when assigning a role outside the known set.
var ErrUnknownRole = errors.New("unknown role")

var rolePermissions = map[types.Role]map[types.Action]bool{
	types.RoleUser: {
		types.ActionRead:   true,
		types.ActionWrite:  true,
		types.ActionDelete: true,
		types.ActionStats:  true,
	},
	types.RoleAdmin: {
		types.ActionRead:               true,
		types.ActionWrite:              true,
		types.ActionDelete:             true,
		types.ActionStats:              true,
		types.ActionManageUsers:        true,
		types.ActionManageSubjects:     true,
		types.ActionViewAllAssignments: true,
	},
}

// PermissionPolicy maps usernames to roles. Unknown usernames are users.
type PermissionPolicy struct {
	mu    sync.RWMutex
	roles map[string]types.Role
}

// NewPermissionPolicy returns a policy with AdminUsername bound to the admin
// role.
func NewPermissionPolicy() *PermissionPolicy {
	return &PermissionPolicy{
		roles: map[string]types.Role{types.AdminUsername: types.RoleAdmin},
	}
}

func (p *PermissionPolicy) GetUserRole(username string) types.Role {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if role, ok := p.roles[username]; ok {
		return role
	}
	return types.RoleUser
}

func (p *PermissionPolicy) IsAdmin(username string) bool {
	return p.GetUserRole(username) == types.RoleAdmin
}

func (p *PermissionPolicy) AssignRole(username string, role types.Role) error {
	if !role.Valid() {
		return ErrUnknownRole
	}
	p.mu.Lock()
	p.roles[username] = role
	p.mu.Unlock()
	return nil
}

func (p *PermissionPolicy) HasPermission(username string, action types.Action) bool {
	return rolePermissions[p.GetUserRole(username)][action]
}
