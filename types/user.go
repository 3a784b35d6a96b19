package types

// Role indicates a user's authorization level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a recognised role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Action is a capability checked by the permission policy.
type Action string

const (
	ActionRead               Action = "read"
	ActionWrite              Action = "write"
	ActionDelete             Action = "delete"
	ActionStats              Action = "stats"
	ActionManageUsers        Action = "manageUsers"
	ActionManageSubjects     Action = "manageSubjects"
	ActionViewAllAssignments Action = "viewAllAssignments"
)

// AdminUsername is bound to the admin role from startup.
const AdminUsername = "admin"

// SessionInfo describes the caller behind a session cookie.
type SessionInfo struct {
	// Username is the login name bound to the session.
	Username string `json:"username"`

	// Role is the caller's role. Omitted on logout responses.
	Role Role `json:"role,omitempty"`
}
