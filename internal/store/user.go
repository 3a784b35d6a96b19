package store

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// UserDirectory maps usernames to their assignment collections. Entries are
// never removed.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]*AssignmentCollection
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[string]*AssignmentCollection)}
}

// IsValidUsername reports whether username is non-blank and made only of
// letters, digits and underscores.
func IsValidUsername(username string) bool {
	trimmed := strings.TrimSpace(username)
	return trimmed != "" && usernamePattern.MatchString(trimmed)
}

func (d *UserDirectory) GetUserData(username string) (*AssignmentCollection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.users[username]
	return c, ok
}

// AddUserData binds collection to username. It returns ErrExists if the
// username is already bound.
func (d *UserDirectory) AddUserData(username string, collection *AssignmentCollection) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.users[username]; ok {
		return ErrExists
	}
	d.users[username] = collection
	return nil
}

// GetAllUserData returns a shallow copy of the directory.
func (d *UserDirectory) GetAllUserData() map[string]*AssignmentCollection {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]*AssignmentCollection, len(d.users))
	for username, c := range d.users {
		out[username] = c
	}
	return out
}

// Usernames returns every registered username in ascending order.
func (d *UserDirectory) Usernames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.users))
	for username := range d.users {
		names = append(names, username)
	}
	sort.Strings(names)
	return names
}
