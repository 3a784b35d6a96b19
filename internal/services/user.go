package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/store"
	"github.com/duedesk/apiserver/types"
	"go.uber.org/zap"
)

// ReservedUsername can never register or log in.
const ReservedUsername = "dog"

// UserOptions tunes UserService.
type UserOptions struct {
	// SeedExamples fills new accounts with the starter assignments.
	SeedExamples bool

	// Clock is used by collections created for new accounts. Defaults to
	// time.Now.
	Clock func() time.Time
}

// UserService encapsulates registration, login and session lookup.
type UserService struct {
	sessions *store.SessionStore
	users    *store.UserDirectory
	policy   *PermissionPolicy
	events   *EventPublisher
	log      *zap.Logger
	opts     UserOptions
}

func NewUserService(
	sessions *store.SessionStore,
	users *store.UserDirectory,
	policy *PermissionPolicy,
	events *EventPublisher,
	log *zap.Logger,
	opts UserOptions,
) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &UserService{
		sessions: sessions,
		users:    users,
		policy:   policy,
		events:   events,
		log:      log,
		opts:     opts,
	}
}

// EnsureUser creates an empty directory entry for username if none exists.
func (s *UserService) EnsureUser(username string) {
	if _, ok := s.users.GetUserData(username); ok {
		return
	}
	_ = s.users.AddUserData(username, newCollection(s.opts.Clock, false))
}

// Register creates the account and opens a session for it.
func (s *UserService) Register(ctx context.Context, username string) (string, map[string]types.Assignment, error) {
	username, err := checkUsername(username)
	if err != nil {
		return "", nil, err
	}

	collection := newCollection(s.opts.Clock, s.opts.SeedExamples)
	if err := s.users.AddUserData(username, collection); err != nil {
		if errors.Is(err, store.ErrExists) {
			return "", nil, apperr.New(apperr.UsernameExists, "")
		}
		return "", nil, fmt.Errorf("register %s: %w", username, err)
	}

	sid, err := s.sessions.AddSession(username)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("user registered", zap.String("username", username))
	s.events.Publish(ctx, types.EventUserRegistered, username, types.SessionInfo{Username: username})
	s.events.Publish(ctx, types.EventSessionCreated, username, types.SessionInfo{Username: username})
	return sid, collection.Snapshot(), nil
}

// Login opens a session for an existing account.
func (s *UserService) Login(ctx context.Context, username string) (string, map[string]types.Assignment, error) {
	username, err := checkUsername(username)
	if err != nil {
		return "", nil, err
	}

	collection, ok := s.users.GetUserData(username)
	if !ok {
		return "", nil, apperr.New(apperr.AuthNoUser, "Username not found. Please register first.")
	}

	sid, err := s.sessions.AddSession(username)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("user logged in", zap.String("username", username))
	s.events.Publish(ctx, types.EventSessionCreated, username, types.SessionInfo{Username: username})
	return sid, collection.Snapshot(), nil
}

// Logout ends sid and returns the username it belonged to, or "" if the
// session was unknown.
func (s *UserService) Logout(ctx context.Context, sid string) string {
	username, ok := s.sessions.GetSessionUser(sid)
	if !ok {
		return ""
	}
	s.sessions.DeleteSession(sid)
	s.events.Publish(ctx, types.EventSessionDeleted, username, types.SessionInfo{Username: username})
	return username
}

// Resolve maps a session id to the caller. Unknown sessions, and sessions
// whose user is gone, are auth-missing.
func (s *UserService) Resolve(sid string) (types.SessionInfo, error) {
	if sid == "" {
		return types.SessionInfo{}, apperr.New(apperr.AuthMissing, "")
	}
	username, ok := s.sessions.GetSessionUser(sid)
	if !ok || !store.IsValidUsername(username) {
		return types.SessionInfo{}, apperr.New(apperr.AuthMissing, "")
	}
	if _, ok := s.users.GetUserData(username); !ok {
		return types.SessionInfo{}, apperr.New(apperr.AuthMissing, "")
	}
	return types.SessionInfo{Username: username, Role: s.policy.GetUserRole(username)}, nil
}

func checkUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if !store.IsValidUsername(username) {
		return "", apperr.New(apperr.RequiredUsername, "")
	}
	if username == ReservedUsername {
		return "", apperr.New(apperr.AuthInsufficient, "")
	}
	return username, nil
}
