package services

import (
	"context"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/store"
	"github.com/duedesk/apiserver/types"
)

// SubjectService guards the subject registry behind manageSubjects.
type SubjectService struct {
	registry *store.SubjectRegistry
	policy   *PermissionPolicy
	events   *EventPublisher
}

func NewSubjectService(registry *store.SubjectRegistry, policy *PermissionPolicy, events *EventPublisher) *SubjectService {
	return &SubjectService{registry: registry, policy: policy, events: events}
}

// GetSubjects is public.
func (s *SubjectService) GetSubjects(ctx context.Context) []string {
	return s.registry.List()
}

// AddSubject appends a subject and returns the updated list.
func (s *SubjectService) AddSubject(ctx context.Context, actor string, in types.SubjectInput) ([]string, error) {
	if !s.policy.HasPermission(actor, types.ActionManageSubjects) {
		return nil, apperr.New(apperr.AuthInsufficient, "")
	}
	if err := validateStruct(in, apperr.RequiredSubject); err != nil {
		return nil, err
	}
	if !s.registry.Add(in.Subject) {
		return nil, apperr.New(apperr.SubjectExists, "")
	}
	s.events.Publish(ctx, types.EventSubjectAdded, actor, in)
	return s.registry.List(), nil
}

// RemoveSubject deletes a subject and returns the updated list.
func (s *SubjectService) RemoveSubject(ctx context.Context, actor, subject string) ([]string, error) {
	if !s.policy.HasPermission(actor, types.ActionManageSubjects) {
		return nil, apperr.New(apperr.AuthInsufficient, "")
	}
	if !s.registry.Remove(subject) {
		return nil, apperr.New(apperr.SubjectNotFound, "")
	}
	s.events.Publish(ctx, types.EventSubjectRemoved, actor, types.SubjectInput{Subject: subject})
	return s.registry.List(), nil
}
