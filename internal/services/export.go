package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/store"
	"github.com/duedesk/apiserver/types"
	"go.uber.org/zap"
)

const exportKeyLayout = "20060102T150405.000000000Z"

// ObjectWriter is the subset of *storage.Storage used by exports.
type ObjectWriter interface {
	PutBytes(ctx context.Context, key string, data []byte, contentType string) error
	Bucket() string
}

// ExportService writes admin snapshots to object storage.
type ExportService struct {
	writer   ObjectWriter
	users    *store.UserDirectory
	subjects *store.SubjectRegistry
	policy   *PermissionPolicy
	events   *EventPublisher
	log      *zap.Logger
	now      func() time.Time
}

// NewExportService returns a service that writes through writer. A nil
// writer makes every export fail with export-unavailable.
func NewExportService(
	writer ObjectWriter,
	users *store.UserDirectory,
	subjects *store.SubjectRegistry,
	policy *PermissionPolicy,
	events *EventPublisher,
	log *zap.Logger,
) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{
		writer:   writer,
		users:    users,
		subjects: subjects,
		policy:   policy,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Export writes a JSON snapshot of every user's assignments.
func (s *ExportService) Export(ctx context.Context, actor string) (types.ExportResult, error) {
	if !s.policy.HasPermission(actor, types.ActionViewAllAssignments) {
		return types.ExportResult{}, apperr.New(apperr.AuthInsufficient, "")
	}
	if s.writer == nil {
		return types.ExportResult{}, apperr.New(apperr.ExportUnavailable, "object storage is not configured")
	}

	all := s.users.GetAllUserData()
	now := s.now().UTC()
	snapshot := types.Export{
		GeneratedAt: now,
		Subjects:    s.subjects.List(),
		Users:       make(map[string][]types.Assignment, len(all)),
		Stats:       adminStats(all),
	}
	for username, c := range all {
		snapshot.Users[username] = c.List()
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return types.ExportResult{}, fmt.Errorf("encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s.json", now.Format(exportKeyLayout))
	if err := s.writer.PutBytes(ctx, key, data, "application/json"); err != nil {
		s.log.Error("export upload failed", zap.String("key", key), zap.Error(err))
		return types.ExportResult{}, apperr.Wrap(apperr.ExportUnavailable, err)
	}

	result := types.ExportResult{Key: key, Bucket: s.writer.Bucket(), Size: len(data)}
	s.log.Info("assignments exported", zap.String("key", key), zap.Int("users", len(all)))
	s.events.Publish(ctx, types.EventAssignmentsExported, actor, result)
	return result, nil
}
