package types

import (
	"encoding/json"
	"time"
)

// Event types published after successful mutations.
const (
	EventUserRegistered      = "user.registered"
	EventSessionCreated      = "session.created"
	EventSessionDeleted      = "session.deleted"
	EventAssignmentCreated   = "assignment.created"
	EventAssignmentUpdated   = "assignment.updated"
	EventAssignmentDeleted   = "assignment.deleted"
	EventSubjectAdded        = "subject.added"
	EventSubjectRemoved      = "subject.removed"
	EventAssignmentsExported = "assignments.exported"
)

// Event is the envelope written to the message queue.
type Event struct {
	Type       string          `json:"type"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// AssignmentEvent is the payload of assignment events. Owner differs from
// the event actor when an admin edits another user's assignment.
type AssignmentEvent struct {
	Owner      string      `json:"owner"`
	ID         string      `json:"id"`
	Assignment *Assignment `json:"assignment,omitempty"`
}

// Export is the snapshot written by an admin export.
type Export struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Subjects    []string                `json:"subjects"`
	Users       map[string][]Assignment `json:"users"`
	Stats       AdminStats              `json:"stats"`
}

// ExportResult locates a written export.
type ExportResult struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Size   int    `json:"size"`
}
