package types

import "time"

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

// Assignment represents a single task owned by one user.
type Assignment struct {
	// ID is the unique identifier of the assignment within its owner's collection.
	ID string `json:"id"`

	// Title is the short name of the assignment. Never empty.
	Title string `json:"title"`

	// Subject is a free-form course name. It is not checked against the
	// subject registry and may be empty.
	Subject string `json:"subject"`

	// DueDate is the calendar date the assignment is due, as YYYY-MM-DD.
	DueDate string `json:"dueDate"`

	// Description is optional long-form text.
	Description string `json:"description"`

	// Completed reports whether the owner marked the assignment done.
	Completed bool `json:"completed"`

	// CreatedAt is the timestamp when the assignment was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp of the most recent mutation. It stays nil
	// until the first update.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// AssignmentUpdate carries a partial update. Nil fields are left untouched.
type AssignmentUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Subject     *string `json:"subject,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" validate:"omitnil,min=1,datetime=2006-01-02"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u AssignmentUpdate) Empty() bool {
	return u.Title == nil && u.Subject == nil && u.DueDate == nil && u.Description == nil && u.Completed == nil
}

// Apply copies the present fields onto a.
func (u AssignmentUpdate) Apply(a *Assignment) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Subject != nil {
		a.Subject = *u.Subject
	}
	if u.DueDate != nil {
		a.DueDate = *u.DueDate
	}
	if u.Description != nil {
		a.Description = *u.Description
	}
	if u.Completed != nil {
		a.Completed = *u.Completed
	}
}

// Status filter values.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Sort keys.
const (
	SortDueDate = "dueDate"
	SortTitle   = "title"
	SortSubject = "subject"
)

// AssignmentFilter narrows and orders a listing. Zero values disable the
// corresponding filter.
type AssignmentFilter struct {
	Status  string `json:"status,omitempty"`
	Subject string `json:"subject,omitempty"`
	Sort    string `json:"sort,omitempty"`
}

// ValidStatus reports whether s is a recognised status filter.
func ValidStatus(s string) bool {
	return s == "" || s == StatusCompleted || s == StatusPending
}

// ValidSort reports whether s is a recognised sort key.
func ValidSort(s string) bool {
	return s == "" || s == SortDueDate || s == SortTitle || s == SortSubject
}

// ParseDate parses a YYYY-MM-DD due date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
