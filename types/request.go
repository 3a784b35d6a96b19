package types

// Credentials is the login and registration payload.
type Credentials struct {
	Username string `json:"username"`
}

// AssignmentInput is the payload for creating or fully replacing an
// assignment. Subject and Description default to empty on create; on
// replace, absent values leave the stored field as is.
type AssignmentInput struct {
	Title       string  `json:"title" validate:"required"`
	Subject     *string `json:"subject,omitempty"`
	DueDate     string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Update converts the input to a partial update carrying every field that
// was supplied.
func (in AssignmentInput) Update() AssignmentUpdate {
	title := in.Title
	due := in.DueDate
	return AssignmentUpdate{
		Title:       &title,
		Subject:     in.Subject,
		DueDate:     &due,
		Description: in.Description,
		Completed:   in.Completed,
	}
}

// SubjectInput is the payload for adding a subject.
type SubjectInput struct {
	Subject string `json:"subject" validate:"required"`
}

// DeleteResult reports the outcome of a delete.
type DeleteResult struct {
	Message string `json:"message"`
}
