package types

// UncategorizedSubject is the bucket used in statistics for assignments
// without a subject.
const UncategorizedSubject = "Uncategorized"

// SubjectStat counts assignments of one subject.
type SubjectStat struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Stats summarizes one user's assignments.
type Stats struct {
	Total          int                    `json:"total"`
	Completed      int                    `json:"completed"`
	Pending        int                    `json:"pending"`
	UpcomingDue    int                    `json:"upcomingDue"`
	Overdue        int                    `json:"overdue"`
	CompletionRate float64                `json:"completionRate"`
	SubjectStats   map[string]SubjectStat `json:"subjectStats"`
}

// AdminStats summarizes every user's assignments.
type AdminStats struct {
	UserCount            int                    `json:"userCount"`
	TotalAssignments     int                    `json:"totalAssignments"`
	CompletedAssignments int                    `json:"completedAssignments"`
	CompletionRate       float64                `json:"completionRate"`
	AssignmentsBySubject map[string]SubjectStat `json:"assignmentsBySubject"`
	AssignmentsByUser    map[string]SubjectStat `json:"assignmentsByUser"`
}

// CompletionRate returns completed/total as a percentage rounded to one
// decimal place, or 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	tenths := (completed*1000 + total/2) / total
	return float64(tenths) / 10
}

// SubjectKey maps an empty subject to UncategorizedSubject.
func SubjectKey(subject string) string {
	if subject == "" {
		return UncategorizedSubject
	}
	return subject
}
