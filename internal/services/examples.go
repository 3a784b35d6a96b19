package services

import (
	"time"

	"github.com/duedesk/apiserver/internal/store"
	"github.com/duedesk/apiserver/types"
)

type exampleAssignment struct {
	title       string
	subject     string
	dueInDays   int
	description string
	completed   bool
}

var exampleAssignments = []exampleAssignment{
	{"UML Class Diagram", "Application Modeling & Design", 1, "Design a class diagram for the student course registration system.", false},
	{"Python Loops Practice", "Intro to Python for Info Sys", 3, "Practice loops, conditionals, and functions.", false},
	{"Dev Environment Setup", "Application Engineer & Dev", -1, "Complete initial dev environment and run the hello world project.", true},
	{"Unit Test with Jest", "Lab for Application Engineer & Dev", 5, "Write unit tests for basic calculator functions.", false},
	{"CSS Grid & Flexbox", "Web Development Tools & Methods", 2, "Create a responsive layout using both Grid and Flexbox.", false},
	{"LLM API Integration", "Adv Techniques With LLM", -3, "Use OpenAI API to generate summaries from blog articles.", true},
}

// seedExamples fills c with the starter assignments, due relative to today.
func seedExamples(c *store.AssignmentCollection) {
	today := c.Today()
	for _, ex := range exampleAssignments {
		c.Insert(types.Assignment{
			Title:       ex.title,
			Subject:     ex.subject,
			DueDate:     today.AddDate(0, 0, ex.dueInDays).Format(types.DateLayout),
			Description: ex.description,
			Completed:   ex.completed,
		})
	}
}

// newCollection returns an empty or seeded collection on clock.
func newCollection(now func() time.Time, seed bool) *store.AssignmentCollection {
	c := store.NewAssignmentCollectionWithClock(now)
	if seed {
		seedExamples(c)
	}
	return c
}
