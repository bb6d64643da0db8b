// Package seed populates a fresh store with sample documents and
// assignments for first boot.
package seed

import (
	"time"

	"github.com/ummeeayz/edusafe-app/internal/logging"
	"github.com/ummeeayz/edusafe-app/internal/services"
)

type sampleDocument struct {
	title    string
	category string
	content  string
	size     int64
}

type sampleAssignment struct {
	title    string
	dueIn    time.Duration
	priority string
	subject  string
}

var sampleDocuments = []sampleDocument{
	{
		title:    "Biology Notes - Ch. 7",
		category: "Class Notes",
		content:  "These are sample notes about cell biology...",
		size:     150000,
	},
	{
		title:    "History Essay Draft",
		category: "Assignments",
		content:  "Introduction: The impact of World War II on global economics...",
		size:     220000,
	},
	{
		title:    "Math Problem Set #4",
		category: "Assignments",
		content:  "Problem 1: Solve the quadratic equation...",
		size:     80000,
	},
	{
		title:    "Physics Formula Sheet",
		category: "Resources",
		content:  "Newton's Laws: F = ma...",
		size:     120000,
	},
}

var sampleAssignments = []sampleAssignment{
	{title: "Chemistry Lab Report", dueIn: 24 * time.Hour, priority: "high", subject: "Chemistry"},
	{title: "English Literature Essay", dueIn: 4 * 24 * time.Hour, priority: "medium", subject: "English"},
	{title: "Math Quiz Preparation", dueIn: 7 * 24 * time.Hour, priority: "low", subject: "Math"},
}

// Populate creates the sample documents and assignments through the
// services. It is a no-op when any document already exists. Returns
// true when data was created.
func Populate(documents *services.DocumentService, assignments *services.AssignmentService) (bool, error) {
	existing, err := documents.GetAllDocuments()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		logging.Debug("sample data already exists")
		return false, nil
	}

	for _, d := range sampleDocuments {
		if _, err := documents.CreateDocument(services.CreateDocumentInput{
			Title:    d.title,
			Category: d.category,
			Content:  d.content,
			Size:     d.size,
		}); err != nil {
			return false, err
		}
	}

	now := time.Now()
	for _, a := range sampleAssignments {
		if _, err := assignments.CreateAssignment(services.CreateAssignmentInput{
			Title:    a.title,
			DueDate:  now.Add(a.dueIn),
			Priority: a.priority,
			Subject:  a.subject,
		}); err != nil {
			return false, err
		}
	}

	logging.Info("sample data populated", map[string]interface{}{
		"documents":   len(sampleDocuments),
		"assignments": len(sampleAssignments),
	})
	return true, nil
}
