package project

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

type Project struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	Status      Status
	StartDate   time.Time
	EndDate     time.Time
	Links       []Link
	Members     []Member
}

type Link struct {
	ID        string
	ProjectID string
	Title     string
	URL       string
	LinkType  string
}

// Member ties an employee to a project together with project-specific rates.
// Rates here sit between per-task overrides and the employee's standing rates
// in the resolution order. HourlyRate is the legacy single rate, interpreted
// as a bill rate.
type Member struct {
	ProjectID      string
	EmployeeID     string
	HourlyRate     *int
	CostHourlyRate *int
	BillHourlyRate *int
}
