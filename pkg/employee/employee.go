package employee

import "time"

type Employee struct {
	ID            string
	Name          string
	Position      string
	Email         string
	Salary        *float64
	Revenue       *float64
	CurrentStatus string
	StatusTag     string
	StatusDate    time.Time
	// HourlyRate is the legacy single rate, kept as a fallback for both cost
	// and bill when the split fields are absent.
	HourlyRate     *int
	CostHourlyRate *int
	BillHourlyRate *int
	// PlannedMonthlyHours overrides the configured default when deriving an
	// hourly cost rate from a monthly salary.
	PlannedMonthlyHours *int
}
