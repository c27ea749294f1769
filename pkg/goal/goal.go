package goal

import "time"

type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Goal tracks a periodic objective. Progress is a percentage, always kept
// within 0..100.
type Goal struct {
	ID          string
	Title       string
	Description string
	Period      Period
	StartDate   time.Time
	EndDate     time.Time
	Status      Status
	Progress    int
	Tags        []string
}
