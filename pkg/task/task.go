package task

import "time"

type Priority string

const (
	PriorityLow    Priority = "L"
	PriorityMedium Priority = "M"
	PriorityHigh   Priority = "H"
)

// State is derived from the done/approved pair, never stored on its own.
type State string

const (
	StateOpen             State = "open"
	StateAwaitingApproval State = "awaiting_approval"
	StateApproved         State = "approved"
)

type Task struct {
	ID         string
	Content    string
	Priority   Priority
	DueDate    time.Time
	Done       bool
	AssignedTo string
	ProjectID  string
	HoursSpent float64
	Billable   bool

	// Per-task rate overrides. They beat membership and employee rates during
	// resolution. HourlyRateOverride is the legacy single override and fills
	// in for both cost and bill when the split overrides are absent.
	CostRateOverride   *int
	BillRateOverride   *int
	HourlyRateOverride *int

	// Audit snapshot written by the finance generator on every invocation
	// while the task is done. AppliedHourlyRate mirrors the bill rate when
	// present, otherwise the cost rate.
	AppliedCostRate   *int
	AppliedBillRate   *int
	AppliedHourlyRate *int

	Approved   bool
	ApprovedAt *time.Time

	// Ledger linkage. Set at most once per task lifetime and never cleared;
	// a non-empty value means finance was already generated.
	IncomeTxID  string
	ExpenseTxID string
}

// State derives the approval state from the done/approved flags.
func (t Task) State() State {
	switch {
	case !t.Done:
		return StateOpen
	case t.Approved:
		return StateApproved
	default:
		return StateAwaitingApproval
	}
}

// FinanceGenerated reports whether ledger entries were already created for
// this task.
func (t Task) FinanceGenerated() bool {
	return t.IncomeTxID != "" || t.ExpenseTxID != ""
}
