package event_bus

import "time"

const (
	TaskApprovedEvent   EventType = "task.approved"
	LedgerPostedEvent   EventType = "ledger.posted"
	TaskReopenedEvent   EventType = "task.reopened"
	TaskCompletedEvent  EventType = "task.completed"
	CommandHandledEvent EventType = "command.handled"
)

// TaskApproved is published when a privileged actor approves a completed task.
type TaskApproved struct {
	TaskID     string
	EmployeeID string
	ProjectID  string
	ApprovedAt time.Time
}

// LedgerPosted is published after the finance generator links ledger entries
// onto a task.
type LedgerPosted struct {
	TaskID       string
	IncomeTxID   string
	ExpenseTxID  string
	IncomeTotal  float64
	ExpenseTotal float64
}

// TaskReopened is published when a done task is moved back to open.
type TaskReopened struct {
	TaskID string
}

// TaskCompleted is published when a non-privileged actor marks a task done and
// the task starts awaiting approval.
type TaskCompleted struct {
	TaskID     string
	EmployeeID string
}

// CommandHandled is published after the command dispatcher executed an intent.
type CommandHandled struct {
	Action string
	Entity string
}
