package finance

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type Transaction struct {
	ID              string
	TransactionType TransactionType
	Amount          float64
	Date            time.Time
	Category        string
	Description     string
	Tags            []string
	EmployeeID      string
	ProjectID       string
	TaskID          string
}

// MonthlySummary aggregates the ledger for one calendar month.
type MonthlySummary struct {
	Income  float64
	Expense float64
	Balance float64
}
