package billing

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/event_bus"
	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/crewdeck/crewdeck/pkg/employee"
	"github.com/crewdeck/crewdeck/pkg/finance"
	"github.com/crewdeck/crewdeck/pkg/project"
	"github.com/crewdeck/crewdeck/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = test_utils.AdminContext()

var repoStub = NewStubRepository()
var employeeStub = employee.NewStubRepo()
var projectStub = project.NewStubRepository()

var generator *Generator
var bus *event_bus.EventBus

func setup(t *testing.T) func() {
	bus = event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)}
	generator = NewGenerator(NewResolver(160), repoStub, employeeStub, projectStub, clock, bus)
	return func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
		employeeStub.Cleanup()
		projectStub.Cleanup()
	}
}

func entryOf(entries []finance.Transaction, txType finance.TransactionType) (finance.Transaction, bool) {
	for _, e := range entries {
		if e.TransactionType == txType {
			return e, true
		}
	}
	return finance.Transaction{}, false
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("end to end with membership bill rate", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", Name: "Ada", CostHourlyRate: intPtr(200)})
		projectStub.AddMember(ctx, 1, project.Member{ProjectID: "p1", EmployeeID: "e1", BillHourlyRate: intPtr(800)})
		in := task.Task{ID: "t1", Content: "Build the importer", Done: true, Billable: true, HoursSpent: 5.7, AssignedTo: "e1", ProjectID: "p1"}

		// when
		out, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		require.NotNil(t, out.AppliedCostRate)
		require.NotNil(t, out.AppliedBillRate)
		assert.Equal(t, 200, *out.AppliedCostRate)
		assert.Equal(t, 800, *out.AppliedBillRate)
		assert.Equal(t, 800, *out.AppliedHourlyRate)
		assert.NotEmpty(t, out.IncomeTxID)
		assert.NotEmpty(t, out.ExpenseTxID)

		entries := repoStub.Entries("t1")
		require.Len(t, entries, 2)
		expense, ok := entryOf(entries, finance.TransactionExpense)
		require.True(t, ok)
		assert.Equal(t, 1000.0, expense.Amount) // 200 × 5 whole hours
		assert.Equal(t, "payroll", expense.Category)
		assert.Equal(t, "t1", expense.TaskID)
		income, ok := entryOf(entries, finance.TransactionIncome)
		require.True(t, ok)
		assert.Equal(t, 4000.0, income.Amount) // 800 × 5 whole hours
		assert.Equal(t, "billing", income.Category)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), income.Date)
	})

	t.Run("legacy employee rate fills both sides", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", Name: "Ada", HourlyRate: intPtr(300)})
		in := task.Task{ID: "t1", Content: "Legacy data", Done: true, Billable: true, HoursSpent: 2, AssignedTo: "e1"}

		// when
		out, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		assert.Equal(t, 300, *out.AppliedCostRate)
		assert.Equal(t, 300, *out.AppliedBillRate)
		entries := repoStub.Entries("t1")
		require.Len(t, entries, 2)
	})

	t.Run("not done is a no-op", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		in := task.Task{ID: "t1", Billable: true, HoursSpent: 10}

		// when
		out, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		assert.Equal(t, in, out)
		assert.Zero(t, repoStub.RefreshCount())
		assert.Empty(t, repoStub.Entries("t1"))
	})

	t.Run("non-billable task refreshes rates but posts nothing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", CostHourlyRate: intPtr(200), BillHourlyRate: intPtr(500)})
		in := task.Task{ID: "t1", Done: true, Billable: false, HoursSpent: 10, AssignedTo: "e1"}

		// when
		out, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		assert.Empty(t, repoStub.Entries("t1"))
		assert.Equal(t, 200, *out.AppliedCostRate)
		refreshed, ok := repoStub.LastRefreshed()
		require.True(t, ok)
		assert.Equal(t, 500, *refreshed.AppliedBillRate)
	})

	t.Run("sub-hour work posts nothing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", HourlyRate: intPtr(300)})
		in := task.Task{ID: "t1", Done: true, Billable: true, HoursSpent: 0.5, AssignedTo: "e1"}

		// when
		_, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		assert.Empty(t, repoStub.Entries("t1"))
		assert.Equal(t, 1, repoStub.RefreshCount())
	})

	t.Run("only the priced side gets an entry", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given - cost rate only, nothing on the bill side
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", CostHourlyRate: intPtr(200)})
		in := task.Task{ID: "t1", Done: true, Billable: true, HoursSpent: 3, AssignedTo: "e1"}

		// when
		out, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		entries := repoStub.Entries("t1")
		require.Len(t, entries, 1)
		assert.Equal(t, finance.TransactionExpense, entries[0].TransactionType)
		assert.NotEmpty(t, out.ExpenseTxID)
		assert.Empty(t, out.IncomeTxID)
		assert.Equal(t, 200, *out.AppliedHourlyRate, "legacy applied rate falls back to cost when bill is absent")
	})

	t.Run("no resolvable rate anywhere posts nothing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		in := task.Task{ID: "t1", Done: true, Billable: true, HoursSpent: 8}

		// when
		out, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		assert.Nil(t, out.AppliedCostRate)
		assert.Nil(t, out.AppliedBillRate)
		assert.Empty(t, repoStub.Entries("t1"))
		assert.Equal(t, 1, repoStub.RefreshCount())
	})

	t.Run("second invocation refreshes rates without duplicating entries", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", HourlyRate: intPtr(300)})
		in := task.Task{ID: "t1", Content: "Once only", Done: true, Billable: true, HoursSpent: 4, AssignedTo: "e1"}
		first, err := generator.Generate(ctx, in)
		require.NoError(t, err)

		// given - rates changed after the first generation
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", HourlyRate: intPtr(350)})

		// when
		second, err := generator.Generate(ctx, first)

		// then
		require.NoError(t, err)
		assert.Len(t, repoStub.Entries("t1"), 2, "no duplicate ledger rows")
		assert.Equal(t, first.IncomeTxID, second.IncomeTxID)
		assert.Equal(t, first.ExpenseTxID, second.ExpenseTxID)
		assert.Equal(t, 350, *second.AppliedCostRate, "audit fields still track the latest rates")
	})

	t.Run("losing the posting race adopts the winner's linkage", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given - a winner posted while this invocation still saw empty tx ids
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", HourlyRate: intPtr(300)})
		stale := task.Task{ID: "t1", Content: "Raced", Done: true, Billable: true, HoursSpent: 4, AssignedTo: "e1"}
		winner, err := generator.Generate(ctx, stale)
		require.NoError(t, err)

		// when - re-run with the stale snapshot, not the winner's result
		loser, err := generator.Generate(ctx, stale)

		// then
		require.NoError(t, err)
		assert.Len(t, repoStub.Entries("t1"), 2)
		assert.Equal(t, winner.IncomeTxID, loser.IncomeTxID)
		assert.Equal(t, winner.ExpenseTxID, loser.ExpenseTxID)
	})

	t.Run("publishes a ledger posted event", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		var posted []event_bus.LedgerPosted
		event_bus.SubscribeTyped(bus, event_bus.LedgerPostedEvent, func(ctx context.Context, data event_bus.LedgerPosted) error {
			posted = append(posted, data)
			return nil
		})
		employeeStub.Store(ctx, 1, employee.Employee{ID: "e1", CostHourlyRate: intPtr(100), BillHourlyRate: intPtr(400)})
		in := task.Task{ID: "t1", Done: true, Billable: true, HoursSpent: 2, AssignedTo: "e1"}

		// when
		out, err := generator.Generate(ctx, in)

		// then
		require.NoError(t, err)
		require.Len(t, posted, 1)
		assert.Equal(t, "t1", posted[0].TaskID)
		assert.Equal(t, out.IncomeTxID, posted[0].IncomeTxID)
		assert.Equal(t, 800.0, posted[0].IncomeTotal)
		assert.Equal(t, 200.0, posted[0].ExpenseTotal)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := generator.Generate(context.Background(), task.Task{ID: "t1", Done: true})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}
