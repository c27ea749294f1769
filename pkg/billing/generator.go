package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/crewdeck/crewdeck/internal/event_bus"
	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/crewdeck/crewdeck/pkg/employee"
	"github.com/crewdeck/crewdeck/pkg/finance"
	"github.com/crewdeck/crewdeck/pkg/project"
	"github.com/crewdeck/crewdeck/pkg/task"
	"github.com/crewdeck/crewdeck/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	expenseCategory = "payroll"
	incomeCategory  = "billing"
)

// Generator turns an approved task into ledger entries. Every invocation on a
// done task refreshes the applied-rate audit fields; ledger entries themselves
// are created at most once per task, enforced by the repository's
// compare-and-set on the tx-id columns.
type Generator struct {
	resolver     *Resolver
	repo         Repository
	employeeRepo employee.Repo
	projectRepo  project.Repository
	clock        utils.Clock
	bus          *event_bus.EventBus
}

func NewGenerator(
	resolver *Resolver,
	repo Repository,
	employeeRepo employee.Repo,
	projectRepo project.Repository,
	clock utils.Clock,
	bus *event_bus.EventBus,
) *Generator {
	return &Generator{
		resolver:     resolver,
		repo:         repo,
		employeeRepo: employeeRepo,
		projectRepo:  projectRepo,
		clock:        clock,
		bus:          bus,
	}
}

func (g *Generator) Generate(ctx context.Context, t task.Task) (task.Task, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !t.Done {
		return t, nil
	}

	rc, err := g.loadRateContext(ctx, userId, t)
	if err != nil {
		return task.Task{}, err
	}
	costRate, billRate := g.resolver.Resolve(rc)
	t.AppliedCostRate = costRate
	t.AppliedBillRate = billRate
	t.AppliedHourlyRate = billRate
	if t.AppliedHourlyRate == nil {
		t.AppliedHourlyRate = costRate
	}

	hours := NormalizeHours(t.HoursSpent)
	if t.FinanceGenerated() || !t.Billable || hours == 0 {
		if err := g.repo.RefreshAppliedRates(ctx, userId, t); err != nil {
			return task.Task{}, err
		}
		return t, nil
	}

	t, entries := g.buildEntries(t, costRate, billRate, hours)
	if len(entries) == 0 {
		// nothing priced anywhere in the chain; unpriced work is valid data
		if err := g.repo.RefreshAppliedRates(ctx, userId, t); err != nil {
			return task.Task{}, err
		}
		return t, nil
	}

	err = g.repo.PostLedger(ctx, userId, t, entries)
	if errors.Is(err, ErrAlreadyGenerated) {
		// a concurrent approval posted first; adopt its linkage
		log.Infof("ledger already generated for task %s, adopting existing entries", t.ID)
		if err := g.repo.RefreshAppliedRates(ctx, userId, t); err != nil {
			return task.Task{}, err
		}
		incomeTxId, expenseTxId, err := g.repo.TxIds(ctx, userId, t.ID)
		if err != nil {
			return task.Task{}, err
		}
		t.IncomeTxID = incomeTxId
		t.ExpenseTxID = expenseTxId
		return t, nil
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to post ledger entries for task %s: %w", t.ID, err)
	}

	g.publishLedgerPosted(ctx, t, entries)
	return t, nil
}

func (g *Generator) loadRateContext(ctx context.Context, userId int, t task.Task) (RateContext, error) {
	rc := RateContext{Task: t}
	if t.AssignedTo != "" {
		e, err := g.employeeRepo.Get(ctx, userId, t.AssignedTo)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return RateContext{}, err
		}
		if err == nil {
			rc.Employee = &e
		}
	}
	if t.AssignedTo != "" && t.ProjectID != "" {
		m, err := g.projectRepo.FindMember(ctx, userId, t.ProjectID, t.AssignedTo)
		if err != nil && !errors.Is(err, project.ErrMemberNotFound) {
			return RateContext{}, err
		}
		if err == nil {
			rc.Membership = &m
		}
	}
	return rc, nil
}

// buildEntries creates one expense entry for the cost side and one income
// entry for the bill side, each only if that side resolved. The new ids go
// straight onto the returned task so the repository can link them in the same
// unit.
func (g *Generator) buildEntries(t task.Task, costRate, billRate *int, hours float64) (task.Task, []finance.Transaction) {
	var entries []finance.Transaction
	today := utils.Today(g.clock)
	if costRate != nil {
		expense := finance.Transaction{
			ID:              uuid.NewString(),
			TransactionType: finance.TransactionExpense,
			Amount:          float64(*costRate) * hours,
			Date:            today,
			Category:        expenseCategory,
			Description:     t.Content,
			EmployeeID:      t.AssignedTo,
			ProjectID:       t.ProjectID,
			TaskID:          t.ID,
		}
		t.ExpenseTxID = expense.ID
		entries = append(entries, expense)
	}
	if billRate != nil {
		income := finance.Transaction{
			ID:              uuid.NewString(),
			TransactionType: finance.TransactionIncome,
			Amount:          float64(*billRate) * hours,
			Date:            today,
			Category:        incomeCategory,
			Description:     t.Content,
			EmployeeID:      t.AssignedTo,
			ProjectID:       t.ProjectID,
			TaskID:          t.ID,
		}
		t.IncomeTxID = income.ID
		entries = append(entries, income)
	}
	return t, entries
}

func (g *Generator) publishLedgerPosted(ctx context.Context, t task.Task, entries []finance.Transaction) {
	if g.bus == nil {
		return
	}
	event := event_bus.LedgerPosted{TaskID: t.ID, IncomeTxID: t.IncomeTxID, ExpenseTxID: t.ExpenseTxID}
	for _, entry := range entries {
		if entry.TransactionType == finance.TransactionIncome {
			event.IncomeTotal = entry.Amount
		} else {
			event.ExpenseTotal = entry.Amount
		}
	}
	if err := g.bus.Publish(event_bus.NewEvent(ctx, event_bus.LedgerPostedEvent, event)); err != nil {
		log.Warnf("failed to publish %s event: %v", event_bus.LedgerPostedEvent, err)
	}
}
