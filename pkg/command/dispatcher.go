package command

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/crewdeck/crewdeck/internal/event_bus"
	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/crewdeck/crewdeck/pkg/employee"
	"github.com/crewdeck/crewdeck/pkg/finance"
	"github.com/crewdeck/crewdeck/pkg/note"
	"github.com/crewdeck/crewdeck/pkg/task"
	log "github.com/sirupsen/logrus"
)

// Result is what a handled command returns to the caller: a human-readable
// message plus the structured data the command produced.
type Result struct {
	Message string
	Intent  Intent
	Data    any
}

// Dispatcher parses a free-text query and routes the intent to the matching
// domain service. The session context fills in targets the query left
// implicit.
type Dispatcher struct {
	parser    Parser
	contexts  *ContextStore
	tasks     task.Service
	employees employee.Service
	finances  finance.Service
	notes     note.Service
	clock     utils.Clock
	bus       *event_bus.EventBus
}

func NewDispatcher(
	parser Parser,
	contexts *ContextStore,
	tasks task.Service,
	employees employee.Service,
	finances finance.Service,
	notes note.Service,
	clock utils.Clock,
	bus *event_bus.EventBus,
) *Dispatcher {
	return &Dispatcher{
		parser:    parser,
		contexts:  contexts,
		tasks:     tasks,
		employees: employees,
		finances:  finances,
		notes:     notes,
		clock:     clock,
		bus:       bus,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, sessionKey, query string) (Result, error) {
	intent, err := d.parser.Parse(ctx, query)
	if err != nil {
		return Result{}, err
	}

	var result Result
	switch intent.Entity {
	case EntityTask:
		result, err = d.handleTask(ctx, sessionKey, intent)
	case EntityEmployee:
		result, err = d.handleEmployee(ctx, sessionKey, intent)
	case EntityTransaction:
		result, err = d.handleTransaction(ctx, intent)
	case EntityNote:
		result, err = d.handleNote(ctx, intent)
	default:
		return Result{}, fmt.Errorf("%w: entity %q", ErrUnsupported, intent.Entity)
	}
	if err != nil {
		return Result{}, err
	}

	result.Intent = intent
	if d.bus != nil {
		event := event_bus.NewEvent(ctx, event_bus.CommandHandledEvent, event_bus.CommandHandled{
			Action: string(intent.Action),
			Entity: string(intent.Entity),
		})
		if err := d.bus.Publish(event); err != nil {
			log.Warnf("failed to publish %s event: %v", event_bus.CommandHandledEvent, err)
		}
	}
	return result, nil
}

func (d *Dispatcher) handleTask(ctx context.Context, sessionKey string, intent Intent) (Result, error) {
	switch intent.Action {
	case ActionCreate:
		content := intent.Arg("content")
		if content == "" {
			content = intent.Arg("text")
		}
		if content == "" {
			return Result{}, fmt.Errorf("%w: task creation needs content", ErrUnparsable)
		}
		created, err := d.tasks.Create(ctx, task.Task{Content: content, Billable: true})
		if err != nil {
			return Result{}, err
		}
		d.contexts.Update(sessionKey, func(c *SessionContext) { c.LastTaskID = created.ID })
		return Result{Message: fmt.Sprintf("Created task %q", created.Content), Data: created}, nil

	case ActionComplete:
		t, err := d.resolveTask(ctx, sessionKey, intent)
		if err != nil {
			return Result{}, err
		}
		done, err := d.tasks.SetDone(ctx, t.ID, true)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("Marked task %q as done", done.Content), Data: done}, nil

	case ActionApprove:
		t, err := d.resolveTask(ctx, sessionKey, intent)
		if err != nil {
			return Result{}, err
		}
		approved, err := d.tasks.Approve(ctx, t.ID)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("Approved task %q", approved.Content), Data: approved}, nil

	case ActionList:
		tasks, err := d.tasks.ListOverdue(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("%d overdue task(s)", len(tasks)), Data: tasks}, nil
	}
	return Result{}, fmt.Errorf("%w: action %q on tasks", ErrUnsupported, intent.Action)
}

// resolveTask finds the task a command refers to: an explicit text match
// first, otherwise the last task the session mentioned.
func (d *Dispatcher) resolveTask(ctx context.Context, sessionKey string, intent Intent) (task.Task, error) {
	if text := intent.Arg("text"); text != "" {
		t, err := d.tasks.FindByText(ctx, text)
		if err != nil {
			return task.Task{}, err
		}
		d.contexts.Update(sessionKey, func(c *SessionContext) { c.LastTaskID = t.ID })
		return t, nil
	}
	if lastId := d.contexts.Get(sessionKey).LastTaskID; lastId != "" {
		return d.tasks.Get(ctx, lastId)
	}
	return task.Task{}, fmt.Errorf("%w: no task referenced", ErrUnparsable)
}

func (d *Dispatcher) handleEmployee(ctx context.Context, sessionKey string, intent Intent) (Result, error) {
	name := intent.Arg("name")
	switch intent.Action {
	case ActionList:
		employees, err := d.employees.GetAll(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("%d employee(s)", len(employees)), Data: employees}, nil

	case ActionStatus:
		var e employee.Employee
		var err error
		if name != "" {
			e, err = d.employees.FindByName(ctx, name)
			if err != nil {
				return Result{}, err
			}
			d.contexts.Update(sessionKey, func(c *SessionContext) { c.LastEmployeeID = e.ID })
		} else if lastId := d.contexts.Get(sessionKey).LastEmployeeID; lastId != "" {
			e, err = d.employees.Get(ctx, lastId)
			if err != nil {
				return Result{}, err
			}
		} else {
			return Result{}, fmt.Errorf("%w: no employee referenced", ErrUnparsable)
		}

		status := intent.Arg("status")
		if status == "" {
			return Result{Message: fmt.Sprintf("%s is %s", e.Name, e.CurrentStatus), Data: e}, nil
		}
		updated, err := d.employees.UpdateStatus(ctx, e.ID, status, intent.Arg("tag"))
		if err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("Set %s's status to %s", updated.Name, status), Data: updated}, nil
	}
	return Result{}, fmt.Errorf("%w: action %q on employees", ErrUnsupported, intent.Action)
}

func (d *Dispatcher) handleTransaction(ctx context.Context, intent Intent) (Result, error) {
	switch intent.Action {
	case ActionCreate:
		amount, err := strconv.ParseFloat(intent.Arg("amount"), 64)
		if err != nil {
			return Result{}, fmt.Errorf("%w: invalid amount %q", ErrUnparsable, intent.Arg("amount"))
		}
		txType := finance.TransactionExpense
		if intent.Arg("type") == string(finance.TransactionIncome) {
			txType = finance.TransactionIncome
		}
		created, err := d.finances.Create(ctx, finance.Transaction{
			TransactionType: txType,
			Amount:          amount,
			Date:            utils.Today(d.clock),
			Category:        intent.Arg("category"),
			Description:     intent.Arg("text"),
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Message: fmt.Sprintf("Recorded %s of %.2f", txType, amount), Data: created}, nil

	case ActionSummary:
		year, month, err := d.summaryPeriod(intent)
		if err != nil {
			return Result{}, err
		}
		summary, err := d.finances.SummaryForMonth(ctx, year, month)
		if err != nil {
			return Result{}, err
		}
		message := fmt.Sprintf("%s %d: income %.2f, expenses %.2f, balance %.2f",
			month, year, summary.Income, summary.Expense, summary.Balance)
		return Result{Message: message, Data: summary}, nil
	}
	return Result{}, fmt.Errorf("%w: action %q on transactions", ErrUnsupported, intent.Action)
}

func (d *Dispatcher) summaryPeriod(intent Intent) (int, time.Month, error) {
	now := d.clock.Now()
	year, month := now.Year(), now.Month()
	if y := intent.Arg("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: invalid year %q", ErrUnparsable, y)
		}
		year = parsed
	}
	if m := intent.Arg("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, fmt.Errorf("%w: invalid month %q", ErrUnparsable, m)
		}
		month = time.Month(parsed)
	}
	return year, month, nil
}

func (d *Dispatcher) handleNote(ctx context.Context, intent Intent) (Result, error) {
	if intent.Action != ActionCreate {
		return Result{}, fmt.Errorf("%w: action %q on notes", ErrUnsupported, intent.Action)
	}
	content := intent.Arg("content")
	if content == "" {
		content = intent.Arg("text")
	}
	if content == "" {
		return Result{}, fmt.Errorf("%w: note creation needs content", ErrUnparsable)
	}
	created, err := d.notes.Create(ctx, note.Note{Content: content, Title: intent.Arg("title")})
	if err != nil {
		return Result{}, err
	}
	return Result{Message: "Saved note", Data: created}, nil
}
