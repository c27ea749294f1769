package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/crewdeck/crewdeck/internal/config"
	"github.com/crewdeck/crewdeck/internal/event_bus"
	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/crewdeck/crewdeck/pkg/billing"
	"github.com/crewdeck/crewdeck/pkg/command"
	"github.com/crewdeck/crewdeck/pkg/employee"
	"github.com/crewdeck/crewdeck/pkg/finance"
	"github.com/crewdeck/crewdeck/pkg/goal"
	"github.com/crewdeck/crewdeck/pkg/note"
	"github.com/crewdeck/crewdeck/pkg/project"
	"github.com/crewdeck/crewdeck/pkg/reading"
	"github.com/crewdeck/crewdeck/pkg/task"
	"github.com/crewdeck/crewdeck/pkg/user"
	log "github.com/sirupsen/logrus"
)

// sessionContextTTL bounds how long a chat session keeps its "it" references.
const sessionContextTTL = 30 * time.Minute

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock utils.Clock
	Bus   *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	EmployeeRepo    employee.Repo
	EmployeeService employee.Service
	EmployeeHandler *employee.Handler

	ProjectRepo    project.Repository
	ProjectService project.Service
	ProjectHandler *project.Handler

	FinanceRepo    finance.Repo
	FinanceService finance.Service
	FinanceHandler *finance.Handler

	BillingRepo      billing.Repository
	RateResolver     *billing.Resolver
	FinanceGenerator *billing.Generator

	TaskRepo    task.Repo
	TaskService task.Service
	TaskHandler *task.Handler

	GoalService goal.Service
	GoalHandler *goal.Handler

	ReadingService reading.Service
	ReadingHandler *reading.Handler

	NoteService note.Service
	NoteHandler *note.Handler

	CommandParser     command.Parser
	CommandDispatcher *command.Dispatcher
	CommandHandler    *command.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Bus = event_bus.NewEventBus()
	registerAuditSubscribers(deps.Bus)

	deps.UserService = user.NewService(user.NewRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.EmployeeRepo = employee.NewRepo(db)
	deps.EmployeeService = employee.NewService(deps.EmployeeRepo)
	deps.EmployeeHandler = employee.NewHandler(deps.EmployeeService)

	deps.ProjectRepo = project.NewRepository(db)
	deps.ProjectService = project.NewService(deps.ProjectRepo)
	deps.ProjectHandler = project.NewHandler(deps.ProjectService)

	deps.FinanceRepo = finance.NewRepo(db)
	deps.FinanceService = finance.NewService(deps.FinanceRepo)
	deps.FinanceHandler = finance.NewHandler(deps.FinanceService)

	deps.BillingRepo = billing.NewRepository(db)
	deps.RateResolver = billing.NewResolver(cfg.Finance.PlannedMonthlyHours)
	deps.FinanceGenerator = billing.NewGenerator(
		deps.RateResolver,
		deps.BillingRepo,
		deps.EmployeeRepo,
		deps.ProjectRepo,
		deps.Clock,
		deps.Bus,
	)

	deps.TaskRepo = task.NewRepo(db)
	deps.TaskService = task.NewService(deps.TaskRepo, deps.FinanceGenerator, deps.Clock, deps.Bus)
	deps.TaskHandler = task.NewHandler(deps.TaskService)

	deps.GoalService = goal.NewService(goal.NewRepo(db))
	deps.GoalHandler = goal.NewHandler(deps.GoalService)

	deps.ReadingService = reading.NewService(reading.NewRepo(db), deps.Clock)
	deps.ReadingHandler = reading.NewHandler(deps.ReadingService)

	deps.NoteService = note.NewService(note.NewRepo(db), deps.Clock)
	deps.NoteHandler = note.NewHandler(deps.NoteService)

	deps.CommandParser = command.NewHTTPParser(cfg.Assist)
	deps.CommandDispatcher = command.NewDispatcher(
		deps.CommandParser,
		command.NewContextStore(sessionContextTTL, deps.Clock),
		deps.TaskService,
		deps.EmployeeService,
		deps.FinanceService,
		deps.NoteService,
		deps.Clock,
		deps.Bus,
	)
	deps.CommandHandler = command.NewHandler(deps.CommandDispatcher)

	return deps
}

// registerAuditSubscribers logs the workflow events so approvals and ledger
// postings leave a trace in the application log.
func registerAuditSubscribers(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.TaskApprovedEvent, func(ctx context.Context, e event_bus.TaskApproved) error {
		log.WithFields(log.Fields{
			"taskId":     e.TaskID,
			"employeeId": e.EmployeeID,
			"projectId":  e.ProjectID,
		}).Info("task approved")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.LedgerPostedEvent, func(ctx context.Context, e event_bus.LedgerPosted) error {
		log.WithFields(log.Fields{
			"taskId":       e.TaskID,
			"incomeTxId":   e.IncomeTxID,
			"expenseTxId":  e.ExpenseTxID,
			"incomeTotal":  e.IncomeTotal,
			"expenseTotal": e.ExpenseTotal,
		}).Info("ledger entries posted")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.TaskReopenedEvent, func(ctx context.Context, e event_bus.TaskReopened) error {
		log.WithField("taskId", e.TaskID).Info("task reopened")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.TaskCompletedEvent, func(ctx context.Context, e event_bus.TaskCompleted) error {
		log.WithFields(log.Fields{
			"taskId":     e.TaskID,
			"employeeId": e.EmployeeID,
		}).Info("task awaiting approval")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.CommandHandledEvent, func(ctx context.Context, e event_bus.CommandHandled) error {
		log.WithFields(log.Fields{
			"action": e.Action,
			"entity": e.Entity,
		}).Info("command handled")
		return nil
	})
}
