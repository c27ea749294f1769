package billing

import (
	"github.com/crewdeck/crewdeck/pkg/employee"
	"github.com/crewdeck/crewdeck/pkg/project"
	"github.com/crewdeck/crewdeck/pkg/task"
)

// RateContext carries the rows the resolver falls back through. Employee and
// Membership are nil when the task has no assignee or no membership row exists
// for the (project, employee) pair.
type RateContext struct {
	Task       task.Task
	Employee   *employee.Employee
	Membership *project.Member
}

// Resolver computes the effective cost and bill rate for a task. Resolution is
// a pure lookup over already-loaded rows; either side may come out nil, which
// means that side of the ledger is simply not priced.
type Resolver struct {
	// plannedMonthlyHours divides a monthly salary into an hourly cost rate
	// when no explicit rate is configured anywhere in the chain.
	plannedMonthlyHours int
}

func NewResolver(plannedMonthlyHours int) *Resolver {
	return &Resolver{plannedMonthlyHours: plannedMonthlyHours}
}

type rateSource func() *int

// Resolve walks the cost and bill fallback chains independently and returns
// the first non-nil rate of each.
//
// Cost: task cost override, legacy task override, membership cost rate,
// employee cost rate, legacy employee rate, salary-derived rate.
// Bill: task bill override, legacy task override, membership bill rate,
// legacy membership rate, employee bill rate, legacy employee rate.
//
// The legacy single-rate fields predate the cost/bill split and keep serving
// both roles wherever the split field is absent.
func (r *Resolver) Resolve(rc RateContext) (costRate, billRate *int) {
	costChain := []rateSource{
		func() *int { return rc.Task.CostRateOverride },
		func() *int { return rc.Task.HourlyRateOverride },
		func() *int { return rc.membershipRate(func(m project.Member) *int { return m.CostHourlyRate }) },
		func() *int { return rc.employeeRate(func(e employee.Employee) *int { return e.CostHourlyRate }) },
		func() *int { return rc.employeeRate(func(e employee.Employee) *int { return e.HourlyRate }) },
		func() *int { return r.salaryDerivedRate(rc.Employee) },
	}
	billChain := []rateSource{
		func() *int { return rc.Task.BillRateOverride },
		func() *int { return rc.Task.HourlyRateOverride },
		func() *int { return rc.membershipRate(func(m project.Member) *int { return m.BillHourlyRate }) },
		func() *int { return rc.membershipRate(func(m project.Member) *int { return m.HourlyRate }) },
		func() *int { return rc.employeeRate(func(e employee.Employee) *int { return e.BillHourlyRate }) },
		func() *int { return rc.employeeRate(func(e employee.Employee) *int { return e.HourlyRate }) },
	}
	return firstRate(costChain), firstRate(billChain)
}

func firstRate(chain []rateSource) *int {
	for _, source := range chain {
		if rate := source(); rate != nil {
			return rate
		}
	}
	return nil
}

func (rc RateContext) membershipRate(pick func(project.Member) *int) *int {
	// membership rates apply only when the task actually ties the pair together
	if rc.Membership == nil || rc.Task.ProjectID == "" || rc.Task.AssignedTo == "" {
		return nil
	}
	return pick(*rc.Membership)
}

func (rc RateContext) employeeRate(pick func(employee.Employee) *int) *int {
	if rc.Employee == nil {
		return nil
	}
	return pick(*rc.Employee)
}

// salaryDerivedRate is the last resort on the cost side: a salaried employee
// without any configured rate still costs the company salary/plannedHours per
// hour. The result is truncated to a whole currency unit to match the integer
// rates everywhere else.
func (r *Resolver) salaryDerivedRate(e *employee.Employee) *int {
	if e == nil || e.Salary == nil || *e.Salary <= 0 {
		return nil
	}
	hours := r.plannedMonthlyHours
	if e.PlannedMonthlyHours != nil && *e.PlannedMonthlyHours > 0 {
		hours = *e.PlannedMonthlyHours
	}
	if hours <= 0 {
		return nil
	}
	rate := int(*e.Salary / float64(hours))
	if rate <= 0 {
		return nil
	}
	return &rate
}
