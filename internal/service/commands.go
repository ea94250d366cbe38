package service

import (
	"context"
	"fmt"
	"sync"

	"orbit/internal/core"
	"orbit/internal/notify"
	"orbit/internal/report"
)

// Command is one user intention. Each concrete command carries exactly
// the inputs its operation needs; dispatching is an explicit type switch,
// not a string lookup.
type Command interface {
	isCommand()
}

type AddExpense struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

type DeleteExpense struct {
	ID string
}

type ChangePeriod struct {
	Period core.Period
}

type ExportReport struct {
	Format report.Format
}

func (AddExpense) isCommand()    {}
func (DeleteExpense) isCommand() {}
func (ChangePeriod) isCommand()  {}
func (ExportReport) isCommand()  {}

// Dispatcher routes commands to the service and owns the one piece of
// session state the pipeline has: the currently selected period. Every
// command that changes the collection or the period answers with a fresh
// snapshot of the selected view.
type Dispatcher struct {
	svc *Service

	mu     sync.Mutex
	period core.Period
}

func NewDispatcher(svc *Service) *Dispatcher {
	return &Dispatcher{svc: svc, period: core.PeriodMonth}
}

// Period returns the currently selected period.
func (d *Dispatcher) Period() core.Period {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.period
}

// Dispatch executes one command and returns the resulting snapshot.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Snapshot, error) {
	switch c := cmd.(type) {
	case AddExpense:
		if _, err := d.svc.AddExpense(ctx, c.Description, c.Amount, c.Category, c.Date); err != nil {
			return Snapshot{}, err
		}
		return d.svc.Dashboard(ctx, d.Period())

	case DeleteExpense:
		if _, err := d.svc.DeleteExpense(ctx, c.ID); err != nil {
			return Snapshot{}, err
		}
		return d.svc.Dashboard(ctx, d.Period())

	case ChangePeriod:
		if !c.Period.IsValid() {
			return Snapshot{}, fmt.Errorf("%w: %s", core.ErrUnknownPeriod, c.Period)
		}
		d.mu.Lock()
		changed := d.period != c.Period
		d.period = c.Period
		d.mu.Unlock()
		if changed {
			d.svc.notifier.Notify(ctx, notify.Info, "Filter applied: "+periodLabel(c.Period))
		}
		return d.svc.Dashboard(ctx, c.Period)

	case ExportReport:
		if _, err := d.svc.Export(ctx, d.Period(), c.Format); err != nil {
			return Snapshot{}, err
		}
		return d.svc.Dashboard(ctx, d.Period())

	default:
		return Snapshot{}, fmt.Errorf("unknown command %T", cmd)
	}
}

// periodLabel spells a period out for user-facing messages.
func periodLabel(p core.Period) string {
	switch p {
	case core.PeriodWeek:
		return "Last 7 Days"
	case core.PeriodMonth:
		return "This Month"
	case core.PeriodYear:
		return "This Year"
	default:
		return "All Time"
	}
}
