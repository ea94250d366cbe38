// Package service wires the expense pipeline together: persistence,
// analytics, confirmation gating, notifications and report export. All
// state lives on the Service value; nothing here is package-global.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"orbit/internal/amqp"
	"orbit/internal/analytics"
	"orbit/internal/core"
	"orbit/internal/gate"
	"orbit/internal/notify"
	"orbit/internal/report"
	"orbit/internal/storage"
)

// Store is the persistence the pipeline needs. Save always receives the
// complete desired collection.
type Store interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, expenses []core.Expense) error
	Reset(ctx context.Context) error
}

// ChartRenderer turns a series into an encoded image.
type ChartRenderer interface {
	RenderPie(ctx context.Context, s analytics.Series) ([]byte, error)
}

// EventPublisher pushes pipeline events onto the message queue.
type EventPublisher interface {
	PublishEvent(ctx context.Context, msg *amqp.EventMessage) error
}

// ValidationError reports rejected user input. The HTTP layer maps it to
// an unprocessable-entity response.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// Snapshot is one fully recomputed view of the collection for a period.
// It is derived fresh on every request and never cached.
type Snapshot struct {
	Period     core.Period               `json:"period"`
	Expenses   []core.Expense            `json:"expenses"`
	Statistics analytics.Statistics      `json:"statistics"`
	Categories []analytics.CategoryTotal `json:"categories"`
	PieChart   analytics.Series          `json:"pieChart"`
	DailyChart analytics.Series          `json:"dailyChart"`
	Breakdown  []analytics.Share         `json:"breakdown"`
}

type Deps struct {
	Store     Store
	Notifier  notify.Notifier
	Gate      gate.ConfirmationGate
	Renderer  ChartRenderer
	Sink      report.FileSink
	Publisher EventPublisher

	// Now and NewID exist so tests can pin time and identity; nil means
	// the real clock and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

type Service struct {
	store     Store
	notifier  notify.Notifier
	gate      gate.ConfirmationGate
	renderer  ChartRenderer
	sink      report.FileSink
	publisher EventPublisher
	now       func() time.Time
	newID     func() string
}

func New(deps Deps) *Service {
	s := &Service{
		store:     deps.Store,
		notifier:  deps.Notifier,
		gate:      deps.Gate,
		renderer:  deps.Renderer,
		sink:      deps.Sink,
		publisher: deps.Publisher,
		now:       deps.Now,
		newID:     deps.NewID,
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier()
	}
	if s.gate == nil {
		s.gate = gate.AutoGate(true)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = generateID
	}
	return s
}

// generateID prefers a random UUID and falls back to a timestamp-derived
// id when the random source fails. The fallback is not collision-checked.
func generateID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("id-%d", time.Now().UnixNano())
	}
	return id.String()
}

// AddExpense validates the raw input, persists the new expense at the end
// of the collection and reports the outcome. Description and category are
// stored as given; only amount and date are validated.
func (s *Service) AddExpense(ctx context.Context, description, amount, category, date string) (core.Expense, error) {
	parsedAmount, err := core.ParseAmount(amount)
	if err != nil {
		s.notifier.Notify(ctx, notify.Error, "Please enter a valid amount")
		return core.Expense{}, &ValidationError{Field: "amount", Reason: err}
	}
	parsedDate, err := core.ParseDate(date)
	if err != nil {
		s.notifier.Notify(ctx, notify.Error, "Please enter a valid date")
		return core.Expense{}, &ValidationError{Field: "date", Reason: err}
	}

	expense := core.Expense{
		ID:          s.newID(),
		Description: description,
		Amount:      parsedAmount,
		Category:    category,
		Date:        parsedDate,
	}
	if err := expense.Validate(); err != nil {
		s.notifier.Notify(ctx, notify.Error, "Please enter a valid expense")
		return core.Expense{}, &ValidationError{Field: "expense", Reason: err}
	}

	expenses, err := s.loadCollection(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	expenses = append(expenses, expense)
	if err := s.store.Save(ctx, expenses); err != nil {
		s.notifier.Notify(ctx, notify.Error, "Could not save the expense")
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.notifier.Notify(ctx, notify.Success, "Expense added successfully!")
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventExpenseAdded, expense.ID))
	return expense, nil
}

// DeleteExpense removes an expense after the confirmation gate approves.
// A declined confirmation leaves the collection untouched and is not an
// error; the gate already surfaced the prompt, so nothing more is said.
// Deleting an id that is not present is a no-op.
func (s *Service) DeleteExpense(ctx context.Context, id string) (bool, error) {
	approved, err := s.gate.Confirm(ctx, "Are you sure you want to delete this expense?")
	if err != nil {
		return false, fmt.Errorf("await confirmation: %w", err)
	}
	if !approved {
		return false, nil
	}

	expenses, err := s.loadCollection(ctx)
	if err != nil {
		return false, err
	}
	kept := expenses[:0:0]
	found := false
	for _, e := range expenses {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if err := s.store.Save(ctx, kept); err != nil {
		s.notifier.Notify(ctx, notify.Error, "Could not delete the expense")
		return false, fmt.Errorf("save collection: %w", err)
	}

	s.notifier.Notify(ctx, notify.Info, "Expense deleted")
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventExpenseDeleted, id))
	return found, nil
}

// Dashboard recomputes every derived view for the requested period. The
// same inputs always yield the same snapshot; nothing is memoized between
// calls.
func (s *Service) Dashboard(ctx context.Context, period core.Period) (Snapshot, error) {
	if !period.IsValid() {
		return Snapshot{}, fmt.Errorf("%w: %s", core.ErrUnknownPeriod, period)
	}
	expenses, err := s.loadCollection(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	filtered := analytics.Filter(expenses, period, s.now())
	categories := analytics.ByCategory(filtered)
	days := analytics.ByDate(filtered)

	return Snapshot{
		Period:     period,
		Expenses:   filtered,
		Statistics: analytics.Compute(filtered),
		Categories: categories,
		PieChart:   analytics.CategorySeries(categories),
		DailyChart: analytics.DailySeries(days),
		Breakdown:  analytics.Breakdown(categories),
	}, nil
}

// Export builds a report for the period and hands it to the sink. The
// chart reflects the filtered period; the transaction table always lists
// the complete history. A cancelled save is a normal outcome.
func (s *Service) Export(ctx context.Context, period core.Period, format report.Format) (report.Outcome, error) {
	return s.ExportTo(ctx, period, format, s.sink)
}

// ExportTo is Export with an explicit destination, for surfaces that
// deliver the document themselves.
func (s *Service) ExportTo(ctx context.Context, period core.Period, format report.Format, sink report.FileSink) (report.Outcome, error) {
	if sink == nil {
		return report.OutcomeCancelled, errors.New("no export destination configured")
	}
	expenses, err := s.loadCollection(ctx)
	if err != nil {
		return report.OutcomeCancelled, err
	}

	filtered := analytics.Filter(expenses, period, s.now())
	categories := analytics.ByCategory(filtered)

	var chartPNG []byte
	if s.renderer != nil {
		chartPNG, err = s.renderer.RenderPie(ctx, analytics.CategorySeries(categories))
		if err != nil {
			// The report is still useful without its chart.
			slog.WarnContext(ctx, "Chart rendering failed, exporting without it", "error", err)
			chartPNG = nil
		}
	}

	doc := report.Document{
		GeneratedAt: s.now(),
		ChartPNG:    chartPNG,
		Statistics:  analytics.Compute(filtered),
		Breakdown:   analytics.Breakdown(categories),
		History:     expenses,
	}
	data, err := report.Build(format, doc)
	if err != nil {
		s.notifier.Notify(ctx, notify.Error, "Could not generate the report")
		return report.OutcomeCancelled, fmt.Errorf("build report: %w", err)
	}

	savedMsg := "Report saved successfully"
	outcome, err := sink.TrySaveInteractive(ctx, data, format.Filename(), format.MIME())
	if errors.Is(err, report.ErrInteractiveUnavailable) {
		if err := sink.ForceDownload(ctx, data, format.Filename()); err != nil {
			s.notifier.Notify(ctx, notify.Error, "Could not save the report")
			return report.OutcomeCancelled, fmt.Errorf("save report: %w", err)
		}
		outcome, err = report.OutcomeSaved, nil
		savedMsg = "Report downloaded"
	}
	if err != nil {
		s.notifier.Notify(ctx, notify.Error, "Could not save the report")
		return report.OutcomeCancelled, fmt.Errorf("save report: %w", err)
	}
	if outcome == report.OutcomeSaved {
		s.notifier.Notify(ctx, notify.Success, savedMsg)
	}
	return outcome, nil
}

// loadCollection reads the persisted collection. A corrupt value resets
// the store, tells the user, and continues with an empty collection so
// the session stays usable.
func (s *Service) loadCollection(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.Load(ctx)
	if errors.Is(err, storage.ErrCorruptData) {
		slog.ErrorContext(ctx, "Stored collection is corrupt, resetting", "error", err)
		if resetErr := s.store.Reset(ctx); resetErr != nil {
			return nil, fmt.Errorf("reset corrupt collection: %w", resetErr)
		}
		s.notifier.Notify(ctx, notify.Error, "Stored expenses were corrupted and have been reset")
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return expenses, nil
}

func (s *Service) publish(ctx context.Context, msg *amqp.EventMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish event", "kind", msg.Kind, "error", err)
	}
}
