package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"orbit/internal/amqp"
	"orbit/internal/analytics"
	"orbit/internal/core"
	"orbit/internal/gate"
	"orbit/internal/notify"
	"orbit/internal/report"
	"orbit/internal/storage"
)

type fakeStore struct {
	expenses  []core.Expense
	loadErr   error
	saveErr   error
	resetDone bool
}

func (f *fakeStore) Load(ctx context.Context) ([]core.Expense, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]core.Expense, len(f.expenses))
	copy(out, f.expenses)
	return out, nil
}

func (f *fakeStore) Save(ctx context.Context, expenses []core.Expense) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.expenses = make([]core.Expense, len(expenses))
	copy(f.expenses, expenses)
	return nil
}

func (f *fakeStore) Reset(ctx context.Context) error {
	f.resetDone = true
	f.expenses = nil
	f.loadErr = nil
	return nil
}

type recordingNotifier struct {
	severities []notify.Severity
	messages   []string
}

func (r *recordingNotifier) Notify(ctx context.Context, severity notify.Severity, message string) {
	r.severities = append(r.severities, severity)
	r.messages = append(r.messages, message)
}

type recordingPublisher struct {
	events []*amqp.EventMessage
}

func (r *recordingPublisher) PublishEvent(ctx context.Context, msg *amqp.EventMessage) error {
	r.events = append(r.events, msg)
	return nil
}

type fakeRenderer struct{ data []byte }

func (f *fakeRenderer) RenderPie(ctx context.Context, s analytics.Series) ([]byte, error) {
	return f.data, nil
}

type memorySink struct {
	interactive bool
	cancelled   bool
	saved       map[string][]byte
}

func (m *memorySink) TrySaveInteractive(ctx context.Context, data []byte, name, mimeType string) (report.Outcome, error) {
	if !m.interactive {
		return report.OutcomeCancelled, report.ErrInteractiveUnavailable
	}
	if m.cancelled {
		return report.OutcomeCancelled, nil
	}
	m.store(name, data)
	return report.OutcomeSaved, nil
}

func (m *memorySink) ForceDownload(ctx context.Context, data []byte, name string) error {
	m.store(name, data)
	return nil
}

func (m *memorySink) store(name string, data []byte) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[name] = data
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func testExpense(id string, cents int64, category, date string) core.Expense {
	d, _ := core.ParseDate(date)
	return core.Expense{
		ID: id, Description: "expense " + id,
		Amount: core.Money{Cents: cents}, Category: category, Date: d,
	}
}

func newTestService(store Store, opts ...func(*Deps)) (*Service, *recordingNotifier, *recordingPublisher) {
	notifier := &recordingNotifier{}
	publisher := &recordingPublisher{}
	deps := Deps{
		Store:     store,
		Notifier:  notifier,
		Gate:      gate.AutoGate(true),
		Renderer:  &fakeRenderer{},
		Sink:      &memorySink{},
		Publisher: publisher,
		Now:       fixedNow,
		NewID:     func() string { return "fixed-id" },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return New(deps), notifier, publisher
}

func TestAddExpense(t *testing.T) {
	store := &fakeStore{}
	svc, notifier, publisher := newTestService(store)

	got, err := svc.AddExpense(context.Background(), "Lunch", "123.45", "Food", "2024-06-10")
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if got.ID != "fixed-id" || got.Amount.Cents != 12345 {
		t.Fatalf("added expense = %+v", got)
	}
	if len(store.expenses) != 1 || store.expenses[0].ID != "fixed-id" {
		t.Fatalf("persisted collection = %+v", store.expenses)
	}
	if len(notifier.severities) != 1 || notifier.severities[0] != notify.Success {
		t.Fatalf("notifications = %v", notifier.severities)
	}
	if len(publisher.events) != 1 || publisher.events[0].Kind != amqp.EventExpenseAdded {
		t.Fatalf("events = %+v", publisher.events)
	}
}

func TestAddExpenseRejectsInvalidAmount(t *testing.T) {
	for _, amount := range []string{"", "abc", "12.3.4", "-5", "0", "12a"} {
		store := &fakeStore{}
		svc, notifier, _ := newTestService(store)

		_, err := svc.AddExpense(context.Background(), "x", amount, "Food", "2024-06-10")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("amount %q: expected validation error, got %v", amount, err)
			continue
		}
		if len(store.expenses) != 0 {
			t.Errorf("amount %q: collection modified: %+v", amount, store.expenses)
		}
		if len(notifier.severities) != 1 || notifier.severities[0] != notify.Error {
			t.Errorf("amount %q: notifications = %v", amount, notifier.severities)
		}
	}
}

func TestAddExpenseRejectsInvalidDate(t *testing.T) {
	store := &fakeStore{}
	svc, _, _ := newTestService(store)

	_, err := svc.AddExpense(context.Background(), "x", "10", "Food", "not-a-date")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "date" {
		t.Fatalf("field = %q, want date", verr.Field)
	}
}

func TestDeleteExpenseConfirmed(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		testExpense("1", 10000, "Food", "2024-06-01"),
		testExpense("2", 20000, "Travel", "2024-06-02"),
	}}
	svc, notifier, publisher := newTestService(store)

	found, err := svc.DeleteExpense(context.Background(), "1")
	if err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if !found {
		t.Fatal("expected the expense to be found")
	}
	if len(store.expenses) != 1 || store.expenses[0].ID != "2" {
		t.Fatalf("persisted collection = %+v", store.expenses)
	}
	if len(notifier.severities) != 1 || notifier.severities[0] != notify.Info || notifier.messages[0] != "Expense deleted" {
		t.Fatalf("notifications = %v %v", notifier.severities, notifier.messages)
	}
	if len(publisher.events) != 1 || publisher.events[0].Kind != amqp.EventExpenseDeleted {
		t.Fatalf("events = %+v", publisher.events)
	}
}

func TestDeleteExpenseDeclined(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		testExpense("1", 10000, "Food", "2024-06-01"),
	}}
	svc, notifier, publisher := newTestService(store, func(d *Deps) {
		d.Gate = gate.AutoGate(false)
	})

	found, err := svc.DeleteExpense(context.Background(), "1")
	if err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if found {
		t.Fatal("declined confirmation must not delete")
	}
	if len(store.expenses) != 1 {
		t.Fatalf("collection modified after declined confirmation: %+v", store.expenses)
	}
	// The gate already rendered the prompt; a declined answer says nothing.
	if len(notifier.messages) != 0 {
		t.Fatalf("declined delete emitted notifications: %v", notifier.messages)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("no events expected, got %+v", publisher.events)
	}
}

func TestDeleteExpenseMissingIDIsNoOp(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		testExpense("1", 10000, "Food", "2024-06-01"),
	}}
	svc, _, _ := newTestService(store)

	found, err := svc.DeleteExpense(context.Background(), "nope")
	if err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if found {
		t.Fatal("missing id reported as found")
	}
	if len(store.expenses) != 1 {
		t.Fatalf("collection changed: %+v", store.expenses)
	}
}

func TestDashboard(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		testExpense("1", 10000, "Food", "2024-06-10"),
		testExpense("2", 20000, "Food", "2024-06-12"),
		testExpense("3", 5000, "Travel", "2023-01-01"),
	}}
	svc, _, _ := newTestService(store)

	snap, err := svc.Dashboard(context.Background(), core.PeriodMonth)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(snap.Expenses) != 2 {
		t.Fatalf("filtered expenses = %+v", snap.Expenses)
	}
	if snap.Statistics.Total.Cents != 30000 || snap.Statistics.Count != 2 {
		t.Fatalf("statistics = %+v", snap.Statistics)
	}
	if snap.Statistics.Average.Cents != 15000 || snap.Statistics.Highest.Cents != 20000 {
		t.Fatalf("statistics = %+v", snap.Statistics)
	}
	if len(snap.PieChart.Labels) != 1 || snap.PieChart.Labels[0] != "Food" {
		t.Fatalf("pie chart = %+v", snap.PieChart)
	}
	if len(snap.Breakdown) != 1 || snap.Breakdown[0].Percent != 100 {
		t.Fatalf("breakdown = %+v", snap.Breakdown)
	}
}

func TestDashboardRejectsUnknownPeriod(t *testing.T) {
	svc, _, _ := newTestService(&fakeStore{})
	if _, err := svc.Dashboard(context.Background(), core.Period("quarter")); !errors.Is(err, core.ErrUnknownPeriod) {
		t.Fatalf("err = %v, want ErrUnknownPeriod", err)
	}
}

func TestCorruptCollectionResetsAndContinues(t *testing.T) {
	store := &fakeStore{loadErr: storage.ErrCorruptData}
	svc, notifier, _ := newTestService(store)

	snap, err := svc.Dashboard(context.Background(), core.PeriodAll)
	if err != nil {
		t.Fatalf("Dashboard after corrupt load: %v", err)
	}
	if !store.resetDone {
		t.Fatal("store was not reset")
	}
	if len(snap.Expenses) != 0 {
		t.Fatalf("expected empty collection, got %+v", snap.Expenses)
	}
	if len(notifier.severities) != 1 || notifier.severities[0] != notify.Error {
		t.Fatalf("notifications = %v", notifier.severities)
	}
}

func TestExportFallsBackToDownload(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		testExpense("1", 10000, "Food", "2024-06-10"),
	}}
	sink := &memorySink{interactive: false}
	svc, notifier, _ := newTestService(store, func(d *Deps) { d.Sink = sink })

	outcome, err := svc.Export(context.Background(), core.PeriodAll, report.FormatPDF)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if outcome != report.OutcomeSaved {
		t.Fatalf("outcome = %v, want saved", outcome)
	}
	if len(sink.saved["orbit-report.pdf"]) == 0 {
		t.Fatal("nothing written through the download fallback")
	}
	last := len(notifier.severities) - 1
	if last < 0 || notifier.severities[last] != notify.Success || notifier.messages[last] != "Report downloaded" {
		t.Fatalf("notifications = %v %v", notifier.severities, notifier.messages)
	}
}

func TestExportCancelledIsBenign(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		testExpense("1", 10000, "Food", "2024-06-10"),
	}}
	sink := &memorySink{interactive: true, cancelled: true}
	svc, notifier, _ := newTestService(store, func(d *Deps) { d.Sink = sink })

	outcome, err := svc.Export(context.Background(), core.PeriodAll, report.FormatPDF)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if outcome != report.OutcomeCancelled {
		t.Fatalf("outcome = %v, want cancelled", outcome)
	}
	for _, sev := range notifier.severities {
		if sev == notify.Error {
			t.Fatalf("cancelled export must not report an error, got %v", notifier.severities)
		}
	}
	if len(sink.saved) != 0 {
		t.Fatalf("cancelled export wrote data: %v", sink.saved)
	}
}

func TestExportHistoryIsUnfiltered(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		testExpense("old", 5000, "Travel", "2020-01-01"),
		testExpense("new", 10000, "Food", "2024-06-10"),
	}}
	sink := &memorySink{interactive: true}
	svc, notifier, _ := newTestService(store, func(d *Deps) { d.Sink = sink })

	// Week filter excludes the 2020 expense from the chart, yet the
	// exported table still lists the complete history.
	if _, err := svc.Export(context.Background(), core.PeriodWeek, report.FormatXLSX); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data := sink.saved["orbit-report.xlsx"]
	if len(data) == 0 {
		t.Fatal("no workbook written")
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows("Transactions")
	if err != nil {
		t.Fatalf("read transactions sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("transaction rows = %d, want header + 2", len(rows))
	}
	if rows[1][0] != "2020-01-01" || rows[1][1] != "expense old" {
		t.Fatalf("out-of-window expense missing from table: %v", rows[1])
	}
	if rows[2][0] != "2024-06-10" || rows[2][1] != "expense new" {
		t.Fatalf("in-window expense row = %v", rows[2])
	}

	last := len(notifier.messages) - 1
	if last < 0 || notifier.messages[last] != "Report saved successfully" {
		t.Fatalf("notifications = %v", notifier.messages)
	}
}

func TestDispatcher(t *testing.T) {
	store := &fakeStore{}
	svc, _, _ := newTestService(store, func(d *Deps) {
		d.Now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	})
	disp := NewDispatcher(svc)

	if disp.Period() != core.PeriodMonth {
		t.Fatalf("initial period = %v", disp.Period())
	}

	snap, err := disp.Dispatch(context.Background(), AddExpense{
		Description: "Lunch", Amount: "50", Category: "Food", Date: "2024-06-10",
	})
	if err != nil {
		t.Fatalf("dispatch add: %v", err)
	}
	if len(snap.Expenses) != 1 {
		t.Fatalf("snapshot after add = %+v", snap.Expenses)
	}

	snap, err = disp.Dispatch(context.Background(), ChangePeriod{Period: core.PeriodAll})
	if err != nil {
		t.Fatalf("dispatch change period: %v", err)
	}
	if snap.Period != core.PeriodAll || disp.Period() != core.PeriodAll {
		t.Fatalf("period not switched: snapshot=%v dispatcher=%v", snap.Period, disp.Period())
	}

	snap, err = disp.Dispatch(context.Background(), DeleteExpense{ID: "fixed-id"})
	if err != nil {
		t.Fatalf("dispatch delete: %v", err)
	}
	if len(snap.Expenses) != 0 {
		t.Fatalf("snapshot after delete = %+v", snap.Expenses)
	}

	if _, err := disp.Dispatch(context.Background(), ChangePeriod{Period: core.Period("decade")}); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestChangePeriodNotifies(t *testing.T) {
	svc, notifier, _ := newTestService(&fakeStore{})
	disp := NewDispatcher(svc)

	if _, err := disp.Dispatch(context.Background(), ChangePeriod{Period: core.PeriodAll}); err != nil {
		t.Fatalf("dispatch change period: %v", err)
	}
	if len(notifier.messages) != 1 || notifier.severities[0] != notify.Info || notifier.messages[0] != "Filter applied: All Time" {
		t.Fatalf("notifications = %v %v", notifier.severities, notifier.messages)
	}

	// Re-selecting the already active period says nothing new.
	if _, err := disp.Dispatch(context.Background(), ChangePeriod{Period: core.PeriodAll}); err != nil {
		t.Fatalf("dispatch same period: %v", err)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("repeated selection notified again: %v", notifier.messages)
	}
}
