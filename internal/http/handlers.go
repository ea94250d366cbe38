package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"orbit/internal/core"
	"orbit/internal/gate"
	"orbit/internal/report"
	"orbit/internal/service"
)

// expenseView is the wire shape of one expense: the amount travels both
// as a raw rupee number and preformatted for display.
type expenseView struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Formatted   string  `json:"formatted"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

type statisticsView struct {
	Total      float64 `json:"total"`
	Average    float64 `json:"average"`
	Highest    float64 `json:"highest"`
	Count      int     `json:"count"`
	TotalFmt   string  `json:"totalFormatted"`
	AvgFmt     string  `json:"averageFormatted"`
	HighestFmt string  `json:"highestFormatted"`
}

type snapshotView struct {
	Period     string          `json:"period"`
	Expenses   []expenseView   `json:"expenses"`
	Statistics statisticsView  `json:"statistics"`
	PieChart   json.RawMessage `json:"pieChart"`
	DailyChart json.RawMessage `json:"dailyChart"`
	Breakdown  json.RawMessage `json:"breakdown"`
}

func toSnapshotView(snap service.Snapshot) snapshotView {
	expenses := make([]expenseView, len(snap.Expenses))
	for i, e := range snap.Expenses {
		expenses[i] = expenseView{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount.Rupees(),
			Formatted:   core.FormatINR(e.Amount),
			Category:    e.Category,
			Date:        e.Date.String(),
		}
	}
	pie, _ := json.Marshal(snap.PieChart)
	daily, _ := json.Marshal(snap.DailyChart)
	breakdown, _ := json.Marshal(snap.Breakdown)
	return snapshotView{
		Period:   string(snap.Period),
		Expenses: expenses,
		Statistics: statisticsView{
			Total:      snap.Statistics.Total.Rupees(),
			Average:    snap.Statistics.Average.Rupees(),
			Highest:    snap.Statistics.Highest.Rupees(),
			Count:      snap.Statistics.Count,
			TotalFmt:   core.FormatINR(snap.Statistics.Total),
			AvgFmt:     core.FormatINR(snap.Statistics.Average),
			HighestFmt: core.FormatINR(snap.Statistics.Highest),
		},
		PieChart:   pie,
		DailyChart: daily,
		Breakdown:  breakdown,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAddExpense(w, r)
	case http.MethodDelete:
		s.handleDeleteExpense(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Category    string `json:"category"`
		Date        string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(r.Context(), "Decode request error", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := s.dispatcher.Dispatch(r.Context(), service.AddExpense{
		Description: strings.TrimSpace(req.Description),
		Amount:      strings.TrimSpace(req.Amount),
		Category:    strings.TrimSpace(req.Category),
		Date:        strings.TrimSpace(req.Date),
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Add expense error", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save the expense")
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotView(snap))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	snap, err := s.dispatcher.Dispatch(r.Context(), service.DeleteExpense{ID: id})
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete expense error", "error", err, "expense_id", id)
		writeError(w, http.StatusInternalServerError, "could not delete the expense")
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotView(snap))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	period := s.dispatcher.Period()
	if v := strings.TrimSpace(r.URL.Query().Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown period: "+v)
			return
		}
		period = p
	}

	snap, err := s.dispatcher.Dispatch(r.Context(), service.ChangePeriod{Period: period})
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", "error", err, "period", period)
		writeError(w, http.StatusInternalServerError, "could not build the dashboard")
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotView(snap))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	period := s.dispatcher.Period()
	if v := strings.TrimSpace(r.URL.Query().Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown period: "+v)
			return
		}
		period = p
	}
	format, err := report.ParseFormat(strings.TrimSpace(r.URL.Query().Get("format")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sink := newResponseSink(w)
	if _, err := s.svc.ExportTo(r.Context(), period, format, sink); err != nil {
		slog.ErrorContext(r.Context(), "Export error", "error", err, "period", period, "format", format)
		if !sink.wrote {
			writeError(w, http.StatusInternalServerError, "could not export the report")
		}
		return
	}
}

func (s *Server) handleConfirmations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.gate == nil {
		writeError(w, http.StatusNotFound, "confirmations are not handled here")
		return
	}

	var req struct {
		Token    string `json:"token"`
		Approved bool   `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.gate.Resolve(req.Token, req.Approved); err != nil {
		if errors.Is(err, gate.ErrUnknownToken) {
			writeError(w, http.StatusNotFound, "unknown confirmation token")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not resolve confirmation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"resolved": true})
}
