package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/scan"
)

const maxImageBytes = 10 << 20 // 10MB for receipt uploads

type createTransactionRequest struct {
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	IsExpense   bool     `json:"is_expense"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := s.ledgerSvc.AddTransaction(r.Context(), sanitizeInput(req.Description), req.Amount, req.IsExpense, req.Tags)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

type transactionsResponse struct {
	Transactions []core.Transaction `json:"transactions"`
	Filter       *string            `json:"filter,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	resp := transactionsResponse{}
	if name, ok := s.store.TagFilter(); ok {
		resp.Filter = &name
	}

	if r.URL.Query().Get("all") == "true" {
		resp.Transactions = s.store.Transactions()
	} else {
		resp.Transactions = s.store.FilteredTransactions()
	}
	if resp.Transactions == nil {
		resp.Transactions = []core.Transaction{}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.store.RemoveTransaction(id)
	w.WriteHeader(http.StatusNoContent)
}

type filterRequest struct {
	Tag *string `json:"tag"`
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Tag == nil || *req.Tag == "" {
		s.store.ClearTagFilter()
	} else {
		s.store.SetTagFilter(*req.Tag)
	}

	resp := filterRequest{}
	if name, ok := s.store.TagFilter(); ok {
		resp.Tag = &name
	}
	writeJSON(w, http.StatusOK, resp)
}

type balanceResponse struct {
	Balance   float64 `json:"balance"`
	Formatted string  `json:"formatted"`
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance := s.store.Balance()
	writeJSON(w, http.StatusOK, balanceResponse{
		Balance:   balance,
		Formatted: core.FormatCurrency(balance),
	})
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color uint32 `json:"color"`
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := sanitizeInput(req.Name)
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "tag name cannot be empty")
		return
	}

	tag := s.store.AddTag(name, req.Color)
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags := s.store.Tags()
	if tags == nil {
		tags = []core.Tag{}
	}
	writeJSON(w, http.StatusOK, map[string][]core.Tag{"tags": tags})
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.store.RemoveTag(id)
	w.WriteHeader(http.StatusNoContent)
}

type goalResponse struct {
	Period core.GoalPeriod `json:"period"`
	Goal   float64         `json:"goal"`
	Spent  float64         `json:"spent"`
}

func (s *Server) goalResponse(period core.GoalPeriod) goalResponse {
	spent, ok := s.spent.Get(period)
	if !ok {
		spent = s.goals.SpentFor(period)
		s.spent.Set(period, spent)
	}
	return goalResponse{
		Period: period,
		Goal:   s.goals.Goal(period),
		Spent:  spent,
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	out := make([]goalResponse, 0, len(core.Periods))
	for _, period := range core.Periods {
		out = append(out, s.goalResponse(period))
	}
	writeJSON(w, http.StatusOK, map[string][]goalResponse{"goals": out})
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	period := core.GoalPeriod(r.PathValue("period"))
	if !period.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown goal period")
		return
	}
	writeJSON(w, http.StatusOK, s.goalResponse(period))
}

type setGoalRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	period := core.GoalPeriod(r.PathValue("period"))
	if !period.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown goal period")
		return
	}

	var req setGoalRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Unparseable amounts leave the existing cap untouched; the response
	// reflects whatever is in effect afterwards.
	s.goals.SetGoal(period, req.Amount)
	writeJSON(w, http.StatusOK, s.goalResponse(period))
}

type createReminderRequest struct {
	Title  string    `json:"title"`
	Amount string    `json:"amount"`
	DueAt  time.Time `json:"due_at"`
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req createReminderRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DueAt.IsZero() {
		writeError(w, http.StatusUnprocessableEntity, "due_at is required")
		return
	}

	reminder, err := s.reminderSvc.Create(r.Context(), sanitizeInput(req.Title), req.Amount, req.DueAt)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create reminder error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to schedule reminder")
		return
	}

	writeJSON(w, http.StatusCreated, reminder)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders := s.reminderSvc.Reminders()
	if reminders == nil {
		reminders = []core.Reminder{}
	}
	writeJSON(w, http.StatusOK, map[string][]core.Reminder{"reminders": reminders})
}

func (s *Server) handleToggleReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.reminderSvc.ToggleDone(id) {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.reminderSvc.Remove(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt scanning is not configured")
		return
	}

	img, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	candidates, err := s.scanner.Scan(r.Context(), img)
	if err != nil {
		switch {
		case errors.Is(err, scan.ErrEmptyImage):
			writeError(w, http.StatusBadRequest, "empty image payload")
		case errors.Is(err, scan.ErrInvalidImage):
			writeError(w, http.StatusBadRequest, "unsupported or corrupt image")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Client went away; nothing useful to write.
			slog.DebugContext(r.Context(), "Scan cancelled", "error", err)
		default:
			slog.ErrorContext(r.Context(), "Scan error", "error", err)
			writeError(w, http.StatusBadGateway, "scan failed")
		}
		return
	}
	if candidates == nil {
		candidates = []core.Candidate{}
	}

	writeJSON(w, http.StatusOK, map[string][]core.Candidate{"candidates": candidates})
}

func (s *Server) handleArchiveRecent(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive is not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	rows, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Archive read error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read archive")
		return
	}
	if rows == nil {
		rows = []core.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string][]core.Transaction{"transactions": rows})
}
