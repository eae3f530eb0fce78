package http

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"cashcraft/internal/core"
	"cashcraft/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := buildIndexView(s.ledger.Snapshot(), s.advisor.Available())
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err.Error(), "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse form error",
			log.FieldError, err.Error(), log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		writeFragment(w, http.StatusBadRequest, `<div class="error">Invalid request format</div>`)
		return
	}

	cents, err := core.ParseBudgetToCents(r.Form.Get("budget"))
	if err != nil {
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Please enter a valid budget amount</div>`)
		return
	}

	if err := s.ledger.SetBudget(r.Context(), cents); err != nil {
		s.logger.ErrorContext(r.Context(), "Budget update error",
			log.FieldError, err.Error(), log.FieldBudgetCents, cents)
		writeFragment(w, http.StatusInternalServerError, `<div class="error">Could not save the budget</div>`)
		return
	}

	w.Header().Set("HX-Trigger", "ledger:changed")
	if cents == 0 {
		writeFragment(w, http.StatusOK, `<div class="success">Budget cleared</div>`)
		return
	}
	writeFragment(w, http.StatusOK,
		`<div class="success">Budget set to `+template.HTMLEscapeString(core.FormatRupees(cents))+`</div>`)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse form error",
			log.FieldError, err.Error(), log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		writeFragment(w, http.StatusBadRequest, `<div class="error">Invalid request format</div>`)
		return
	}

	desc := sanitizeInput(r.Form.Get("description"))
	category := sanitizeInput(r.Form.Get("category"))

	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Please enter a valid amount</div>`)
		return
	}

	tx, err := s.ledger.AddTransaction(r.Context(), desc, cents, category)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrEmptyDescription):
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Please enter a description</div>`)
		return
	case errors.Is(err, core.ErrInvalidAmount):
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Please enter a valid amount</div>`)
		return
	case errors.Is(err, core.ErrUnknownCategory):
		writeFragment(w, http.StatusUnprocessableEntity, `<div class="error">Please choose a category</div>`)
		return
	default:
		s.logger.ErrorContext(r.Context(), "Transaction create error",
			log.FieldError, err.Error(), log.FieldDescription, desc, log.FieldAmountCents, cents)
		writeFragment(w, http.StatusInternalServerError, `<div class="error">Could not save the transaction</div>`)
		return
	}

	w.Header().Set("HX-Trigger", "ledger:changed")
	writeFragment(w, http.StatusOK,
		`<div class="success">Added `+template.HTMLEscapeString(tx.Description)+
			` — `+template.HTMLEscapeString(core.FormatRupees(tx.Amount.Cents))+
			` (`+template.HTMLEscapeString(tx.Category)+`)</div>`)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeFragment(w, http.StatusBadRequest, `<div class="error">Invalid transaction id</div>`)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		// Deleting an id that is already gone is a no-op, not a failure.
		if errors.Is(err, core.ErrNotFound) {
			w.WriteHeader(http.StatusOK)
			return
		}
		s.logger.ErrorContext(r.Context(), "Transaction delete error",
			log.FieldError, err.Error(), log.FieldTransactionID, id)
		writeFragment(w, http.StatusInternalServerError, `<div class="error">Could not delete the transaction</div>`)
		return
	}

	w.Header().Set("HX-Trigger", "ledger:changed")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "dashboard.html", buildDashboardView(s.ledger.Snapshot()))
}

func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "transactions.html", buildTransactionsView(s.ledger.Snapshot()))
}

func (s *Server) handleChartPartial(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "chart.html", buildChartView(s.ledger.Snapshot()))
}

func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		writeFragment(w, http.StatusInternalServerError, `<div class="error">Templates not loaded</div>`)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution error",
			log.FieldError, err.Error(), "template", name)
		writeFragment(w, http.StatusInternalServerError, `<div class="error">Rendering failed</div>`)
	}
}

func writeFragment(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
