package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"kharchbook/internal/core"
)

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	case http.MethodPut:
		s.reconcileExpenses(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := s.session.Expenses()
	out := make([]expenseDTO, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseDTO(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseDTO
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := s.session.AddExpense(r.Context(), req.Date, req.Item, req.Category, req.Amount, req.Mode)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(rec))
}

// reconcileExpenses accepts the whole edited grid as the new table.
func (s *Server) reconcileExpenses(w http.ResponseWriter, r *http.Request) {
	var rows []expenseDTO
	if !decodeBody(w, r, &rows) {
		return
	}

	proposed := make([]core.ExpenseRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("row %d: %v", i, err))
			return
		}
		proposed = append(proposed, rec)
	}

	res, err := s.session.ReconcileExpenses(r.Context(), proposed)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReconcileResponse(res))
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}
	id, _, err := pathID(r.URL.Path, "/api/expenses/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if err := s.session.DeleteExpense(r.Context(), id); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	filename := fmt.Sprintf("kharch_book_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.session.ExportExpenses(w); err != nil {
		// Headers are already out; all we can do is log.
		slog.ErrorContext(r.Context(), "Export failed", "error", err)
	}
}
