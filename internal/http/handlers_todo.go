package http

import (
	"fmt"
	"net/http"

	"kharchbook/internal/core"
)

func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTodos(w, r)
	case http.MethodPost:
		s.createTodo(w, r)
	case http.MethodPut:
		s.reconcileTodos(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT")
	}
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	todos := s.session.Todos()
	out := make([]todoDTO, 0, len(todos))
	for _, td := range todos {
		out = append(out, toTodoDTO(td))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req todoDTO
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := s.session.AddTodo(r.Context(), req.Item, req.Notes)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTodoDTO(rec))
}

func (s *Server) reconcileTodos(w http.ResponseWriter, r *http.Request) {
	var rows []todoDTO
	if !decodeBody(w, r, &rows) {
		return
	}

	proposed := make([]core.TodoRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("row %d: %v", i, err))
			return
		}
		proposed = append(proposed, rec)
	}

	res, err := s.session.ReconcileTodos(r.Context(), proposed)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReconcileResponse(res))
}

// handleTodoByID covers DELETE /api/todos/{id} and POST /api/todos/{id}/toggle.
func (s *Server) handleTodoByID(w http.ResponseWriter, r *http.Request) {
	id, tail, err := pathID(r.URL.Path, "/api/todos/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	switch {
	case tail == "toggle" && r.Method == http.MethodPost:
		rec, err := s.session.ToggleTodo(r.Context(), id)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTodoDTO(rec))
	case tail == "" && r.Method == http.MethodDelete:
		if err := s.session.DeleteTodo(r.Context(), id); err != nil {
			writeLedgerError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "DELETE, POST")
	}
}

func (s *Server) handleCleanTodos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	removed, err := s.session.CleanTodo(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
