package http

import (
	"net/http"
	"time"

	"kharchbook/internal/ledger"
	applog "kharchbook/internal/log"
)

// Server exposes the ledger session over a small JSON API. It carries no
// state of its own: every read goes back to the session, which recomputes
// derived values from the source tables.
type Server struct {
	session *ledger.Session
}

// NewServer wires the routes and returns a configured http.Server.
func NewServer(addr string, session *ledger.Session, logger *applog.Logger) *http.Server {
	s := &Server{session: session}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/api/funds", s.handleFunds)
	mux.HandleFunc("/api/funds/", s.handleFundByID)
	mux.HandleFunc("/api/todos", s.handleTodos)
	mux.HandleFunc("/api/todos/clean", s.handleCleanTodos)
	mux.HandleFunc("/api/todos/", s.handleTodoByID)
	mux.HandleFunc("/api/transfer", s.handleTransfer)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/export/expenses", s.handleExportExpenses)

	return &http.Server{
		Addr:           addr,
		Handler:        applog.RequestLogger(logger)(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
