package http

import (
	"fmt"
	"net/http"

	"kharchbook/internal/core"
)

func (s *Server) handleFunds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listFunds(w, r)
	case http.MethodPost:
		s.createFund(w, r)
	case http.MethodPut:
		s.reconcileFunds(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PUT")
	}
}

func (s *Server) listFunds(w http.ResponseWriter, r *http.Request) {
	funds := s.session.Funds()
	out := make([]fundDTO, 0, len(funds))
	for _, f := range funds {
		out = append(out, toFundDTO(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createFund(w http.ResponseWriter, r *http.Request) {
	var req fundDTO
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := s.session.AddFund(r.Context(), req.Date, req.Source, req.Mode, req.Amount)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFundDTO(rec))
}

func (s *Server) reconcileFunds(w http.ResponseWriter, r *http.Request) {
	var rows []fundDTO
	if !decodeBody(w, r, &rows) {
		return
	}

	proposed := make([]core.FundRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("row %d: %v", i, err))
			return
		}
		proposed = append(proposed, rec)
	}

	res, err := s.session.ReconcileFunds(r.Context(), proposed)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReconcileResponse(res))
}

func (s *Server) handleFundByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}
	id, _, err := pathID(r.URL.Path, "/api/funds/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fund id")
		return
	}
	if err := s.session.DeleteFund(r.Context(), id); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferRequest struct {
	From   core.Mode  `json:"from"`
	To     core.Mode  `json:"to"`
	Amount core.Money `json:"amount"`
	Date   core.Date  `json:"date"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.session.Transfer(r.Context(), req.From, req.To, req.Amount, req.Date); err != nil {
		writeLedgerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalancesDTO(s.session.Balances()))
}
