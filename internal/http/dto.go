package http

import (
	"fmt"

	"kharchbook/internal/core"
	"kharchbook/internal/ledger"

	"github.com/google/uuid"
)

// Wire representations. IDs travel as strings; a blank ID on a reconcile
// row means "added in the grid" and the ledger assigns one.

type expenseDTO struct {
	ID       string     `json:"id,omitempty"`
	Date     core.Date  `json:"date"`
	Item     string     `json:"item"`
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
	Mode     core.Mode  `json:"mode"`
}

type fundDTO struct {
	ID     string     `json:"id,omitempty"`
	Date   core.Date  `json:"date"`
	Source string     `json:"source"`
	Mode   core.Mode  `json:"mode"`
	Amount core.Money `json:"amount"`
}

type todoDTO struct {
	ID    string `json:"id,omitempty"`
	Item  string `json:"item"`
	Notes string `json:"notes"`
	Done  bool   `json:"done"`
}

type rowErrorDTO struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type reconcileResponse struct {
	Changed  bool          `json:"changed"`
	Accepted int           `json:"accepted"`
	Rejected []rowErrorDTO `json:"rejected"`
}

func toExpenseDTO(e core.ExpenseRecord) expenseDTO {
	return expenseDTO{
		ID:       e.ID.String(),
		Date:     e.Date,
		Item:     e.Item,
		Category: e.Category,
		Amount:   e.Amount,
		Mode:     e.Mode,
	}
}

func toFundDTO(f core.FundRecord) fundDTO {
	return fundDTO{
		ID:     f.ID.String(),
		Date:   f.Date,
		Source: f.Source,
		Mode:   f.Mode,
		Amount: f.Amount,
	}
}

func toTodoDTO(t core.TodoRecord) todoDTO {
	return todoDTO{
		ID:    t.ID.String(),
		Item:  t.Item,
		Notes: t.Notes,
		Done:  t.Done,
	}
}

func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (d expenseDTO) record() (core.ExpenseRecord, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return core.ExpenseRecord{}, err
	}
	return core.ExpenseRecord{
		ID:       id,
		Date:     d.Date,
		Item:     d.Item,
		Category: d.Category,
		Amount:   d.Amount,
		Mode:     d.Mode,
	}, nil
}

func (d fundDTO) record() (core.FundRecord, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return core.FundRecord{}, err
	}
	return core.FundRecord{
		ID:     id,
		Date:   d.Date,
		Source: d.Source,
		Mode:   d.Mode,
		Amount: d.Amount,
	}, nil
}

func (d todoDTO) record() (core.TodoRecord, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return core.TodoRecord{}, err
	}
	return core.TodoRecord{
		ID:    id,
		Item:  d.Item,
		Notes: d.Notes,
		Done:  d.Done,
	}, nil
}

func toReconcileResponse(res ledger.ReconcileResult) reconcileResponse {
	out := reconcileResponse{
		Changed:  res.Changed,
		Accepted: res.Accepted,
		Rejected: make([]rowErrorDTO, 0, len(res.Rejected)),
	}
	for _, re := range res.Rejected {
		out.Rejected = append(out.Rejected, rowErrorDTO{Index: re.Index, Error: re.Err.Error()})
	}
	return out
}
