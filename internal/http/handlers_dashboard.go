package http

import (
	"net/http"
	"time"

	"kharchbook/internal/core"
	"kharchbook/internal/ledger"
)

type balancesDTO struct {
	Cash   core.Money `json:"cash"`
	Online core.Money `json:"online"`
	Total  core.Money `json:"total"`
}

type trendPointDTO struct {
	Date  core.Date  `json:"date"`
	Total core.Money `json:"total"`
}

type dashboardResponse struct {
	Balances   balancesDTO           `json:"balances"`
	TodaySpend core.Money            `json:"today_spend"`
	TotalSpend core.Money            `json:"total_spend"`
	Categories []string              `json:"categories"`
	Breakdown  map[string]core.Money `json:"breakdown"`
	Trend      []trendPointDTO       `json:"trend"`
	BackupDue  bool                  `json:"backup_due"`
	Warnings   []string              `json:"warnings,omitempty"`
}

func toBalancesDTO(b core.Balances) balancesDTO {
	return balancesDTO{Cash: b.Cash, Online: b.Online, Total: b.Total()}
}

// handleDashboard bundles every derived projection into one read. All of
// it is recomputed from the source tables on each call.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	now := time.Now()
	trend := s.session.DailyTrend()
	points := make([]trendPointDTO, 0, len(trend))
	for _, p := range trend {
		points = append(points, trendPointDTO{Date: p.Date, Total: p.Total})
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Balances:   toBalancesDTO(s.session.Balances()),
		TodaySpend: s.session.DailySpend(core.DateOf(now)),
		TotalSpend: s.session.TotalSpend(),
		Categories: s.session.Categories(),
		Breakdown:  s.session.CategoryBreakdown(),
		Trend:      points,
		BackupDue:  ledger.BackupDue(now),
		Warnings:   s.session.Warnings(),
	})
}
