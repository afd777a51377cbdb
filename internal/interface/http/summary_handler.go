package httpapi

import (
	"net/http"

	journalDomain "trade-tracker/internal/domain/journal"
)

// handleSummary 回傳完整帳本，新日期在前，供表格顯示。
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.journalSvc.Summaries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	out := make([]journalDomain.DailySummary, 0, len(summaries))
	for i := len(summaries) - 1; i >= 0; i-- {
		out = append(out, summaries[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"summaries": out,
	})
}

func (s *Server) handleSummaryToday(w http.ResponseWriter, r *http.Request) {
	panel, err := s.reportsUC.BuildTodayPanel(r.Context(), s.journalSvc.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"today":   panel,
	})
}
