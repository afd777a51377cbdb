package httpapi

import (
	"net/http"

	"trade-tracker/internal/application/reports"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	out, err := s.reportsUC.BuildDashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"dashboard": out,
	})
}

func (s *Server) handleTradeStats(w http.ResponseWriter, r *http.Request) {
	out, err := s.reportsUC.BuildTradeStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   out,
	})
}

func (s *Server) handleTickerStats(w http.ResponseWriter, r *http.Request) {
	out, err := s.reportsUC.BuildTickerStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	if out == nil {
		out = []reports.TickerStat{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"tickers": out,
	})
}

func (s *Server) handleBalanceCurve(w http.ResponseWriter, r *http.Request) {
	out, err := s.reportsUC.BuildBalanceCurve(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	if out == nil {
		out = []reports.BalancePoint{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"curve":   out,
	})
}
