package httpapi

import (
	"net/http"
	"strings"
)

func (s *Server) registerRoutes() {
	s.mux.Handle("/api/ping", s.wrapGet(s.handlePing))
	s.mux.Handle("/api/health", s.wrapGet(s.handleHealth))

	s.mux.HandleFunc("/api/trades", s.handleTrades)
	s.mux.Handle("/api/trades/", s.wrapDelete(s.handleDeleteTrade))
	s.mux.Handle("/api/deposits", s.wrapPost(s.handleRecordDeposit))

	s.mux.Handle("/api/summary", s.wrapGet(s.handleSummary))
	s.mux.Handle("/api/summary/today", s.wrapGet(s.handleSummaryToday))

	s.mux.Handle("/api/reports/dashboard", s.wrapGet(s.handleDashboard))
	s.mux.Handle("/api/reports/stats", s.wrapGet(s.handleTradeStats))
	s.mux.Handle("/api/reports/tickers", s.wrapGet(s.handleTickerStats))
	s.mux.Handle("/api/reports/balance-curve", s.wrapGet(s.handleBalanceCurve))

	// 前端操作介面
	s.mux.Handle("/", http.FileServer(http.Dir(s.webDir)))
}

func (s *Server) wrapGet(h http.HandlerFunc) http.Handler {
	return requireMethod(http.MethodGet, h)
}

func (s *Server) wrapPost(h http.HandlerFunc) http.Handler {
	return requireMethod(http.MethodPost, h)
}

func (s *Server) wrapDelete(h http.HandlerFunc) http.Handler {
	return requireMethod(http.MethodDelete, h)
}

func requireMethod(method string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, errCodeMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	})
}

// parseTradePath 取出 /api/trades/{id} 的識別碼。
func parseTradePath(path string) string {
	const prefix = "/api/trades/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	id := strings.TrimPrefix(path, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
