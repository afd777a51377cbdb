package httpapi

import (
	"database/sql"
	"net/http"

	appJournal "trade-tracker/internal/application/journal"
	"trade-tracker/internal/application/reports"
)

const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	errCodeNotFound         = "NOT_FOUND"
	errCodeInternal         = "INTERNAL_ERROR"
)

// Server 封裝 HTTP 路由與依賴。
type Server struct {
	mux        *http.ServeMux
	journalSvc *appJournal.Service
	reportsUC  *reports.UseCase
	db         *sql.DB // 健康檢查用；記憶體後端為 nil
	webDir     string
}

// NewServer 建立 API 伺服器。db 僅供健康檢查，記憶體後端傳 nil。
func NewServer(journalSvc *appJournal.Service, reportsUC *reports.UseCase, db *sql.DB) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		journalSvc: journalSvc,
		reportsUC:  reportsUC,
		db:         db,
		webDir:     "web",
	}
	s.registerRoutes()
	return s
}

// Handler 回傳路由處理器，供 HTTP server 掛載。
func (s *Server) Handler() http.Handler {
	return withLogging(corsMiddleware(s.mux))
}
