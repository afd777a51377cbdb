package httpapi

import (
	"net/http"
	"time"
)

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"status":    "alive",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			dbStatus = "error: " + err.Error()
		}
	} else {
		dbStatus = "using_memory"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"health":  "ok",
		"db":      dbStatus,
		"time":    time.Now().Format(time.RFC3339),
	})
}
