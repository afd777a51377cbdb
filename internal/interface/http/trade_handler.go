package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	journalDomain "trade-tracker/internal/domain/journal"
)

func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

type tradeRequest struct {
	Date         string  `json:"trade_date"`
	Ticker       string  `json:"ticker"`
	Leverage     int     `json:"leverage"`
	Direction    string  `json:"direction"`
	Investment   float64 `json:"investment"`
	PNL          float64 `json:"pnl"`
	PNLPct       float64 `json:"pnl_pct"`
	DepositBonus float64 `json:"deposit_bonus"`
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTrades(w, r)
	case http.MethodPost:
		s.handleAddTrade(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, errCodeMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	trades, err := s.journalSvc.Trades(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	if trades == nil {
		trades = []journalDomain.Trade{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trades":  trades,
	})
}

func (s *Server) handleAddTrade(w http.ResponseWriter, r *http.Request) {
	var body tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}

	trade := journalDomain.Trade{
		Date:       body.Date,
		Ticker:     strings.ToUpper(strings.TrimSpace(body.Ticker)),
		Leverage:   body.Leverage,
		Direction:  journalDomain.Direction(strings.ToUpper(body.Direction)),
		Investment: body.Investment,
		PNL:        body.PNL,
		PNLPct:     body.PNLPct,
	}
	saved, err := s.journalSvc.AddTrade(r.Context(), trade, body.DepositBonus)
	if err != nil {
		status, code := http.StatusBadRequest, errCodeBadRequest
		if !isValidationError(err) {
			status, code = http.StatusInternalServerError, errCodeInternal
		}
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"trade":   saved,
	})
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	id := parseTradePath(r.URL.Path)
	if id == "" {
		writeError(w, http.StatusBadRequest, errCodeBadRequest, "trade id required")
		return
	}
	if err := s.journalSvc.DeleteTrade(r.Context(), id); err != nil {
		if errors.Is(err, journalDomain.ErrNotFound) {
			writeError(w, http.StatusNotFound, errCodeNotFound, "trade not found")
			return
		}
		writeError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "trade deleted, ledger rebuilt",
	})
}

type depositRequest struct {
	Date   string  `json:"entry_date"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleRecordDeposit(w http.ResponseWriter, r *http.Request) {
	var body depositRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	if err := s.journalSvc.RecordDeposit(r.Context(), body.Date, body.Amount); err != nil {
		status, code := http.StatusBadRequest, errCodeBadRequest
		if !isValidationError(err) {
			status, code = http.StatusInternalServerError, errCodeInternal
		}
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "deposit recorded",
	})
}

// isValidationError 區分呼叫端輸入錯誤與內部失敗。
func isValidationError(err error) bool {
	if errors.Is(err, journalDomain.ErrInvalidDate) {
		return true
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "required"),
		strings.Contains(msg, "must be"),
		strings.Contains(msg, "unsupported"):
		return true
	}
	return false
}
