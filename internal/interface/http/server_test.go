package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appJournal "trade-tracker/internal/application/journal"
	"trade-tracker/internal/application/ledger"
	"trade-tracker/internal/application/reports"
	"trade-tracker/internal/infra/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.NewStore()
	engine := ledger.New(ledger.Config{TargetRate: 0.066, TargetCap: 1000})
	svc := appJournal.NewService(store, engine, 1000, time.UTC).WithClock(func() time.Time {
		return time.Date(2025, 10, 27, 12, 0, 0, 0, time.UTC)
	})
	uc := reports.NewUseCase(store, store, engine, 1000)
	return NewServer(svc, uc, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, out
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	rec, out := doJSON(t, s.Handler(), http.MethodGet, "/api/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if out["message"] != "pong" {
		t.Errorf("message = %v, want pong", out["message"])
	}
}

func TestHealthMemoryBackend(t *testing.T) {
	s := newTestServer(t)
	rec, out := doJSON(t, s.Handler(), http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if out["db"] != "using_memory" {
		t.Errorf("db = %v, want using_memory", out["db"])
	}
}

func TestAddTradeAndSummaryFlow(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec, out := doJSON(t, h, http.MethodPost, "/api/trades",
		`{"trade_date":"2025-10-20","ticker":"btc","leverage":10,"direction":"long","investment":500,"pnl":66,"pnl_pct":13.2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %v", rec.Code, out)
	}
	trade := out["trade"].(map[string]interface{})
	if trade["ticker"] != "BTC" {
		t.Errorf("ticker = %v, want BTC (uppercased)", trade["ticker"])
	}
	if trade["direction"] != "LONG" {
		t.Errorf("direction = %v, want LONG", trade["direction"])
	}
	if trade["id"] == "" {
		t.Error("expected generated trade id")
	}

	rec, out = doJSON(t, h, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, want 200", rec.Code)
	}
	rows := out["summaries"].([]interface{})
	// 交易日加上結尾的今日列，新日期在前。
	if len(rows) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(rows))
	}
	first := rows[0].(map[string]interface{})
	if first["entry_date"] != "2025-10-27" {
		t.Errorf("first row date = %v, want 2025-10-27", first["entry_date"])
	}
	last := rows[1].(map[string]interface{})
	if last["end_balance"].(float64) != 1066 {
		t.Errorf("end_balance = %v, want 1066", last["end_balance"])
	}
	if first["start_balance"].(float64) != 1066 {
		t.Errorf("today start_balance = %v, want 1066", first["start_balance"])
	}
}

func TestAddTradeRejectsBadDate(t *testing.T) {
	s := newTestServer(t)
	rec, out := doJSON(t, s.Handler(), http.MethodPost, "/api/trades",
		`{"trade_date":"27/10/2025","ticker":"BTC","pnl":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %v", rec.Code, out)
	}
	if out["error_code"] != errCodeBadRequest {
		t.Errorf("error_code = %v, want %s", out["error_code"], errCodeBadRequest)
	}
}

func TestAddTradeRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodPost, "/api/trades", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListTradesEmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"trades":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestDeleteTradeRebuildsLedger(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	_, out := doJSON(t, h, http.MethodPost, "/api/trades",
		`{"trade_date":"2025-10-20","ticker":"BTC","pnl":100}`)
	id := out["trade"].(map[string]interface{})["id"].(string)

	rec, _ := doJSON(t, h, http.MethodDelete, "/api/trades/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	_, out = doJSON(t, h, http.MethodGet, "/api/summary", "")
	rows := out["summaries"].([]interface{})
	// 孤兒列清除後只剩今日的種子列。
	if len(rows) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(rows))
	}
	row := rows[0].(map[string]interface{})
	if row["end_balance"].(float64) != 1000 {
		t.Errorf("end_balance = %v, want 1000", row["end_balance"])
	}
}

func TestDeleteTradeNotFound(t *testing.T) {
	s := newTestServer(t)
	rec, out := doJSON(t, s.Handler(), http.MethodDelete, "/api/trades/no-such-id", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if out["error_code"] != errCodeNotFound {
		t.Errorf("error_code = %v, want %s", out["error_code"], errCodeNotFound)
	}
}

func TestRecordDeposit(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec, _ := doJSON(t, h, http.MethodPost, "/api/deposits", `{"entry_date":"2025-10-20","amount":250}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	_, out := doJSON(t, h, http.MethodGet, "/api/summary", "")
	rows := out["summaries"].([]interface{})
	var found bool
	for _, r := range rows {
		row := r.(map[string]interface{})
		if row["entry_date"] == "2025-10-20" {
			found = true
			if row["deposit_bonus"].(float64) != 250 {
				t.Errorf("deposit_bonus = %v, want 250", row["deposit_bonus"])
			}
		}
	}
	if !found {
		t.Error("deposit date missing from ledger")
	}
}

func TestRecordDepositRejectsNonPositive(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodPost, "/api/deposits", `{"entry_date":"2025-10-20","amount":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSummaryToday(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	doJSON(t, h, http.MethodPost, "/api/trades",
		`{"trade_date":"2025-10-27","ticker":"BTC","pnl":33}`)

	rec, out := doJSON(t, h, http.MethodGet, "/api/summary/today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	panel := out["today"].(map[string]interface{})
	if panel["date"] != "2025-10-27" {
		t.Errorf("date = %v, want 2025-10-27", panel["date"])
	}
	if panel["target"].(float64) != 66 {
		t.Errorf("target = %v, want 66", panel["target"])
	}
}

func TestDashboardReport(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	doJSON(t, h, http.MethodPost, "/api/trades",
		`{"trade_date":"2025-10-20","ticker":"BTC","pnl":150}`)

	rec, out := doJSON(t, h, http.MethodGet, "/api/reports/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	dash := out["dashboard"].(map[string]interface{})
	if dash["total_pnl"].(float64) != 150 {
		t.Errorf("total_pnl = %v, want 150", dash["total_pnl"])
	}
}

func TestTickerReportEmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/reports/tickers", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `"tickers":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec, out := doJSON(t, s.Handler(), http.MethodPost, "/api/summary", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if out["error_code"] != errCodeMethodNotAllowed {
		t.Errorf("error_code = %v, want %s", out["error_code"], errCodeMethodNotAllowed)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/trades", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS header")
	}
}
