package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	journalDomain "trade-tracker/internal/domain/journal"
)

func newTestRepo(t *testing.T) (*Repo, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	r, err := New(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r, path
}

func sampleTrade(id, date string, pnl float64) journalDomain.Trade {
	return journalDomain.Trade{
		ID:         id,
		Date:       date,
		Ticker:     "BTC",
		Leverage:   50,
		Direction:  journalDomain.DirectionLong,
		Investment: 20,
		PNL:        pnl,
		PNLPct:     pnl / 20 * 100,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	r, path := newTestRepo(t)
	assert.NoError(t, r.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','daily_summary')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["daily_summary"])
}

func TestTradeRoundTrip(t *testing.T) {
	t.Parallel()

	r, _ := newTestRepo(t)
	ctx := context.Background()

	tr := sampleTrade("01A", "2025-10-20", 12.5)
	assert.NoError(t, r.InsertTrade(ctx, tr))

	got, err := r.GetTrade(ctx, "01A")
	assert.NoError(t, err)
	assert.Equal(t, tr.Date, got.Date)
	assert.Equal(t, tr.Ticker, got.Ticker)
	assert.Equal(t, tr.Direction, got.Direction)
	assert.InDelta(t, tr.PNL, got.PNL, 1e-9)

	_, err = r.GetTrade(ctx, "missing")
	assert.ErrorIs(t, err, journalDomain.ErrNotFound)
}

func TestListTradesNewestFirst(t *testing.T) {
	t.Parallel()

	r, _ := newTestRepo(t)
	ctx := context.Background()

	assert.NoError(t, r.InsertTrade(ctx, sampleTrade("01A", "2025-10-20", 10)))
	assert.NoError(t, r.InsertTrade(ctx, sampleTrade("01B", "2025-10-22", 20)))
	assert.NoError(t, r.InsertTrade(ctx, sampleTrade("01C", "2025-10-21", 30)))

	out, err := r.ListTrades(ctx, 0)
	assert.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, "2025-10-22", out[0].Date)
	assert.Equal(t, "2025-10-20", out[2].Date)

	limited, err := r.ListTrades(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, limited, 2)

	all, err := r.AllTrades(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "2025-10-20", all[0].Date)
}

func TestDeleteTrade(t *testing.T) {
	t.Parallel()

	r, _ := newTestRepo(t)
	ctx := context.Background()

	assert.NoError(t, r.InsertTrade(ctx, sampleTrade("01A", "2025-10-20", 10)))
	assert.NoError(t, r.DeleteTrade(ctx, "01A"))
	assert.ErrorIs(t, r.DeleteTrade(ctx, "01A"), journalDomain.ErrNotFound)
}

func TestAddDepositAccumulates(t *testing.T) {
	t.Parallel()

	r, _ := newTestRepo(t)
	ctx := context.Background()

	assert.NoError(t, r.AddDeposit(ctx, "2025-10-20", 100))
	assert.NoError(t, r.AddDeposit(ctx, "2025-10-20", 50))
	assert.NoError(t, r.AddDeposit(ctx, "2025-10-22", 25))

	deposits, err := r.DepositsByDate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"2025-10-20": 150,
		"2025-10-22": 25,
	}, deposits)
}

func TestReplaceSummariesKeepsLedgerConsistent(t *testing.T) {
	t.Parallel()

	r, _ := newTestRepo(t)
	ctx := context.Background()

	first := []journalDomain.DailySummary{
		{Date: "2025-10-20", Week: 1, Trades: 1, StartBalance: 1000, TargetProfit: 66, ActualProfit: 100, EndBalance: 1100},
		{Date: "2025-10-21", Week: 1, Trades: 1, StartBalance: 1100, TargetProfit: 72.6, ActualProfit: 50, EndBalance: 1150},
	}
	assert.NoError(t, r.ReplaceSummaries(ctx, first))

	// 覆蓋為較短的帳本：舊列不得殘留。
	second := []journalDomain.DailySummary{
		{Date: "2025-10-21", Week: 1, Trades: 1, StartBalance: 1000, TargetProfit: 66, ActualProfit: 50, EndBalance: 1050},
	}
	assert.NoError(t, r.ReplaceSummaries(ctx, second))

	out, err := r.ListSummaries(ctx)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "2025-10-21", out[0].Date)
	assert.InDelta(t, 1050, out[0].EndBalance, 1e-9)
}
