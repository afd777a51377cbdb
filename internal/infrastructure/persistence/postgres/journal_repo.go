package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	journalDomain "trade-tracker/internal/domain/journal"
)

// Repo 提供 Postgres 日記帳資料存取。
type Repo struct {
	db *sql.DB
}

// NewRepo 建立 Postgres 日記帳存取實例。
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const tradeColumns = `id, to_char(trade_date, 'YYYY-MM-DD'), ticker, leverage, direction, investment, pnl, pnl_pct, created_at`

// InsertTrade 寫入一筆交易。
func (r *Repo) InsertTrade(ctx context.Context, t journalDomain.Trade) error {
	const q = `
INSERT INTO trades (id, trade_date, ticker, leverage, direction, investment, pnl, pnl_pct, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.Date, t.Ticker, t.Leverage, string(t.Direction),
		t.Investment, t.PNL, t.PNLPct, t.CreatedAt,
	)
	return err
}

// DeleteTrade 刪除指定交易。
func (r *Repo) DeleteTrade(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return journalDomain.ErrNotFound
	}
	return nil
}

// GetTrade 讀取單筆交易。
func (r *Repo) GetTrade(ctx context.Context, id string) (journalDomain.Trade, error) {
	q := fmt.Sprintf(`SELECT %s FROM trades WHERE id = $1;`, tradeColumns)
	t, err := scanTrade(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return journalDomain.Trade{}, journalDomain.ErrNotFound
	}
	return t, err
}

// ListTrades 依日期、建立時間新到舊回傳；limit <= 0 不限筆數。
func (r *Repo) ListTrades(ctx context.Context, limit int) ([]journalDomain.Trade, error) {
	q := fmt.Sprintf(`SELECT %s FROM trades ORDER BY trade_date DESC, created_at DESC`, tradeColumns)
	args := []interface{}{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q+";", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

// AllTrades 回傳全部交易，供帳本重算使用。
func (r *Repo) AllTrades(ctx context.Context) ([]journalDomain.Trade, error) {
	q := fmt.Sprintf(`SELECT %s FROM trades ORDER BY trade_date ASC, created_at ASC;`, tradeColumns)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

// AddDeposit 以單一敘述累加指定日期的入金額。
// 沒有摘要列時先建立佔位列，餘額欄位交由下一次重算補齊。
func (r *Repo) AddDeposit(ctx context.Context, date string, amount float64) error {
	const q = `
INSERT INTO daily_summary (entry_date, deposit_bonus)
VALUES ($1, $2)
ON CONFLICT (entry_date)
DO UPDATE SET deposit_bonus = daily_summary.deposit_bonus + EXCLUDED.deposit_bonus;
`
	_, err := r.db.ExecContext(ctx, q, date, amount)
	return err
}

// DepositsByDate 回傳每一日期的入金總額（略過零值）。
func (r *Repo) DepositsByDate(ctx context.Context) (map[string]float64, error) {
	const q = `
SELECT to_char(entry_date, 'YYYY-MM-DD'), deposit_bonus
FROM daily_summary
WHERE deposit_bonus <> 0;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var date string
		var amount float64
		if err := rows.Scan(&date, &amount); err != nil {
			return nil, err
		}
		out[date] = amount
	}
	return out, rows.Err()
}

// ReplaceSummaries 在單一交易內整批覆蓋帳本：全部成功或維持原狀。
func (r *Repo) ReplaceSummaries(ctx context.Context, summaries []journalDomain.DailySummary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_summary;`); err != nil {
		return err
	}
	const q = `
INSERT INTO daily_summary
(entry_date, week, trades, start_balance, profit_needed, actual_profit, deposit_bonus, end_balance)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	for _, s := range summaries {
		if _, err := tx.ExecContext(ctx, q,
			s.Date, s.Week, s.Trades, s.StartBalance,
			s.TargetProfit, s.ActualProfit, s.DepositBonus, s.EndBalance,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSummaries 依日期遞增回傳帳本。
func (r *Repo) ListSummaries(ctx context.Context) ([]journalDomain.DailySummary, error) {
	const q = `
SELECT to_char(entry_date, 'YYYY-MM-DD'), week, trades, start_balance, profit_needed, actual_profit, deposit_bonus, end_balance
FROM daily_summary
ORDER BY entry_date ASC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journalDomain.DailySummary
	for rows.Next() {
		var s journalDomain.DailySummary
		if err := rows.Scan(
			&s.Date, &s.Week, &s.Trades, &s.StartBalance,
			&s.TargetProfit, &s.ActualProfit, &s.DepositBonus, &s.EndBalance,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (journalDomain.Trade, error) {
	var t journalDomain.Trade
	var direction string
	err := row.Scan(
		&t.ID, &t.Date, &t.Ticker, &t.Leverage, &direction,
		&t.Investment, &t.PNL, &t.PNLPct, &t.CreatedAt,
	)
	t.Direction = journalDomain.Direction(direction)
	return t, err
}

func collectTrades(rows *sql.Rows) ([]journalDomain.Trade, error) {
	var out []journalDomain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
