package journal

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout 為所有日記帳日期使用的格式（不含時間成分）。
const DateLayout = "2006-01-02"

// Direction 表示交易方向。
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

var (
	// ErrInvalidDate 表示日期欄位缺失或無法解析。
	ErrInvalidDate = errors.New("invalid trade date")
	// ErrNotFound 表示查無對應紀錄。
	ErrNotFound = errors.New("record not found")
)

// Trade 單筆交易紀錄，為帳本重算的事實來源。
// Ticker/Leverage/Direction/Investment 僅供展示，不參與重算。
type Trade struct {
	ID         string    `json:"id"`
	Date       string    `json:"trade_date"`
	Ticker     string    `json:"ticker"`
	Leverage   int       `json:"leverage"`
	Direction  Direction `json:"direction"`
	Investment float64   `json:"investment"`
	PNL        float64   `json:"pnl"`
	PNLPct     float64   `json:"pnl_pct"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate 檢查交易紀錄基本合理性。日期不合法一律拒絕，不做向前補值。
func (t Trade) Validate() error {
	if _, err := ParseDate(t.Date); err != nil {
		return err
	}
	if t.Ticker == "" {
		return fmt.Errorf("ticker is required")
	}
	switch t.Direction {
	case DirectionLong, DirectionShort, "":
	default:
		return fmt.Errorf("unsupported direction %q", t.Direction)
	}
	if t.Leverage < 0 {
		return fmt.Errorf("leverage must not be negative")
	}
	for name, v := range map[string]float64{
		"investment": t.Investment,
		"pnl":        t.PNL,
		"pnl_pct":    t.PNLPct,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	return nil
}

// DailySummary 單日帳本摘要，除 DepositBonus 外全部由重算推導。
type DailySummary struct {
	Date         string  `json:"entry_date"`
	Week         int     `json:"week"`
	Trades       int     `json:"trades"`
	StartBalance float64 `json:"start_balance"`
	TargetProfit float64 `json:"profit_needed"`
	ActualProfit float64 `json:"actual_profit"`
	DepositBonus float64 `json:"deposit_bonus"`
	EndBalance   float64 `json:"end_balance"`
}

// ParseDate 解析 YYYY-MM-DD 日期字串。
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
