package ledger

import (
	"fmt"
	"log"
	"math"
	"sort"

	journalDomain "trade-tracker/internal/domain/journal"
)

// Config 控制目標利潤與週次計算政策，全部由外部設定注入。
type Config struct {
	// TargetRate 為每日目標利潤佔起始餘額的比例。
	TargetRate float64
	// TargetCap 為每日目標利潤上限；小於等於 0 表示不設上限。
	TargetCap float64
	// TrackingStart 為週次計算起點（YYYY-MM-DD）；空值以帳本最早一日為準。
	TrackingStart string
}

// Engine 帳本重算引擎：將交易與入金事件折疊成逐日餘額摘要。
// 純計算、無 I/O，「今天」由呼叫端傳入。
type Engine struct {
	cfg Config
}

// New 建立帳本重算引擎。
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// TargetProfit 依起始餘額計算當日目標利潤：min(start*rate, cap)，
// 起始餘額非正時固定為 0。
func (e *Engine) TargetProfit(startBalance float64) float64 {
	if startBalance <= 0 {
		return 0
	}
	target := startBalance * e.cfg.TargetRate
	if e.cfg.TargetCap > 0 && target > e.cfg.TargetCap {
		return e.cfg.TargetCap
	}
	return target
}

// dayTotals 聚合單日交易筆數與損益。
type dayTotals struct {
	count int
	pnl   float64
}

// Recompute 重建完整帳本：依日期遞增折疊交易與入金事件，
// 保證餘額連續（每列起始餘額等於前一列期末餘額）。
//
// deposits 必須帶入先前持久化的入金額，入金無法由交易推導，
// 重算絕不能弄丟它。today 為參考時區下的當日日期，
// 最後一列早於 today 時會補上一列零活動的當日摘要。
func (e *Engine) Recompute(initialBalance float64, trades []journalDomain.Trade, deposits map[string]float64, today string) ([]journalDomain.DailySummary, error) {
	if _, err := journalDomain.ParseDate(today); err != nil {
		return nil, fmt.Errorf("reference date: %w", err)
	}

	byDate := make(map[string]dayTotals)
	skipped := 0
	for _, t := range trades {
		if _, err := journalDomain.ParseDate(t.Date); err != nil {
			// 日期不合法的紀錄排除在聚合之外，不做向前補值。
			log.Printf("[Ledger] skipping trade %s: %v", t.ID, err)
			skipped++
			continue
		}
		agg := byDate[t.Date]
		agg.count++
		agg.pnl += t.PNL
		byDate[t.Date] = agg
	}
	if skipped > 0 && len(byDate) == 0 && len(trades) > 0 {
		return nil, fmt.Errorf("all %d trade records have invalid dates", skipped)
	}

	// 需要產生摘要的日期：有交易的日期 ∪ 有非零入金的日期。
	// 兩者皆無的日期即孤兒列，重算後自然消失。
	dateSet := make(map[string]struct{}, len(byDate))
	for d := range byDate {
		dateSet[d] = struct{}{}
	}
	for d, amount := range deposits {
		if amount == 0 {
			continue
		}
		if _, err := journalDomain.ParseDate(d); err != nil {
			log.Printf("[Ledger] skipping deposit on %q: %v", d, err)
			continue
		}
		dateSet[d] = struct{}{}
	}

	if len(dateSet) == 0 {
		// 空歷史：產生單一當日種子列。
		row := e.seedRow(today, initialBalance)
		if e.cfg.TrackingStart != "" {
			row.Week = weekNumber(today, e.cfg.TrackingStart)
		}
		return []journalDomain.DailySummary{row}, nil
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	weekStart := e.cfg.TrackingStart
	if weekStart == "" {
		weekStart = dates[0]
	}

	summaries := make([]journalDomain.DailySummary, 0, len(dates)+1)
	current := initialBalance
	for _, d := range dates {
		agg := byDate[d]
		deposit := deposits[d]
		end := current + agg.pnl + deposit
		summaries = append(summaries, journalDomain.DailySummary{
			Date:         d,
			Week:         weekNumber(d, weekStart),
			Trades:       agg.count,
			StartBalance: round2(current),
			TargetProfit: round2(e.TargetProfit(current)),
			ActualProfit: round2(agg.pnl),
			DepositBonus: round2(deposit),
			EndBalance:   round2(end),
		})
		current = end
	}

	if last := summaries[len(summaries)-1]; last.Date < today {
		row := e.seedRow(today, current)
		row.Week = weekNumber(today, weekStart)
		summaries = append(summaries, row)
	}
	return summaries, nil
}

func (e *Engine) seedRow(date string, balance float64) journalDomain.DailySummary {
	return journalDomain.DailySummary{
		Date:         date,
		Week:         1,
		StartBalance: round2(balance),
		TargetProfit: round2(e.TargetProfit(balance)),
		EndBalance:   round2(balance),
	}
}

// weekNumber 以追蹤起點起算的經過天數除以 7，最小為第 1 週。
func weekNumber(date, start string) int {
	d, err := journalDomain.ParseDate(date)
	if err != nil {
		return 1
	}
	s, err := journalDomain.ParseDate(start)
	if err != nil {
		return 1
	}
	days := int(d.Sub(s).Hours() / 24)
	week := days/7 + 1
	if week < 1 {
		week = 1
	}
	return week
}

// round2 將金額四捨五入到小數兩位，僅在輸出時套用。
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
