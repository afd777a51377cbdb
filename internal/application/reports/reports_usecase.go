package reports

import (
	"context"
	"math"
	"sort"

	"trade-tracker/internal/application/ledger"
	journalDomain "trade-tracker/internal/domain/journal"
)

// LedgerReader 提供帳本讀取。
type LedgerReader interface {
	ListSummaries(ctx context.Context) ([]journalDomain.DailySummary, error)
}

// TradeReader 提供交易讀取。
type TradeReader interface {
	AllTrades(ctx context.Context) ([]journalDomain.Trade, error)
}

// Dashboard 側欄快速統計。
type Dashboard struct {
	CurrentBalance float64 `json:"current_balance"`
	Week           int     `json:"week"`
	TotalTrades    int     `json:"total_trades"`
	TotalDeposits  float64 `json:"total_deposits"`
	TotalPNL       float64 `json:"total_pnl"`
	TotalPNLPct    float64 `json:"total_pnl_pct"`
}

// TodayPanel 當日摘要與目標達成度。
type TodayPanel struct {
	Date         string  `json:"date"`
	Trades       int     `json:"trades"`
	PNL          float64 `json:"pnl"`
	DepositBonus float64 `json:"deposit_bonus"`
	Target       float64 `json:"target"`
	ProgressPct  float64 `json:"progress_pct"`
}

// TradeStats 交易統計總覽。
type TradeStats struct {
	TotalTrades int     `json:"total_trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`
}

// TickerStat 單一標的績效。
type TickerStat struct {
	Ticker   string  `json:"ticker"`
	TotalPNL float64 `json:"total_pnl"`
	Trades   int     `json:"trades"`
	AvgPNL   float64 `json:"avg_pnl"`
}

// BalancePoint 餘額曲線上的一點。
type BalancePoint struct {
	Date         string  `json:"entry_date"`
	EndBalance   float64 `json:"end_balance"`
	TargetProfit float64 `json:"profit_needed"`
	ActualProfit float64 `json:"actual_profit"`
}

// UseCase 聚合儀表板與分析報表邏輯，全部由帳本與交易推導。
type UseCase struct {
	ledgerRepo     LedgerReader
	tradeRepo      TradeReader
	engine         *ledger.Engine
	initialBalance float64
}

// NewUseCase 建立報表用例。
func NewUseCase(ledgerRepo LedgerReader, tradeRepo TradeReader, engine *ledger.Engine, initialBalance float64) *UseCase {
	return &UseCase{
		ledgerRepo:     ledgerRepo,
		tradeRepo:      tradeRepo,
		engine:         engine,
		initialBalance: initialBalance,
	}
}

// BuildDashboard 產出側欄快速統計。
func (u *UseCase) BuildDashboard(ctx context.Context) (Dashboard, error) {
	summaries, err := u.ledgerRepo.ListSummaries(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	trades, err := u.tradeRepo.AllTrades(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{
		CurrentBalance: u.initialBalance,
		Week:           1,
		TotalTrades:    len(trades),
	}
	if len(summaries) == 0 {
		return out, nil
	}

	latest := summaries[len(summaries)-1]
	totalDeposits := 0.0
	for _, s := range summaries {
		totalDeposits += s.DepositBonus
	}
	out.CurrentBalance = latest.EndBalance
	out.Week = latest.Week
	out.TotalDeposits = round2(totalDeposits)
	out.TotalPNL = round2(latest.EndBalance - u.initialBalance - totalDeposits)
	if u.initialBalance > 0 {
		out.TotalPNLPct = round2(out.TotalPNL / u.initialBalance * 100)
	}
	return out, nil
}

// BuildTodayPanel 產出當日摘要；today 由呼叫端依參考時區決定。
func (u *UseCase) BuildTodayPanel(ctx context.Context, today string) (TodayPanel, error) {
	summaries, err := u.ledgerRepo.ListSummaries(ctx)
	if err != nil {
		return TodayPanel{}, err
	}

	out := TodayPanel{Date: today}
	startBalance := u.initialBalance
	for _, s := range summaries {
		switch {
		case s.Date == today:
			out.Trades = s.Trades
			out.PNL = s.ActualProfit
			out.DepositBonus = s.DepositBonus
			startBalance = s.StartBalance
		case s.Date < today:
			// 今日起始餘額為前一列期末餘額。
			startBalance = s.EndBalance
		}
	}
	out.Target = round2(u.engine.TargetProfit(startBalance))
	if out.Target > 0 {
		out.ProgressPct = round2(out.PNL / out.Target * 100)
	}
	return out, nil
}

// BuildTradeStats 計算勝率與平均盈虧。
func (u *UseCase) BuildTradeStats(ctx context.Context) (TradeStats, error) {
	trades, err := u.tradeRepo.AllTrades(ctx)
	if err != nil {
		return TradeStats{}, err
	}

	out := TradeStats{TotalTrades: len(trades)}
	winSum, lossSum := 0.0, 0.0
	for _, t := range trades {
		switch {
		case t.PNL > 0:
			out.Wins++
			winSum += t.PNL
		case t.PNL < 0:
			out.Losses++
			lossSum += t.PNL
		}
	}
	if out.TotalTrades > 0 {
		out.WinRate = round2(float64(out.Wins) / float64(out.TotalTrades) * 100)
	}
	if out.Wins > 0 {
		out.AvgWin = round2(winSum / float64(out.Wins))
	}
	if out.Losses > 0 {
		out.AvgLoss = round2(lossSum / float64(out.Losses))
	}
	return out, nil
}

// BuildTickerStats 依總損益由高到低回傳各標的績效。
func (u *UseCase) BuildTickerStats(ctx context.Context) ([]TickerStat, error) {
	trades, err := u.tradeRepo.AllTrades(ctx)
	if err != nil {
		return nil, err
	}

	agg := make(map[string]*TickerStat)
	for _, t := range trades {
		st, ok := agg[t.Ticker]
		if !ok {
			st = &TickerStat{Ticker: t.Ticker}
			agg[t.Ticker] = st
		}
		st.TotalPNL += t.PNL
		st.Trades++
	}
	out := make([]TickerStat, 0, len(agg))
	for _, st := range agg {
		st.TotalPNL = round2(st.TotalPNL)
		st.AvgPNL = round2(st.TotalPNL / float64(st.Trades))
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPNL != out[j].TotalPNL {
			return out[i].TotalPNL > out[j].TotalPNL
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out, nil
}

// BuildBalanceCurve 回傳依日期遞增的餘額與損益序列，供圖表使用。
func (u *UseCase) BuildBalanceCurve(ctx context.Context) ([]BalancePoint, error) {
	summaries, err := u.ledgerRepo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BalancePoint, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, BalancePoint{
			Date:         s.Date,
			EndBalance:   s.EndBalance,
			TargetProfit: s.TargetProfit,
			ActualProfit: s.ActualProfit,
		})
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
