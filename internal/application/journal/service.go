package journal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"trade-tracker/internal/application/ledger"
	journalDomain "trade-tracker/internal/domain/journal"
)

// Repository 定義日記帳資料存取接口。
// 交易與入金為事實來源；daily_summary 為引擎推導的物化結果。
type Repository interface {
	InsertTrade(ctx context.Context, t journalDomain.Trade) error
	DeleteTrade(ctx context.Context, id string) error
	GetTrade(ctx context.Context, id string) (journalDomain.Trade, error)
	// ListTrades 依日期、建立時間新到舊回傳；limit <= 0 表示不限筆數。
	ListTrades(ctx context.Context, limit int) ([]journalDomain.Trade, error)
	AllTrades(ctx context.Context) ([]journalDomain.Trade, error)

	// AddDeposit 以單一敘述累加指定日期的入金額（無讀取-修改-寫回競態）。
	AddDeposit(ctx context.Context, date string, amount float64) error
	DepositsByDate(ctx context.Context) (map[string]float64, error)

	// ReplaceSummaries 以交易方式整批覆蓋帳本：全部成功或維持原狀。
	ReplaceSummaries(ctx context.Context, summaries []journalDomain.DailySummary) error
	// ListSummaries 依日期遞增回傳帳本。
	ListSummaries(ctx context.Context) ([]journalDomain.DailySummary, error)
}

// Service 日記帳用例：所有寫入操作都同步觸發一次完整重算。
type Service struct {
	repo           Repository
	engine         *ledger.Engine
	initialBalance float64
	loc            *time.Location
	now            func() time.Time
}

// NewService 建立日記帳服務。initialBalance 為追蹤前的既有資金，
// 明確傳入而非隱含在任何全域狀態中。
func NewService(repo Repository, engine *ledger.Engine, initialBalance float64, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:           repo,
		engine:         engine,
		initialBalance: initialBalance,
		loc:            loc,
		now:            time.Now,
	}
}

// WithClock 覆寫時間來源，測試用。
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(journalDomain.DateLayout)
}

// Recompute 讀取全部交易與入金並重建帳本，成功後整批持久化。
func (s *Service) Recompute(ctx context.Context) ([]journalDomain.DailySummary, error) {
	trades, err := s.repo.AllTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	deposits, err := s.repo.DepositsByDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deposits: %w", err)
	}
	summaries, err := s.engine.Recompute(s.initialBalance, trades, deposits, s.today())
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceSummaries(ctx, summaries); err != nil {
		return nil, fmt.Errorf("persist ledger: %w", err)
	}
	return summaries, nil
}

// AddTrade 寫入一筆交易（可同時附帶當日入金）並觸發重算。
func (s *Service) AddTrade(ctx context.Context, t journalDomain.Trade, depositBonus float64) (journalDomain.Trade, error) {
	if err := t.Validate(); err != nil {
		return journalDomain.Trade{}, err
	}
	if t.Direction == "" {
		t.Direction = journalDomain.DirectionLong
	}
	t.ID = ulid.Make().String()
	t.CreatedAt = s.now().UTC()

	if err := s.repo.InsertTrade(ctx, t); err != nil {
		return journalDomain.Trade{}, fmt.Errorf("insert trade: %w", err)
	}
	if depositBonus != 0 {
		if err := s.repo.AddDeposit(ctx, t.Date, depositBonus); err != nil {
			return journalDomain.Trade{}, fmt.Errorf("record deposit: %w", err)
		}
	}
	if _, err := s.Recompute(ctx); err != nil {
		return journalDomain.Trade{}, err
	}
	log.Printf("[Journal] trade added: %s %s %s pnl=%.2f", t.Date, t.Direction, t.Ticker, t.PNL)
	return t, nil
}

// DeleteTrade 刪除交易後無條件重算，讓餘額變動級聯到之後的每一天。
func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	if _, err := s.repo.GetTrade(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTrade(ctx, id); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	if _, err := s.Recompute(ctx); err != nil {
		return err
	}
	log.Printf("[Journal] trade %s deleted, ledger rebuilt", id)
	return nil
}

// RecordDeposit 累加指定日期的入金並觸發重算。
func (s *Service) RecordDeposit(ctx context.Context, date string, amount float64) error {
	if _, err := journalDomain.ParseDate(date); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive")
	}
	if err := s.repo.AddDeposit(ctx, date, amount); err != nil {
		return fmt.Errorf("record deposit: %w", err)
	}
	if _, err := s.Recompute(ctx); err != nil {
		return err
	}
	log.Printf("[Journal] deposit %.2f recorded on %s", amount, date)
	return nil
}

// Trades 依新到舊回傳交易列表。
func (s *Service) Trades(ctx context.Context, limit int) ([]journalDomain.Trade, error) {
	return s.repo.ListTrades(ctx, limit)
}

// Summaries 依日期遞增回傳帳本。
func (s *Service) Summaries(ctx context.Context) ([]journalDomain.DailySummary, error) {
	return s.repo.ListSummaries(ctx)
}

// Today 回傳參考時區下的當日日期字串。
func (s *Service) Today() string {
	return s.today()
}

// InitialBalance 回傳設定的初始資金。
func (s *Service) InitialBalance() float64 {
	return s.initialBalance
}
