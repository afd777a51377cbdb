package memory

import (
	"context"
	"sort"
	"sync"

	journalDomain "trade-tracker/internal/domain/journal"
)

// Store 為記憶體日記帳後端，供測試與示範執行使用。
// 入金一如 SQL 後端存放在摘要列上，重算時由 DepositsByDate 取回。
type Store struct {
	mu        sync.RWMutex
	trades    map[string]journalDomain.Trade
	order     []string // 插入順序，穩定排序用
	summaries map[string]journalDomain.DailySummary
}

// NewStore 建立新的記憶體 Store 實例。
func NewStore() *Store {
	return &Store{
		trades:    make(map[string]journalDomain.Trade),
		summaries: make(map[string]journalDomain.DailySummary),
	}
}

func (s *Store) InsertTrade(_ context.Context, t journalDomain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[t.ID] = t
	s.order = append(s.order, t.ID)
	return nil
}

func (s *Store) DeleteTrade(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trades[id]; !ok {
		return journalDomain.ErrNotFound
	}
	delete(s.trades, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) GetTrade(_ context.Context, id string) (journalDomain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trades[id]
	if !ok {
		return journalDomain.Trade{}, journalDomain.ErrNotFound
	}
	return t, nil
}

func (s *Store) ListTrades(_ context.Context, limit int) ([]journalDomain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.tradesInInsertOrder()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AllTrades(_ context.Context) ([]journalDomain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.tradesInInsertOrder()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) AddDeposit(_ context.Context, date string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.summaries[date]
	row.Date = date
	row.DepositBonus += amount
	s.summaries[date] = row
	return nil
}

func (s *Store) DepositsByDate(_ context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64)
	for date, row := range s.summaries {
		if row.DepositBonus != 0 {
			out[date] = row.DepositBonus
		}
	}
	return out, nil
}

func (s *Store) ReplaceSummaries(_ context.Context, summaries []journalDomain.DailySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]journalDomain.DailySummary, len(summaries))
	for _, row := range summaries {
		next[row.Date] = row
	}
	s.summaries = next
	return nil
}

func (s *Store) ListSummaries(_ context.Context) ([]journalDomain.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]journalDomain.DailySummary, 0, len(s.summaries))
	for _, row := range s.summaries {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) tradesInInsertOrder() []journalDomain.Trade {
	out := make([]journalDomain.Trade, 0, len(s.order))
	for _, id := range s.order {
		if t, ok := s.trades[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
