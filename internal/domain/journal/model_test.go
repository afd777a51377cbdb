package journal

import (
	"errors"
	"math"
	"testing"
)

func validTrade() Trade {
	return Trade{
		Date:       "2025-10-21",
		Ticker:     "BTC",
		Leverage:   50,
		Direction:  DirectionLong,
		Investment: 20,
		PNL:        12.5,
		PNLPct:     62.5,
	}
}

func TestTradeValidate(t *testing.T) {
	if err := validTrade().Validate(); err != nil {
		t.Fatalf("valid trade rejected: %v", err)
	}

	tr := validTrade()
	tr.Direction = ""
	if err := tr.Validate(); err != nil {
		t.Fatalf("empty direction should pass: %v", err)
	}
}

func TestTradeValidateRejects(t *testing.T) {
	cases := map[string]func(*Trade){
		"empty date":     func(tr *Trade) { tr.Date = "" },
		"bad date":       func(tr *Trade) { tr.Date = "21/10/2025" },
		"empty ticker":   func(tr *Trade) { tr.Ticker = "" },
		"bad direction":  func(tr *Trade) { tr.Direction = "SIDEWAYS" },
		"negative lever": func(tr *Trade) { tr.Leverage = -1 },
		"nan pnl":        func(tr *Trade) { tr.PNL = math.NaN() },
		"inf investment": func(tr *Trade) { tr.Investment = math.Inf(1) },
	}
	for name, mutate := range cases {
		tr := validTrade()
		mutate(&tr)
		if err := tr.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-01-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseDate("not-a-date"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := ParseDate(""); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for empty input, got %v", err)
	}
}
