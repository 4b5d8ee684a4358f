package models

import (
	"testing"
	"time"
)

func TestNormalizeQuote_MissingPreviousClose(t *testing.T) {
	q := NormalizeQuote(Quote{Ticker: "AAPL", Current: 45.00})

	if q.PreviousClose != 45.00 {
		t.Errorf("expected previous close to fall back to current, got %v", q.PreviousClose)
	}
	if q.ChangeAbs != 0 || q.ChangePct != 0 {
		t.Errorf("expected zero change fields, got %v / %v", q.ChangeAbs, q.ChangePct)
	}
}

func TestNormalizeQuote_CompleteQuoteUntouched(t *testing.T) {
	in := Quote{Ticker: "MSFT", Current: 100, PreviousClose: 98, ChangeAbs: 2, ChangePct: 2.04}
	out := NormalizeQuote(in)
	if out != in {
		t.Errorf("expected complete quote unchanged, got %+v", out)
	}
}

func TestPricePointDateKey(t *testing.T) {
	p := PricePoint{Date: time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)}
	if got := p.DateKey(); got != "2026-03-09" {
		t.Errorf("DateKey = %q, want 2026-03-09", got)
	}
}
