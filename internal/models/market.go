package models

import "time"

// Quote is a normalized live quote. PreviousClose falls back to Current and
// the change fields fall back to zero when the provider omits them; see
// NormalizeQuote.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Current       float64   `json:"current"`
	PreviousClose float64   `json:"previous_close"`
	ChangeAbs     float64   `json:"change_abs"`
	ChangePct     float64   `json:"change_pct"`
	Timestamp     time.Time `json:"timestamp"`
}

// NormalizeQuote applies the documented fallback rules to a raw provider
// quote: a missing previous close falls back to the current price, missing
// change fields fall back to zero. A zero/absent current price is not a
// quote at all; callers must have rejected it before normalizing.
func NormalizeQuote(q Quote) Quote {
	if q.PreviousClose == 0 {
		q.PreviousClose = q.Current
	}
	// ChangeAbs/ChangePct zero-values already encode the fallback.
	return q
}

// PricePoint is the price cache's fundamental unit: one (ticker, date) close.
type PricePoint struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
}

// DateKey returns the canonical YYYY-MM-DD form of the point's date, used as
// part of the storage record key so (ticker, date) stays unique.
func (p PricePoint) DateKey() string {
	return p.Date.Format("2006-01-02")
}

// NewsItem is a normalized news article for a ticker.
type NewsItem struct {
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}
