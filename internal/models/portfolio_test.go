package models

import "testing"

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]string{
		"aapl":    "AAPL",
		" msft ":  "MSFT",
		"BRK.B":   "BRK.B",
		"brk-b":   "BRK-B",
		"  tsla ": "TSLA",
		"":        "",
	}
	for in, want := range cases {
		if got := NormalizeTicker(in); got != want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPositionValidate(t *testing.T) {
	valid := Position{Ticker: "AAPL", Shares: 10, PurchasePrice: 150}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid position, got %v", err)
	}

	tests := []struct {
		name string
		pos  Position
	}{
		{"empty ticker", Position{Ticker: "", Shares: 1, PurchasePrice: 1}},
		{"lowercase ticker", Position{Ticker: "aapl", Shares: 1, PurchasePrice: 1}},
		{"leading digit", Position{Ticker: "1AAPL", Shares: 1, PurchasePrice: 1}},
		{"too long", Position{Ticker: "ABCDEFGHIJK", Shares: 1, PurchasePrice: 1}},
		{"zero shares", Position{Ticker: "AAPL", Shares: 0, PurchasePrice: 1}},
		{"negative shares", Position{Ticker: "AAPL", Shares: -2, PurchasePrice: 1}},
		{"zero price", Position{Ticker: "AAPL", Shares: 1, PurchasePrice: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pos.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidation(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestPortfolioTickers_Dedupe(t *testing.T) {
	p := &Portfolio{
		Positions: []Position{
			{Ticker: "AAPL"},
			{Ticker: "aapl"},
			{Ticker: "MSFT"},
			{Ticker: "AAPL"},
		},
	}

	tickers := p.Tickers()
	if len(tickers) != 2 {
		t.Fatalf("expected 2 distinct tickers, got %v", tickers)
	}
	if tickers[0] != "AAPL" || tickers[1] != "MSFT" {
		t.Errorf("expected [AAPL MSFT] preserving first-seen order, got %v", tickers)
	}
}

func TestValidatePortfolioName(t *testing.T) {
	if err := ValidatePortfolioName("My Portfolio"); err != nil {
		t.Errorf("expected valid name, got %v", err)
	}
	if err := ValidatePortfolioName(""); err == nil {
		t.Error("expected error for empty name")
	}
	if err := ValidatePortfolioName("   "); err == nil {
		t.Error("expected error for blank name")
	}
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidatePortfolioName(string(long)); err == nil {
		t.Error("expected error for 51-char name")
	}
}
