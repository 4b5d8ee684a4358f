package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// fakeHistoryClient records requested spans and serves canned points.
type fakeHistoryClient struct {
	points []models.PricePoint
	err    error
	calls  int
	from   time.Time
	to     time.Time
}

func (f *fakeHistoryClient) GetHistory(_ context.Context, _ string, from, to time.Time) ([]models.PricePoint, error) {
	f.calls++
	f.from = from
	f.to = to
	if f.err != nil {
		return nil, f.err
	}
	return f.points, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetHistory_ColdCacheFetchesAndStores(t *testing.T) {
	provider := &fakeHistoryClient{points: []models.PricePoint{
		{Ticker: "AAPL", Date: day(2026, 8, 24), Close: 150},
		{Ticker: "AAPL", Date: day(2026, 8, 25), Close: 151},
	}}
	store := newFakePriceStore()
	svc := NewHistoryService(provider, store, common.NewSilentLogger())

	points, err := svc.GetHistory(context.Background(), "aapl", day(2026, 8, 24), day(2026, 8, 25))
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}

	// Second read is served entirely from cache.
	if _, err := svc.GetHistory(context.Background(), "AAPL", day(2026, 8, 24), day(2026, 8, 25)); err != nil {
		t.Fatal(err)
	}
	if provider.calls != 1 {
		t.Errorf("expected no further provider calls, got %d", provider.calls)
	}
}

func TestGetHistory_SyncsOnlyTheGap(t *testing.T) {
	store := newFakePriceStore()
	store.Upsert(context.Background(), "AAPL", []models.PricePoint{
		{Ticker: "AAPL", Date: day(2026, 8, 24), Close: 150},
	})
	provider := &fakeHistoryClient{points: []models.PricePoint{
		{Ticker: "AAPL", Date: day(2026, 8, 25), Close: 151},
	}}
	svc := NewHistoryService(provider, store, common.NewSilentLogger())

	points, err := svc.GetHistory(context.Background(), "AAPL", day(2026, 8, 24), day(2026, 8, 25))
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected merged 2 points, got %d", len(points))
	}
	if !provider.from.Equal(day(2026, 8, 25)) {
		t.Errorf("expected fetch to start the day after last sync, got %v", provider.from)
	}
}

func TestGetHistory_ProviderFailureServesCache(t *testing.T) {
	store := newFakePriceStore()
	store.Upsert(context.Background(), "AAPL", []models.PricePoint{
		{Ticker: "AAPL", Date: day(2026, 8, 24), Close: 150},
	})
	provider := &fakeHistoryClient{err: errors.New("provider down")}
	svc := NewHistoryService(provider, store, common.NewSilentLogger())

	points, err := svc.GetHistory(context.Background(), "AAPL", day(2026, 8, 24), day(2026, 8, 26))
	if err != nil {
		t.Fatalf("expected cached data despite provider outage, got %v", err)
	}
	if len(points) != 1 {
		t.Errorf("expected 1 cached point, got %d", len(points))
	}
}

func TestGetHistory_NoDataSpanIsNotAFailure(t *testing.T) {
	provider := &fakeHistoryClient{err: models.ErrNoData}
	svc := NewHistoryService(provider, newFakePriceStore(), common.NewSilentLogger())

	points, err := svc.GetHistory(context.Background(), "AAPL", day(2026, 8, 24), day(2026, 8, 25))
	if err != nil {
		t.Fatalf("expected empty result, got error %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}

func TestGetHistory_RejectsInvertedRange(t *testing.T) {
	svc := NewHistoryService(&fakeHistoryClient{}, newFakePriceStore(), common.NewSilentLogger())

	_, err := svc.GetHistory(context.Background(), "AAPL", day(2026, 8, 26), day(2026, 8, 24))
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
