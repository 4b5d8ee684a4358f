package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// PriceStore is the durable (ticker, date) close cache. Transient read
// failures are retried before reads degrade to "nothing cached", so callers
// fall through to the live provider instead of erroring.
type PriceStore struct {
	db     *surrealdb.DB
	logger *common.Logger

	// query executes one statement and flattens the first result set. The
	// indirection lets tests swap in a failing backend.
	query func(ctx context.Context, sql string, vars map[string]any) ([]priceRecord, error)
}

func NewPriceStore(db *surrealdb.DB, logger *common.Logger) *PriceStore {
	s := &PriceStore{
		db:     db,
		logger: logger,
	}
	s.query = s.queryDB
	return s
}

func (s *PriceStore) queryDB(ctx context.Context, sql string, vars map[string]any) ([]priceRecord, error) {
	results, err := surrealdb.Query[[]priceRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

// read retries transient failures with the same policy the write path uses.
func (s *PriceStore) read(ctx context.Context, sql string, vars map[string]any) ([]priceRecord, error) {
	var records []priceRecord
	err := common.Retry(ctx, 2, 100*time.Millisecond, common.IsTransient, func() error {
		var qerr error
		records, qerr = s.query(ctx, sql, vars)
		return qerr
	})
	return records, err
}

// priceRecord is the stored shape. Dates are kept as "2006-01-02" strings so
// range comparisons work at daily granularity regardless of intraday
// timestamps on the way in.
type priceRecord struct {
	Ticker string  `json:"ticker"`
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
}

func priceRecordID(ticker string, date time.Time) string {
	return ticker + ":" + date.Format("2006-01-02")
}

func (r priceRecord) toPoint() (models.PricePoint, error) {
	date, err := time.ParseInLocation("2006-01-02", r.Date, time.UTC)
	if err != nil {
		return models.PricePoint{}, fmt.Errorf("bad cached date %q: %w", r.Date, err)
	}
	return models.PricePoint{
		Ticker: r.Ticker,
		Date:   date,
		Close:  r.Close,
	}, nil
}

func (s *PriceStore) GetRange(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error) {
	sql := "SELECT * FROM historical_price WHERE ticker = $ticker AND date >= $from AND date <= $to ORDER BY date ASC"
	vars := map[string]any{
		"ticker": ticker,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}

	records, err := s.read(ctx, sql, vars)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Price cache read failed, treating as empty")
		return nil, nil
	}

	var points []models.PricePoint
	for _, record := range records {
		point, perr := record.toPoint()
		if perr != nil {
			s.logger.Warn().Err(perr).Str("ticker", ticker).Msg("Skipping malformed cached price")
			continue
		}
		points = append(points, point)
	}
	return points, nil
}

func (s *PriceStore) GetLatest(ctx context.Context, ticker string) (*models.PricePoint, error) {
	sql := "SELECT * FROM historical_price WHERE ticker = $ticker ORDER BY date DESC LIMIT 1"
	vars := map[string]any{"ticker": ticker}

	records, err := s.read(ctx, sql, vars)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Price cache read failed, treating as empty")
		return nil, nil
	}

	if len(records) > 0 {
		point, perr := records[0].toPoint()
		if perr != nil {
			s.logger.Warn().Err(perr).Str("ticker", ticker).Msg("Skipping malformed cached price")
			return nil, nil
		}
		return &point, nil
	}
	return nil, nil
}

func (s *PriceStore) GetLatestSyncDate(ctx context.Context, ticker string) (*time.Time, error) {
	latest, err := s.GetLatest(ctx, ticker)
	if err != nil || latest == nil {
		return nil, err
	}
	date := latest.Date
	return &date, nil
}

// Upsert stores the points keyed by (ticker, date). Re-inserting an existing
// day overwrites it with the same values, so duplicates are harmless.
func (s *PriceStore) Upsert(ctx context.Context, ticker string, points []models.PricePoint) error {
	sql := "UPSERT $rid CONTENT $record"

	for _, point := range points {
		record := priceRecord{
			Ticker: ticker,
			Date:   point.Date.Format("2006-01-02"),
			Close:  point.Close,
		}
		vars := map[string]any{
			"rid":    surrealmodels.NewRecordID("historical_price", priceRecordID(ticker, point.Date)),
			"record": record,
		}

		err := common.Retry(ctx, 2, 100*time.Millisecond, common.IsTransient, func() error {
			_, qerr := s.query(ctx, sql, vars)
			return qerr
		})
		if err != nil {
			return fmt.Errorf("failed to upsert price %s %s: %w", ticker, record.Date, err)
		}
	}
	return nil
}

func (s *PriceStore) PurgeTicker(ctx context.Context, ticker string) (int, error) {
	sql := "DELETE historical_price WHERE ticker = $ticker RETURN BEFORE"
	vars := map[string]any{"ticker": ticker}

	records, err := s.query(ctx, sql, vars)
	if err != nil {
		return 0, fmt.Errorf("failed to purge prices for %s: %w", ticker, err)
	}
	return len(records), nil
}

var _ interfaces.PriceStore = (*PriceStore)(nil)
