package pricing

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Lookback windows the news endpoint accepts. Anything else falls back to
// the default.
var newsWindows = map[int]bool{1: true, 2: true, 5: true, 7: true}

const defaultNewsDays = 5

// NewsService serves company news over a bounded lookback window.
type NewsService struct {
	provider interfaces.NewsClient
	logger   *common.Logger
}

func NewNewsService(provider interfaces.NewsClient, logger *common.Logger) *NewsService {
	return &NewsService{
		provider: provider,
		logger:   logger,
	}
}

func (s *NewsService) GetNews(ctx context.Context, ticker string, days int) ([]*models.NewsItem, error) {
	normalized := models.NormalizeTicker(ticker)
	if normalized == "" {
		return nil, models.NewValidationError("ticker", "must not be empty")
	}

	if !newsWindows[days] {
		days = defaultNewsDays
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	items, err := s.provider.GetNews(ctx, normalized, from, to)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.NewsItem{}
	}
	return items, nil
}

var _ interfaces.NewsService = (*NewsService)(nil)
