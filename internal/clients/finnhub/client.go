// Package finnhub provides a client for the Finnhub API
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://finnhub.io/api/v1"
	DefaultTimeout   = 5 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the QuoteClient, HistoryClient and NewsClient interfaces.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Finnhub client. An empty apiKey is accepted; every
// call then fails with models.ErrNotConfigured so the feature degrades to
// "unavailable" instead of crashing the process.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Finnhub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request with a single transient retry.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if c.apiKey == "" {
		return models.ErrNotConfigured
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	// The wait sits inside the retry so a retried request also consumes a
	// rate-limit token.
	return common.Retry(ctx, 2, 0, common.IsTransient, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		c.logger.Debug().Str("url", c.baseURL+path).Msg("Finnhub API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			// fall through to decode
		case http.StatusTooManyRequests:
			return models.ErrRateLimited
		case http.StatusUnauthorized, http.StatusForbidden:
			return models.ErrForbidden
		case http.StatusNotFound:
			return models.ErrNoData
		default:
			body, _ := io.ReadAll(resp.Body)
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    string(body),
				Endpoint:   path,
			}
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", models.ErrMalformed, err)
		}
		return nil
	})
}

// quoteResponse mirrors Finnhub's /quote payload. Pointer fields distinguish
// "absent" from "zero".
type quoteResponse struct {
	Current       *float64 `json:"c"`
	PreviousClose *float64 `json:"pc"`
	ChangeAbs     *float64 `json:"d"`
	ChangePct     *float64 `json:"dp"`
	Timestamp     int64    `json:"t"`
}

// GetQuote retrieves a live quote for a ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbol", ticker)

	var resp quoteResponse
	if err := c.get(ctx, "/quote", params, &resp); err != nil {
		return nil, err
	}

	// An absent or exactly-zero current price means "ticker invalid / no
	// data", not a price of zero.
	if resp.Current == nil || *resp.Current == 0 {
		return nil, models.ErrNoData
	}

	quote := models.Quote{
		Ticker:    ticker,
		Current:   *resp.Current,
		Timestamp: time.Unix(resp.Timestamp, 0).UTC(),
	}
	if resp.PreviousClose != nil {
		quote.PreviousClose = *resp.PreviousClose
	}
	if resp.ChangeAbs != nil {
		quote.ChangeAbs = *resp.ChangeAbs
	}
	if resp.ChangePct != nil {
		quote.ChangePct = *resp.ChangePct
	}

	normalized := models.NormalizeQuote(quote)
	return &normalized, nil
}

// candleResponse mirrors Finnhub's /stock/candle payload.
type candleResponse struct {
	Status     string    `json:"s"`
	Closes     []float64 `json:"c"`
	Timestamps []int64   `json:"t"`
}

// GetHistory retrieves daily close bars in [from, to], ascending by date.
func (c *Client) GetHistory(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("resolution", "D")
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))

	var resp candleResponse
	if err := c.get(ctx, "/stock/candle", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status == "no_data" || len(resp.Closes) == 0 {
		return nil, models.ErrNoData
	}
	if len(resp.Closes) != len(resp.Timestamps) {
		return nil, fmt.Errorf("%w: %d closes for %d timestamps", models.ErrMalformed, len(resp.Closes), len(resp.Timestamps))
	}

	points := make([]models.PricePoint, len(resp.Closes))
	for i := range resp.Closes {
		points[i] = models.PricePoint{
			Ticker: ticker,
			Date:   time.Unix(resp.Timestamps[i], 0).UTC().Truncate(24 * time.Hour),
			Close:  resp.Closes[i],
		}
	}

	return points, nil
}

// newsResponse mirrors one item of Finnhub's /company-news payload.
type newsResponse struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
}

// GetNews retrieves company news published in [from, to].
func (c *Client) GetNews(ctx context.Context, ticker string, from, to time.Time) ([]*models.NewsItem, error) {
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var items []newsResponse
	if err := c.get(ctx, "/company-news", params, &items); err != nil {
		return nil, err
	}

	news := make([]*models.NewsItem, len(items))
	for i, item := range items {
		news[i] = &models.NewsItem{
			Headline:    item.Headline,
			Summary:     item.Summary,
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: time.Unix(item.Datetime, 0).UTC(),
		}
	}

	return news, nil
}

// Ensure Client implements the provider interfaces
var (
	_ interfaces.QuoteClient   = (*Client)(nil)
	_ interfaces.HistoryClient = (*Client)(nil)
	_ interfaces.NewsClient    = (*Client)(nil)
)
