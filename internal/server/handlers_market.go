package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/valuation"
)

const historyDateFormat = "2006-01-02"

// handleMarketQuote handles GET /api/market/quote/{ticker}.
func (s *Server) handleMarketQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	ticker := PathParam(r, "/api/market/quote/", "")
	quote, err := s.app.Quotes.GetQuote(r.Context(), ticker)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	// Prices round to 2dp here, at the boundary, never upstream.
	quote.Current = valuation.Round2(quote.Current)
	quote.PreviousClose = valuation.Round2(quote.PreviousClose)
	quote.ChangeAbs = valuation.Round2(quote.ChangeAbs)
	quote.ChangePct = valuation.Round2(quote.ChangePct)
	WriteJSON(w, http.StatusOK, quote)
}

// dateParam reads a YYYY-MM-DD query value under either name.
func dateParam(r *http.Request, names ...string) (time.Time, bool, error) {
	for _, name := range names {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseInLocation(historyDateFormat, v, time.UTC)
		if err != nil {
			return time.Time{}, false, err
		}
		return parsed, true, nil
	}
	return time.Time{}, false, nil
}

// handleMarketHistory handles GET /api/market/history/{ticker} and
// DELETE /api/market/history/{ticker} (drops the cached history so the next
// read resyncs from the provider).
// Optional from/to query params (YYYY-MM-DD) default to the last 30 days.
func (s *Server) handleMarketHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	ticker := PathParam(r, "/api/market/history/", "")

	if r.Method == http.MethodDelete {
		count, err := s.app.Storage.PriceStore().PurgeTicker(r.Context(), models.NormalizeTicker(ticker))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"ticker": models.NormalizeTicker(ticker),
			"purged": count,
		})
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if parsed, ok, err := dateParam(r, "from", "from_date"); err != nil {
		WriteError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	} else if ok {
		from = parsed
	}
	if parsed, ok, err := dateParam(r, "to", "to_date"); err != nil {
		WriteError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	} else if ok {
		to = parsed
	}

	points, err := s.app.History.GetHistory(r.Context(), ticker, from, to)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if points == nil {
		points = []models.PricePoint{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": models.NormalizeTicker(ticker),
		"from":   from.Format(historyDateFormat),
		"to":     to.Format(historyDateFormat),
		"points": points,
	})
}

// handleNews handles GET /api/news/{ticker}?days=N.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	ticker := PathParam(r, "/api/news/", "")

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}

	items, err := s.app.News.GetNews(r.Context(), ticker, days)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": models.NormalizeTicker(ticker),
		"items":  items,
	})
}
