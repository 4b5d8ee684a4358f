package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteServiceError maps domain errors to HTTP status codes.
func WriteServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoData):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrUsernameTaken):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrSessionExpired):
		WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrPortfolioLimit), errors.Is(err, models.ErrLastPortfolio):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotConfigured):
		WriteError(w, http.StatusServiceUnavailable, "market data provider is not configured")
	case errors.Is(err, models.ErrRateLimited):
		WriteError(w, http.StatusTooManyRequests, "market data provider rate limit reached")
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, http.StatusBadGateway, "market data provider rejected the request")
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/portfolios/{id}/positions, calling
// PathParam(r, "/api/portfolios/", "/positions") extracts the {id} part.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	// No suffix — return up to the next /
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// sessionToken extracts the opaque session token from the Authorization
// header (Bearer scheme) or the X-Session-Token header.
func sessionToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.Header.Get("X-Session-Token")
}

// authenticate resolves the request's session. Writes a 401 and returns
// false when the token is missing, unknown or expired.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	token := sessionToken(r)
	if token == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	session, err := s.app.Sessions.Validate(token)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Session expired or invalid")
		return nil, false
	}
	return session, true
}
