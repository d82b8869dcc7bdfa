package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/marketdesk/internal/clients/marketplace"
	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/services/admin"
	"github.com/bobmcallan/marketdesk/internal/services/notification"
	"github.com/bobmcallan/marketdesk/internal/services/portfolio"
	"github.com/bobmcallan/marketdesk/internal/services/session"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeUnauthorized   = "unauthorized"
	CodeSessionExpired = "session_expired"
	CodeForbidden      = "forbidden"
	CodeInvalidInput   = "invalid_input"
	CodeNotFound       = "not_found"
	CodeValidation     = "validation_failed"
	CodeBackend        = "backend_error"
	CodeInternal       = "internal_error"
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

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
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
	if r.Body == nil || r.Body == http.NoBody {
		WriteErrorWithCode(w, http.StatusBadRequest, "Request body is required", CodeInvalidInput)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "Invalid JSON: "+err.Error(), CodeInvalidInput)
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/admin/orders/{id}/decision, calling
// PathParam(r, "/api/admin/orders/", "/decision") extracts the {id} part.
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
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// splitSubpath splits "id/action" into its parts.
func splitSubpath(path string) (id, sub string) {
	parts := strings.SplitN(strings.Trim(path, "/"), "/", 2)
	id = parts[0]
	if len(parts) > 1 {
		sub = parts[1]
	}
	return id, sub
}

// requireSession returns the session of an authenticated request, or writes 401.
func requireSession(w http.ResponseWriter, r *http.Request) (*common.SessionContext, bool) {
	sc := common.SessionFromContext(r.Context())
	if sc == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteErrorWithCode(w, http.StatusUnauthorized, "Authentication required", CodeUnauthorized)
		return nil, false
	}
	return sc, true
}

// requireAdmin returns the session of an admin request, or writes 401/403.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*common.SessionContext, bool) {
	sc, ok := requireSession(w, r)
	if !ok {
		return nil, false
	}
	if !sc.IsAdmin() {
		WriteErrorWithCode(w, http.StatusForbidden, "Admin access required", CodeForbidden)
		return nil, false
	}
	return sc, true
}

// writeServiceError maps service and backend errors onto HTTP responses.
// A backend 401 also drops the session so the client must log in again.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *marketplace.APIError

	switch {
	case errors.Is(err, session.ErrMissingCredentials),
		errors.Is(err, admin.ErrInvalidInput):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), CodeInvalidInput)
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrSessionExpired):
		WriteErrorWithCode(w, http.StatusUnauthorized, "Session expired, please log in again", CodeSessionExpired)
	case errors.Is(err, session.ErrInvalidToken):
		WriteErrorWithCode(w, http.StatusUnauthorized, err.Error(), CodeUnauthorized)
	case errors.Is(err, marketplace.ErrUnauthorized):
		s.app.SessionService.Invalidate(r.Context(), common.ResolveSessionID(r.Context()))
		WriteErrorWithCode(w, http.StatusUnauthorized, "Backend rejected the session", CodeSessionExpired)
	case errors.Is(err, notification.ErrNotFound),
		errors.Is(err, portfolio.ErrNoChartData):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), CodeNotFound)
	case errors.As(err, &apiErr):
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			WriteErrorWithCode(w, http.StatusNotFound, apiErr.Message, CodeNotFound)
		case apiErr.StatusCode == http.StatusForbidden:
			WriteErrorWithCode(w, http.StatusForbidden, apiErr.Message, CodeForbidden)
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			WriteErrorWithCode(w, http.StatusBadRequest, apiErr.Message, CodeBackend)
		default:
			WriteErrorWithCode(w, http.StatusBadGateway, apiErr.Message, CodeBackend)
		}
	default:
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		WriteErrorWithCode(w, http.StatusInternalServerError, "Internal server error", CodeInternal)
	}
}
