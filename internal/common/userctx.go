package common

import (
	"context"
	"time"
)

// SessionContext is the per-request identity resolved from the session
// bearer token. A nil SessionContext means the request is anonymous.
type SessionContext struct {
	SessionID string
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// IsAdmin reports whether the session belongs to an administrator.
func (sc *SessionContext) IsAdmin() bool {
	return sc != nil && sc.Role == "admin"
}

type contextKey int

const (
	sessionContextKey contextKey = iota
	correlationIDKey
)

// WithSession stores a SessionContext in the request context.
func WithSession(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey, sc)
}

// SessionFromContext retrieves the SessionContext from context, or nil if absent.
func SessionFromContext(ctx context.Context) *SessionContext {
	sc, _ := ctx.Value(sessionContextKey).(*SessionContext)
	return sc
}

// ResolveSessionID returns the session ID from context, or "" for anonymous requests.
func ResolveSessionID(ctx context.Context) string {
	if sc := SessionFromContext(ctx); sc != nil {
		return sc.SessionID
	}
	return ""
}

// WithCorrelationID stores the request correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}
