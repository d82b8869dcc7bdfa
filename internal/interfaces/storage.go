package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/marketdesk/internal/models"
)

// SessionStore persists sessions and their backend tokens.
type SessionStore interface {
	SaveSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	// PurgeExpired deletes sessions that expired at or before now and returns their IDs.
	PurgeExpired(ctx context.Context, now time.Time) ([]string, error)
	Close() error
}
