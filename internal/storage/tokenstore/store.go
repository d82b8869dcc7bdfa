// Package tokenstore persists marketdesk sessions using BadgerHold.
// Each record holds the backend bearer token for one session ID.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// ErrNotFound is returned when no session is stored under the requested ID.
var ErrNotFound = errors.New("session not found")

// Store implements interfaces.SessionStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (or creates) the session database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session store path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Session store opened")
	return &Store{db: db, logger: logger}, nil
}

// record is the stored form. Session.Token is excluded from JSON so it is
// carried explicitly here.
type record struct {
	ID        string
	UserID    string
	Email     string
	Role      string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func toRecord(s *models.Session) record {
	return record{
		ID:        s.ID,
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      s.Role,
		Token:     s.Token,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (r record) session() *models.Session {
	return &models.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		Email:     r.Email,
		Role:      r.Role,
		Token:     r.Token,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

func (s *Store) SaveSession(_ context.Context, sess *models.Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("session ID is required")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	if err := s.db.Upsert(sess.ID, toRecord(sess)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Debug().Str("user_id", sess.UserID).Msg("Session saved")
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (*models.Session, error) {
	var r record
	if err := s.db.Get(sessionID, &r); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return r.session(), nil
}

func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	if err := s.db.Delete(sessionID, record{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes every session whose expiry is at or before now and
// returns the removed IDs.
func (s *Store) PurgeExpired(_ context.Context, now time.Time) ([]string, error) {
	var all []record
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	var purged []string
	for _, r := range all {
		if !r.session().Expired(now) {
			continue
		}
		if err := s.db.Delete(r.ID, record{}); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			return purged, fmt.Errorf("failed to purge session: %w", err)
		}
		purged = append(purged, r.ID)
	}
	if len(purged) > 0 {
		s.logger.Info().Int("count", len(purged)).Msg("Expired sessions purged")
	}
	return purged, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
