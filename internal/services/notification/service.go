// Package notification keeps a short per-session notification feed and
// pushes new entries to websocket subscribers.
package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/interfaces"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// MaxPerSession caps the stored feed; the oldest entries are dropped first.
const MaxPerSession = 50

var ErrNotFound = errors.New("notification not found")

// Event is the websocket payload.
type Event struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
	Unread       int                  `json:"unread"`
}

// Service implements interfaces.NotificationService
type Service struct {
	mu        sync.Mutex
	bySession map[string][]models.Notification // newest first
	hub       *Hub
	logger    *common.Logger
	now       func() time.Time
}

var _ interfaces.NotificationService = (*Service)(nil)

// NewService creates a notification service broadcasting through hub.
func NewService(hub *Hub, logger *common.Logger) *Service {
	return &Service{
		bySession: make(map[string][]models.Notification),
		hub:       hub,
		logger:    logger,
		now:       time.Now,
	}
}

// Hub returns the websocket hub.
func (s *Service) Hub() *Hub { return s.hub }

// Notify records a notification for the session in ctx and broadcasts it.
// Anonymous contexts get the notification back but nothing is stored.
func (s *Service) Notify(ctx context.Context, level models.NotificationLevel, title, message string) models.Notification {
	sessionID := common.ResolveSessionID(ctx)
	n := models.Notification{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Level:     level,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
	}
	if sessionID == "" {
		s.logger.Debug().Str("title", title).Msg("Notification without session not stored")
		return n
	}

	s.mu.Lock()
	feed := append([]models.Notification{n}, s.bySession[sessionID]...)
	if len(feed) > MaxPerSession {
		feed = feed[:MaxPerSession]
	}
	s.bySession[sessionID] = feed
	unread := countUnread(feed)
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.BroadcastJSON(sessionID, Event{Type: "notification", Notification: &n, Unread: unread})
	}
	return n
}

// List returns the session's notifications, newest first.
func (s *Service) List(ctx context.Context) []models.Notification {
	sessionID := common.ResolveSessionID(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	feed := s.bySession[sessionID]
	out := make([]models.Notification, len(feed))
	copy(out, feed)
	return out
}

// Unread returns the number of unread notifications for the session.
func (s *Service) Unread(ctx context.Context) int {
	sessionID := common.ResolveSessionID(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return countUnread(s.bySession[sessionID])
}

// MarkRead flags one notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	sessionID := common.ResolveSessionID(ctx)
	s.mu.Lock()
	feed := s.bySession[sessionID]
	found := false
	for i := range feed {
		if feed[i].ID == id {
			feed[i].Read = true
			found = true
			break
		}
	}
	unread := countUnread(feed)
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	if s.hub != nil {
		s.hub.BroadcastJSON(sessionID, Event{Type: "read", Unread: unread})
	}
	return nil
}

// Dismiss removes one notification.
func (s *Service) Dismiss(ctx context.Context, id string) error {
	sessionID := common.ResolveSessionID(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	feed := s.bySession[sessionID]
	for i := range feed {
		if feed[i].ID == id {
			s.bySession[sessionID] = append(feed[:i:i], feed[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ClearSession drops the feed and websocket subscribers of a closed session.
func (s *Service) ClearSession(sessionID string) {
	s.mu.Lock()
	delete(s.bySession, sessionID)
	s.mu.Unlock()
	if s.hub != nil {
		s.hub.CloseSession(sessionID)
	}
}

func countUnread(feed []models.Notification) int {
	n := 0
	for _, f := range feed {
		if !f.Read {
			n++
		}
	}
	return n
}
