package server

import (
	"net/http"

	"github.com/bobmcallan/marketdesk/internal/models"
	"github.com/bobmcallan/marketdesk/internal/services/notification"
)

type notificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

// handleNotificationList handles GET /api/notifications.
func (s *Server) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	svc := s.app.NotificationService
	WriteJSON(w, http.StatusOK, notificationListResponse{
		Notifications: svc.List(r.Context()),
		Unread:        svc.Unread(r.Context()),
	})
}

// handleNotificationRead handles POST /api/notifications/{id}/read.
func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	if err := s.app.NotificationService.MarkRead(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNotificationDismiss handles DELETE /api/notifications/{id}.
func (s *Server) handleNotificationDismiss(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	if err := s.app.NotificationService.Dismiss(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNotificationsWS upgrades to a websocket that streams this session's
// notifications. The first frame carries the current unread count.
func (s *Server) handleNotificationsWS(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	sc, ok := requireSession(w, r)
	if !ok {
		return
	}

	svc := s.app.NotificationService
	initial := notification.Event{Type: "unread", Unread: svc.Unread(r.Context())}
	svc.Hub().Serve(w, r, sc.SessionID, initial)
}
