package server

import (
	"net/http"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// loginResponse carries the session ID the client sends back as its bearer token.
type loginResponse struct {
	Token   string          `json:"token"`
	Session *models.Session `json:"session"`
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var creds models.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}

	sess, err := s.app.SessionService.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	ctx := common.WithSession(r.Context(), &common.SessionContext{SessionID: sess.ID, UserID: sess.UserID})
	s.app.NotificationService.Notify(ctx, models.NotificationSuccess, "Signed in", "Welcome back, "+sess.Email)

	WriteJSON(w, http.StatusOK, loginResponse{Token: sess.ID, Session: sess})
}

// handleAuthLogout handles POST /api/auth/logout.
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	sc, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := s.app.SessionService.Logout(r.Context(), sc.SessionID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// handleAuthSession handles GET /api/auth/session.
func (s *Server) handleAuthSession(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	sc, ok := requireSession(w, r)
	if !ok {
		return
	}

	sess, err := s.app.SessionService.Get(r.Context(), sc.SessionID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, sess)
}
