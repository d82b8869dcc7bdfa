package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/marketdesk/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/logout", s.handleAuthLogout)
	mux.HandleFunc("/api/auth/session", s.handleAuthSession)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/report", s.handlePortfolioReport)
	mux.HandleFunc("/api/portfolio/chart", s.handlePortfolioChart)

	// Trading
	mux.HandleFunc("/api/products", s.handleProducts)
	mux.HandleFunc("/api/orders/validate", s.handleOrderValidate)
	mux.HandleFunc("/api/orders", s.handleOrders)
	mux.HandleFunc("/api/withdrawals", s.handleWithdrawals)
	mux.HandleFunc("/api/wallets", s.handleWallets)
	mux.HandleFunc("/api/kyc", s.handleKYC)

	// Notifications
	mux.HandleFunc("/api/notifications/ws", s.handleNotificationsWS)
	mux.HandleFunc("/api/notifications/", s.routeNotifications)
	mux.HandleFunc("/api/notifications", s.handleNotificationList)

	// Admin
	mux.HandleFunc("/api/admin/dashboard", s.handleAdminDashboard)
	mux.HandleFunc("/api/admin/users/", s.routeAdminUsers)
	mux.HandleFunc("/api/admin/users", s.handleAdminUsers)
	mux.HandleFunc("/api/admin/kyc/", s.routeAdminKYC)
	mux.HandleFunc("/api/admin/kyc", s.handleAdminKYC)
	mux.HandleFunc("/api/admin/orders/", s.routeAdminOrders)
	mux.HandleFunc("/api/admin/orders", s.handleAdminOrders)
	mux.HandleFunc("/api/admin/withdrawals/", s.routeAdminWithdrawals)
	mux.HandleFunc("/api/admin/withdrawals", s.handleAdminWithdrawals)
	mux.HandleFunc("/api/admin/wallets", s.handleAdminWallets)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// routeNotifications dispatches /api/notifications/{id} and /api/notifications/{id}/read.
func (s *Server) routeNotifications(w http.ResponseWriter, r *http.Request) {
	id, sub := splitSubpath(strings.TrimPrefix(r.URL.Path, "/api/notifications/"))
	if id == "" {
		s.handleNotificationList(w, r)
		return
	}
	switch sub {
	case "":
		s.handleNotificationDismiss(w, r, id)
	case "read":
		s.handleNotificationRead(w, r, id)
	default:
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", CodeNotFound)
	}
}

// routeAdminUsers dispatches /api/admin/users/{id}/status.
func (s *Server) routeAdminUsers(w http.ResponseWriter, r *http.Request) {
	id, sub := splitSubpath(strings.TrimPrefix(r.URL.Path, "/api/admin/users/"))
	if id == "" {
		s.handleAdminUsers(w, r)
		return
	}
	if sub != "status" {
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", CodeNotFound)
		return
	}
	s.handleAdminUserStatus(w, r, id)
}

// routeAdminKYC dispatches /api/admin/kyc/{id}/review.
func (s *Server) routeAdminKYC(w http.ResponseWriter, r *http.Request) {
	id, sub := splitSubpath(strings.TrimPrefix(r.URL.Path, "/api/admin/kyc/"))
	if id == "" {
		s.handleAdminKYC(w, r)
		return
	}
	if sub != "review" {
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", CodeNotFound)
		return
	}
	s.handleAdminKYCReview(w, r, id)
}

// routeAdminOrders dispatches /api/admin/orders/{id}/decision.
func (s *Server) routeAdminOrders(w http.ResponseWriter, r *http.Request) {
	id, sub := splitSubpath(strings.TrimPrefix(r.URL.Path, "/api/admin/orders/"))
	if id == "" {
		s.handleAdminOrders(w, r)
		return
	}
	if sub != "decision" {
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", CodeNotFound)
		return
	}
	s.handleAdminOrderDecision(w, r, id)
}

// routeAdminWithdrawals dispatches /api/admin/withdrawals/{id}/decision.
func (s *Server) routeAdminWithdrawals(w http.ResponseWriter, r *http.Request) {
	id, sub := splitSubpath(strings.TrimPrefix(r.URL.Path, "/api/admin/withdrawals/"))
	if id == "" {
		s.handleAdminWithdrawals(w, r)
		return
	}
	if sub != "decision" {
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", CodeNotFound)
		return
	}
	s.handleAdminWithdrawalDecision(w, r, id)
}
