package server

import (
	"net/http"

	"github.com/bobmcallan/marketdesk/internal/models"
)

// handleAdminDashboard handles GET /api/admin/dashboard.
func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.AdminService.Dashboard(r.Context()))
}

// handleAdminUsers handles GET /api/admin/users.
func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	users, err := s.app.AdminService.ListUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}

// handleAdminUserStatus handles PATCH /api/admin/users/{id}/status.
func (s *Server) handleAdminUserStatus(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPatch, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var body struct {
		Status models.UserStatus `json:"status"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}

	user, err := s.app.AdminService.SetUserStatus(r.Context(), id, body.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// handleAdminKYC handles GET /api/admin/kyc?status=pending.
func (s *Server) handleAdminKYC(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	subs, err := s.app.AdminService.ListKYC(r.Context(), models.KYCStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, subs)
}

// handleAdminKYCReview handles POST /api/admin/kyc/{id}/review.
func (s *Server) handleAdminKYCReview(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var review models.KYCReview
	if !DecodeJSON(w, r, &review) {
		return
	}

	sub, err := s.app.AdminService.ReviewKYC(r.Context(), id, review)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, sub)
}

// handleAdminOrders handles GET /api/admin/orders?status=pending.
func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	orders, err := s.app.AdminService.ListOrders(r.Context(), models.OrderStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, orders)
}

// handleAdminOrderDecision handles POST /api/admin/orders/{id}/decision.
func (s *Server) handleAdminOrderDecision(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var d models.Decision
	if !DecodeJSON(w, r, &d) {
		return
	}

	order, err := s.app.AdminService.DecideOrder(r.Context(), id, d)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, order)
}

// handleAdminWithdrawals handles GET /api/admin/withdrawals?status=pending.
func (s *Server) handleAdminWithdrawals(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	list, err := s.app.AdminService.ListWithdrawals(r.Context(), models.WithdrawalStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// handleAdminWithdrawalDecision handles POST /api/admin/withdrawals/{id}/decision.
func (s *Server) handleAdminWithdrawalDecision(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var d models.Decision
	if !DecodeJSON(w, r, &d) {
		return
	}

	wd, err := s.app.AdminService.DecideWithdrawal(r.Context(), id, d)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, wd)
}

// handleAdminWallets handles GET /api/admin/wallets.
func (s *Server) handleAdminWallets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	wallets, err := s.app.AdminService.ListWallets(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, wallets)
}
