package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

// rejectedOrderResponse is returned with 422 when pre-validation blocks an order.
type rejectedOrderResponse struct {
	Error      string                  `json:"error"`
	Code       string                  `json:"code"`
	Validation *models.OrderValidation `json:"validation"`
}

type placedOrderResponse struct {
	Order      *models.Order           `json:"order"`
	Validation *models.OrderValidation `json:"validation"`
}

// handleProducts handles GET /api/products.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	products, err := s.app.Client.ListProducts(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, products)
}

// handleOrderValidate handles POST /api/orders/validate. It never submits.
func (s *Server) handleOrderValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	var req models.OrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	v, err := s.app.TradingService.Validate(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, v)
}

// handleOrders handles GET /api/orders (list) and POST /api/orders (place).
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	if r.Method == http.MethodGet {
		orders, err := s.app.Client.ListOrders(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, orders)
		return
	}

	var req models.OrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, v, err := s.app.TradingService.PlaceOrder(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !v.Valid {
		WriteJSON(w, http.StatusUnprocessableEntity, rejectedOrderResponse{
			Error:      strings.Join(v.Errors, "; "),
			Code:       CodeValidation,
			Validation: v,
		})
		return
	}

	s.app.NotificationService.Notify(r.Context(), models.NotificationSuccess, "Order submitted",
		fmt.Sprintf("%s %s x%s is pending review", strings.ToUpper(string(order.Side)), order.ProductID, trimFloat(order.Quantity)))
	WriteJSON(w, http.StatusCreated, placedOrderResponse{Order: order, Validation: v})
}

// handleWithdrawals handles GET and POST /api/withdrawals.
func (s *Server) handleWithdrawals(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	if r.Method == http.MethodGet {
		list, err := s.app.Client.ListWithdrawals(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, list)
		return
	}

	var req models.WithdrawalRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.WalletID == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "walletId is required", CodeInvalidInput)
		return
	}
	if req.Amount <= 0 {
		WriteErrorWithCode(w, http.StatusBadRequest, "amount must be greater than zero", CodeInvalidInput)
		return
	}

	wd, err := s.app.Client.RequestWithdrawal(r.Context(), req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.app.NotificationService.Notify(r.Context(), models.NotificationInfo, "Withdrawal requested",
		fmt.Sprintf("Withdrawal of %s is pending review", common.FormatCurrencyValue(wd.Amount)))
	WriteJSON(w, http.StatusCreated, wd)
}

// handleWallets handles GET /api/wallets.
func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	wallets, err := s.app.Client.ListWallets(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, wallets)
}

// handleKYC handles POST /api/kyc.
func (s *Server) handleKYC(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	var sub models.KYCSubmission
	if !DecodeJSON(w, r, &sub) {
		return
	}
	if strings.TrimSpace(sub.DocumentType) == "" || strings.TrimSpace(sub.DocumentNumber) == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "documentType and documentNumber are required", CodeInvalidInput)
		return
	}

	saved, err := s.app.Client.SubmitKYC(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.app.NotificationService.Notify(r.Context(), models.NotificationInfo, "KYC submitted",
		"Your documents are awaiting review")
	WriteJSON(w, http.StatusCreated, saved)
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
