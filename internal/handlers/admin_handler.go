package handlers

import (
	"context"
	"net/http"

	"github.com/bignash/datahub/internal/middleware"
	"github.com/bignash/datahub/internal/models"
	"github.com/bignash/datahub/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// OrderOperator is the operator side of services.OrderService
type OrderOperator interface {
	FailOrder(ctx context.Context, reference, reason, operatorID string) (*models.Order, error)
}

// WalletOperator is the operator side of services.DepositService
type WalletOperator interface {
	ManualCredit(ctx context.Context, accountID string, amount decimal.Decimal, description, operatorID string) (*services.DepositResult, error)
}

// AdminHandler serves operator overrides. Routes are mounted behind
// middleware.RequireRole.
type AdminHandler struct {
	orders    OrderOperator
	wallets   WalletOperator
	validator *services.ValidationHelper
}

func NewAdminHandler(orders OrderOperator, wallets WalletOperator) *AdminHandler {
	return &AdminHandler{
		orders:    orders,
		wallets:   wallets,
		validator: services.NewValidationHelper(),
	}
}

type FailOrderRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

type CreditWalletRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0" swaggertype:"number"`
	Description string          `json:"description" validate:"max=255"`
}

// FailOrder marks an order failed and refunds its price
// @Summary Fail order
// @Description Operator override; refunds the wallet once even when the order was reported delivered
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Order reference"
// @Param request body FailOrderRequest true "Failure reason"
// @Success 200 {object} object{success=bool,order=models.Order}
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /admin/orders/{reference}/fail [post]
func (h *AdminHandler) FailOrder(w http.ResponseWriter, r *http.Request) {
	var req FailOrderRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	operatorID, _ := middleware.AccountIDFromContext(r.Context())
	order, err := h.orders.FailOrder(r.Context(), chi.URLParam(r, "reference"), req.Reason, operatorID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   order,
	})
}

// CreditWallet tops up a wallet without a gateway charge
// @Summary Credit wallet
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param accountId path string true "Account id"
// @Param request body CreditWalletRequest true "Credit"
// @Success 200 {object} object{success=bool,reference=string,amount=number,balance=number}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /admin/accounts/{accountId}/credit [post]
func (h *AdminHandler) CreditWallet(w http.ResponseWriter, r *http.Request) {
	var req CreditWalletRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}

	operatorID, _ := middleware.AccountIDFromContext(r.Context())
	result, err := h.wallets.ManualCredit(r.Context(), chi.URLParam(r, "accountId"), req.Amount, req.Description, operatorID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Deposit successful",
		"reference": result.Reference,
		"amount":    money(result.Amount),
		"balance":   money(result.Balance),
	})
}
