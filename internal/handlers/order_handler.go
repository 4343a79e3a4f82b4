package handlers

import (
	"net/http"

	"github.com/bignash/datahub/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orders    OrderEngine
	validator *services.ValidationHelper
}

func NewOrderHandler(orders OrderEngine) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		validator: services.NewValidationHelper(),
	}
}

type PlaceOrderRequest struct {
	AccountID    string          `json:"accountId" validate:"required"`
	PhoneNumber  string          `json:"phoneNumber" validate:"required,numeric,len=10"`
	Network      string          `json:"network" validate:"required"`
	DataAmountMB int             `json:"dataAmountMB" validate:"gte=0"`
	Price        decimal.Decimal `json:"price" validate:"required,gt=0" swaggertype:"number"`
	Reference    string          `json:"reference" validate:"omitempty,max=64"`
}

// PlaceOrder buys a data bundle from the wallet
// @Summary Place order
// @Description Debit the wallet at the catalog price and submit the bundle for delivery. Failed deliveries are refunded.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceOrderRequest true "Order request"
// @Success 200 {object} object{success=bool,orderId=string,reference=string,status=string,balance=number}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 502 {object} services.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}
	if !authorizeAccount(w, r, req.AccountID) {
		return
	}

	result, err := h.orders.PlaceOrder(r.Context(), services.PlaceOrderRequest{
		AccountID:    req.AccountID,
		PhoneNumber:  req.PhoneNumber,
		Network:      req.Network,
		DataAmountMB: req.DataAmountMB,
		Price:        req.Price,
		Reference:    req.Reference,
	})
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Data bundle purchased successfully",
		"orderId":   result.Order.ID,
		"reference": result.Order.Reference,
		"status":    result.Order.Status,
		"balance":   money(result.Balance),
	})
}

// GetOrder returns an order's status
// @Summary Order status
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Order reference"
// @Success 200 {object} object{success=bool,order=models.Order}
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /orders/{reference} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		sendServiceError(w, err)
		return
	}
	if !authorizeAccount(w, r, order.AccountID) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   order,
	})
}

// ListOrders returns the caller's recent orders
// @Summary List orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param accountId query string false "Account id (defaults to the caller)"
// @Param limit query int false "Maximum orders" default(20)
// @Success 200 {object} object{success=bool,orders=[]models.Order}
// @Failure 403 {object} services.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	accountID := queryAccountID(r)
	if !authorizeAccount(w, r, accountID) {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), accountID, queryInt(r, "limit", 20, 100))
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
	})
}
