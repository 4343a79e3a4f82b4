package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/bignash/datahub/internal/models"
	"github.com/bignash/datahub/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// maxPage bounds the history page, and with it the OFFSET
const maxPage = 10_000

type WalletHandler struct {
	deposits  DepositEngine
	wallet    WalletStore
	qr        QRRenderer
	validator *services.ValidationHelper
}

func NewWalletHandler(deposits DepositEngine, wallet WalletStore, qr QRRenderer) *WalletHandler {
	return &WalletHandler{
		deposits:  deposits,
		wallet:    wallet,
		qr:        qr,
		validator: services.NewValidationHelper(),
	}
}

type AddFundsRequest struct {
	AccountID string          `json:"accountId" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required,gt=0" swaggertype:"number"`
	IncludeQR bool            `json:"includeQr"`
}

// AddFunds starts a wallet deposit
// @Summary Add funds
// @Description Initialize a Paystack checkout for a wallet top-up (GHS 1.00 to 10,000.00)
// @Tags Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddFundsRequest true "Deposit request"
// @Success 200 {object} object{success=bool,authorizationUrl=string,reference=string,amount=number,qrImage=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 502 {object} services.ErrorResponse
// @Router /wallet/add-funds [post]
func (h *WalletHandler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req AddFundsRequest
	if !decodeBody(w, r, h.validator, &req) {
		return
	}
	if !authorizeAccount(w, r, req.AccountID) {
		return
	}

	session, err := h.deposits.Initiate(r.Context(), req.AccountID, req.Amount)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	resp := map[string]any{
		"success":          true,
		"authorizationUrl": session.AuthorizationURL,
		"accessCode":       session.AccessCode,
		"reference":        session.Reference,
		"amount":           money(session.Amount),
	}

	if req.IncludeQR {
		qrImage, err := h.qr.CheckoutQR(r.Context(), session.Reference, session.AuthorizationURL)
		if err != nil {
			log.Printf("[WALLET] QR generation failed for %s: %v", session.Reference, err)
		} else {
			resp["qrImage"] = qrImage
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// VerifyPayment confirms a deposit after the checkout redirect
// @Summary Verify payment
// @Description Verify a deposit with the gateway and credit the wallet once
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param reference query string true "Gateway reference"
// @Success 200 {object} object{success=bool,balance=number,alreadyProcessed=bool}
// @Success 202 {object} services.ErrorResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 502 {object} services.ErrorResponse
// @Router /wallet/verify-payment [get]
func (h *WalletHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		services.SendErrorResponse(w, "No reference provided", http.StatusBadRequest, nil)
		return
	}

	tx, err := h.wallet.FindTransaction(r.Context(), reference, models.TransactionDeposit)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	if !authorizeAccount(w, r, tx.AccountID) {
		return
	}

	result, err := h.deposits.Confirm(r.Context(), reference)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"message":          "Payment verified successfully",
		"reference":        result.Reference,
		"amount":           money(result.Amount),
		"balance":          money(result.Balance),
		"alreadyProcessed": result.AlreadyProcessed,
	})
}

// Balance returns the wallet balance
// @Summary Wallet balance
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param accountId query string false "Account id (defaults to the caller)"
// @Success 200 {object} object{success=bool,balance=number,currency=string}
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID := queryAccountID(r)
	if !authorizeAccount(w, r, accountID) {
		return
	}

	balance, err := h.wallet.Balance(r.Context(), accountID)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"balance":  money(balance),
		"currency": models.CurrencyGHS,
	})
}

// Transactions lists wallet history
// @Summary Transaction history
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param accountId query string false "Account id (defaults to the caller)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} object{success=bool,transactions=[]models.Transaction,pagination=object}
// @Failure 403 {object} services.ErrorResponse
// @Router /wallet/transactions [get]
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	accountID := queryAccountID(r)
	if !authorizeAccount(w, r, accountID) {
		return
	}

	page := queryInt(r, "page", 1, maxPage)
	limit := queryInt(r, "limit", 20, 100)

	transactions, total, err := h.wallet.ListTransactions(r.Context(), accountID, page, limit)
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": transactions,
		"pagination": map[string]int{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": (total + limit - 1) / limit,
		},
	})
}

// CheckoutQR returns the cached QR image of a pending checkout
// @Summary Checkout QR
// @Tags Wallet
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Gateway reference"
// @Success 200 {object} object{success=bool,qrImage=string}
// @Failure 404 {object} services.ErrorResponse
// @Router /wallet/checkout-qr/{reference} [get]
func (h *WalletHandler) CheckoutQR(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	tx, err := h.wallet.FindTransaction(r.Context(), reference, models.TransactionDeposit)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	if !authorizeAccount(w, r, tx.AccountID) {
		return
	}

	qrImage, err := h.qr.CachedCheckoutQR(r.Context(), reference)
	if errors.Is(err, services.ErrQRNotFound) {
		services.SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
		return
	}
	if err != nil {
		sendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"qrImage": qrImage,
	})
}
