package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/bignash/datahub/internal/middleware"
	"github.com/bignash/datahub/internal/models"
	"github.com/bignash/datahub/internal/services"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1_048_576

// DepositEngine is the part of services.DepositService the HTTP layer uses
type DepositEngine interface {
	Initiate(ctx context.Context, accountID string, amount decimal.Decimal) (*services.DepositSession, error)
	Confirm(ctx context.Context, reference string) (*services.DepositResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// OrderEngine is the part of services.OrderService the HTTP layer uses
type OrderEngine interface {
	PlaceOrder(ctx context.Context, req services.PlaceOrderRequest) (*services.PlaceOrderResult, error)
	GetOrder(ctx context.Context, reference string) (*models.Order, error)
	ListOrders(ctx context.Context, accountID string, limit int) ([]models.Order, error)
	HandleFulfillmentCallback(ctx context.Context, cb services.FulfillmentCallback) error
}

// WalletStore gives read access to balances and history
type WalletStore interface {
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
	FindTransaction(ctx context.Context, reference string, txType models.TransactionType) (*models.Transaction, error)
	ListTransactions(ctx context.Context, accountID string, page, limit int) ([]models.Transaction, int, error)
}

type QRRenderer interface {
	CheckoutQR(ctx context.Context, reference, authorizationURL string) (string, error)
	CachedCheckoutQR(ctx context.Context, reference string) (string, error)
}

// money renders an amount as a JSON number with two decimals
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// decodeBody reads exactly one JSON object and validates it. It writes the
// error response itself and reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, validator *services.ValidationHelper, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	if err := validator.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

// decodeLenient accepts unknown fields; third-party callbacks add them freely.
func decodeLenient(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// authorizeAccount checks that the caller acts on their own wallet
func authorizeAccount(w http.ResponseWriter, r *http.Request, accountID string) bool {
	subject, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return false
	}
	if accountID != subject {
		services.SendErrorResponse(w, "Forbidden", http.StatusForbidden, nil)
		return false
	}
	return true
}

// queryAccountID defaults to the caller when accountId is omitted
func queryAccountID(r *http.Request) string {
	if accountID := r.URL.Query().Get("accountId"); accountID != "" {
		return accountID
	}
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	return accountID
}

func queryInt(r *http.Request, key string, def, max int) int {
	val, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || val < 1 {
		return def
	}
	if max > 0 && val > max {
		return max
	}
	return val
}

// sendServiceError maps settlement errors onto HTTP responses
func sendServiceError(w http.ResponseWriter, err error) {
	var bundleErr *services.BundleError

	switch {
	case errors.As(err, &bundleErr):
		services.SendErrorResponse(w, bundleErr.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrInvalidAmount):
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrInsufficientFunds):
		services.SendErrorResponse(w, "Insufficient wallet balance", http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrAccountNotFound):
		services.SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
	case errors.Is(err, services.ErrTransactionNotFound):
		services.SendErrorResponse(w, "Transaction not found", http.StatusNotFound, nil)
	case errors.Is(err, services.ErrOrderNotFound):
		services.SendErrorResponse(w, "Order not found", http.StatusNotFound, nil)
	case errors.Is(err, services.ErrDuplicateReference):
		services.SendErrorResponse(w, "Duplicate reference", http.StatusConflict, nil)
	case errors.Is(err, services.ErrAmountMismatch), errors.Is(err, services.ErrSignatureInvalid):
		services.SendErrorResponse(w, "Payment verification failed", http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrPaymentFailed):
		services.SendErrorResponse(w, "Payment was not successful", http.StatusBadRequest, nil)
	case errors.Is(err, services.ErrPaymentPending):
		services.SendErrorResponse(w, "Payment is still pending", http.StatusAccepted, nil)
	case errors.Is(err, services.ErrGatewayUnavailable):
		services.SendErrorResponse(w, "Payment gateway unavailable, please retry", http.StatusBadGateway, nil)
	case errors.Is(err, services.ErrRefundFailed):
		services.SendErrorResponse(w, "Transaction failed and your refund is pending, please contact support", http.StatusInternalServerError, nil)
	case errors.Is(err, services.ErrFulfillmentFailed):
		services.SendErrorResponse(w, "Transaction failed, your wallet has been refunded", http.StatusBadGateway, nil)
	default:
		log.Printf("[HTTP] Unhandled error: %v", err)
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
	}
}
