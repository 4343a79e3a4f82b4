package handlers

import (
	"crypto/subtle"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/bignash/datahub/internal/services"
)

const paystackSignatureHeader = "x-paystack-signature"

type WebhookHandler struct {
	deposits    DepositEngine
	orders      OrderEngine
	validator   *services.ValidationHelper
	hubnetToken []byte
}

// NewWebhookHandler builds the callback handlers. When hubnetToken is set,
// Hubnet reports must carry it in the token query parameter.
func NewWebhookHandler(deposits DepositEngine, orders OrderEngine, hubnetToken string) *WebhookHandler {
	return &WebhookHandler{
		deposits:    deposits,
		orders:      orders,
		validator:   services.NewValidationHelper(),
		hubnetToken: []byte(hubnetToken),
	}
}

// Paystack receives gateway charge events
// @Summary Paystack webhook
// @Description Signed with HMAC-SHA512 of the raw body in x-paystack-signature
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param x-paystack-signature header string true "Body signature"
// @Success 200 {object} object{received=bool}
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /paystack/webhook [post]
func (h *WebhookHandler) Paystack(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	err = h.deposits.HandleWebhook(r.Context(), payload, r.Header.Get(paystackSignatureHeader))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrSignatureInvalid):
		services.SendErrorResponse(w, "Invalid signature", http.StatusUnauthorized, nil)
		return
	case errors.Is(err, services.ErrGatewayUnavailable):
		// Non-2xx makes the gateway redeliver later.
		services.SendErrorResponse(w, "Failed to process webhook", http.StatusInternalServerError, nil)
		return
	default:
		// Settled outcomes such as a failed or mismatched payment are final.
		log.Printf("[WEBHOOK] Paystack event handled with outcome: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// Hubnet receives delivery reports for data orders
// @Summary Hubnet webhook
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param token query string false "Shared webhook token"
// @Param request body services.FulfillmentCallback true "Delivery report"
// @Success 200 {object} object{received=bool}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /webhooks/hubnet [post]
func (h *WebhookHandler) Hubnet(w http.ResponseWriter, r *http.Request) {
	if len(h.hubnetToken) > 0 {
		token := r.URL.Query().Get(services.HubnetWebhookTokenParam)
		if subtle.ConstantTimeCompare([]byte(token), h.hubnetToken) != 1 {
			log.Printf("[WEBHOOK] Hubnet callback from %s rejected: bad token", r.RemoteAddr)
			services.SendErrorResponse(w, "Invalid webhook token", http.StatusUnauthorized, nil)
			return
		}
	}

	var cb services.FulfillmentCallback
	if err := decodeLenient(w, r, &cb); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := h.validator.ValidateStruct(&cb); err != nil {
		services.SendErrorResponse(w, "Missing transaction reference", http.StatusBadRequest, err)
		return
	}

	if err := h.orders.HandleFulfillmentCallback(r.Context(), cb); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			services.SendErrorResponse(w, "Order not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[WEBHOOK] Hubnet callback for %s failed: %v", cb.Reference, err)
		services.SendErrorResponse(w, "Failed to process webhook", http.StatusInternalServerError, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
