package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bignash/datahub/internal/audit"
	"github.com/bignash/datahub/internal/config"
	"github.com/bignash/datahub/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	AccountID    string
	PhoneNumber  string
	Network      string
	DataAmountMB int
	Price        decimal.Decimal
	Reference    string
}

type PlaceOrderResult struct {
	Order   *models.Order
	Balance decimal.Decimal
}

// FulfillmentCallback is the provider's asynchronous delivery report
type FulfillmentCallback struct {
	Reference string `json:"reference" validate:"required"`
	Status    string `json:"status" validate:"required"`
	Message   string `json:"message"`
}

// OrderService sells bundles out of the wallet. The price is debited before
// the provider is called and refunded only after the provider has answered.
type OrderService struct {
	ledger          LedgerStore
	catalog         *Catalog
	provider        FulfillmentProvider
	events          audit.Emitter
	providerTimeout time.Duration
}

func NewOrderService(ledger LedgerStore, catalog *Catalog, provider FulfillmentProvider, events audit.Emitter, cfg *config.Config) *OrderService {
	return &OrderService{
		ledger:          ledger,
		catalog:         catalog,
		provider:        provider,
		events:          events,
		providerTimeout: cfg.Hubnet.Timeout,
	}
}

func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	check := s.catalog.Validate(req.Network, req.DataAmountMB, req.Price)
	if err := check.Err(); err != nil {
		log.Printf("[ORDER] Rejected %s %dMB at %s for account %s: %s", req.Network, req.DataAmountMB,
			req.Price.StringFixed(2), req.AccountID, check.Reason)
		return nil, err
	}

	reference := req.Reference
	if reference == "" {
		reference = generateReference(check.Network)
	}

	order := &models.Order{
		AccountID:    req.AccountID,
		Network:      check.Network,
		DataAmountMB: req.DataAmountMB,
		Price:        check.CanonicalPrice,
		PhoneNumber:  req.PhoneNumber,
		Reference:    reference,
	}

	if _, err := s.ledger.ReserveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventOrderPlaced,
		Reference: reference,
		AccountID: order.AccountID,
		Amount:    order.Price.StringFixed(2),
		Status:    string(order.Status),
		Details:   map[string]any{"network": order.Network, "dataAmountMB": order.DataAmountMB},
	})

	// The wallet is already debited; a disconnecting client must not abandon
	// the settlement halfway.
	settleCtx := context.WithoutCancel(ctx)

	if !order.Network.RequiresFulfillment() {
		return s.complete(settleCtx, order, "")
	}

	if err := s.ledger.MarkOrderProcessing(settleCtx, reference); err != nil {
		log.Printf("[ORDER] Could not mark %s processing: %v", reference, err)
	}

	submitCtx, cancel := context.WithTimeout(settleCtx, s.providerTimeout)
	result, err := s.provider.Submit(submitCtx, FulfillmentRequest{
		Network:     order.Network,
		PhoneNumber: order.PhoneNumber,
		VolumeMB:    order.DataAmountMB,
		Reference:   reference,
	})
	cancel()

	if err != nil {
		if !errors.Is(err, ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		if refundErr := s.refund(settleCtx, order, err.Error()); refundErr != nil {
			return nil, fmt.Errorf("%w: %w", refundErr, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrFulfillmentFailed, err)
	}

	return s.complete(settleCtx, order, result.TransactionID)
}

func (s *OrderService) complete(ctx context.Context, order *models.Order, providerTxID string) (*PlaceOrderResult, error) {
	completed, err := s.ledger.CompleteOrder(ctx, order.Reference, providerTxID)
	if errors.Is(err, ErrAlreadyProcessed) {
		// A provider callback got there first.
		completed, err = s.ledger.FindOrder(ctx, order.Reference)
	}
	if err != nil {
		s.events.Emit(ctx, audit.ErrorEvent(order.Reference, order.AccountID, err))
		return nil, err
	}

	if completed.Status == models.OrderFailed {
		// A failure report refunded the order while the provider was still
		// answering; the wallet keeps the refund.
		s.events.Emit(ctx, audit.SecurityEvent(order.Reference, order.AccountID,
			"provider success after refund", map[string]string{"transactionId": providerTxID}))
		return nil, fmt.Errorf("%w: order %s was refunded before delivery was confirmed", ErrFulfillmentFailed, order.Reference)
	}

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventOrderCompleted,
		Reference: order.Reference,
		AccountID: order.AccountID,
		Amount:    order.Price.StringFixed(2),
		Status:    string(completed.Status),
		Details:   map[string]string{"transactionId": providerTxID},
	})

	balance, err := s.ledger.Balance(ctx, order.AccountID)
	if err != nil {
		return nil, err
	}
	return &PlaceOrderResult{Order: completed, Balance: balance}, nil
}

// refund credits a failed order back. An order that was already refunded is
// not an error; any other failure leaves the wallet debited and is returned
// wrapped in ErrRefundFailed so the caller can report it.
func (s *OrderService) refund(ctx context.Context, order *models.Order, reason string) error {
	refund, err := s.ledger.RefundOrder(ctx, order.Reference, reason)
	if errors.Is(err, ErrAlreadyProcessed) {
		log.Printf("[ORDER] Order %s already refunded", order.Reference)
		return nil
	}
	if err != nil {
		log.Printf("[ORDER] Refund of %s failed: %v", order.Reference, err)
		s.events.Emit(ctx, audit.ErrorEvent(order.Reference, order.AccountID, err))
		return fmt.Errorf("%w: %w", ErrRefundFailed, err)
	}

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventOrderRefunded,
		Reference: order.Reference,
		AccountID: order.AccountID,
		Amount:    refund.Amount.StringFixed(2),
		Status:    string(models.OrderFailed),
		Details:   map[string]string{"reason": reason},
	})
	return nil
}

// FailOrder is the operator override: it marks the order failed and refunds
// the price, including for an order that was already reported delivered.
// Failing an order twice refunds it once.
func (s *OrderService) FailOrder(ctx context.Context, reference, reason, operatorID string) (*models.Order, error) {
	order, err := s.ledger.FindOrder(ctx, reference)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "Failed by operator"
	}

	if order.Status.CanTransitionTo(models.OrderFailed) {
		log.Printf("[ORDER] Operator %s failing order %s: %s", operatorID, reference, reason)
		if err := s.refund(ctx, order, reason); err != nil {
			return nil, err
		}
	}

	return s.ledger.FindOrder(ctx, reference)
}

func (s *OrderService) GetOrder(ctx context.Context, reference string) (*models.Order, error) {
	return s.ledger.FindOrder(ctx, reference)
}

func (s *OrderService) ListOrders(ctx context.Context, accountID string, limit int) ([]models.Order, error) {
	return s.ledger.ListOrders(ctx, accountID, limit)
}

// HandleFulfillmentCallback applies a provider delivery report. Repeated or
// late reports never refund twice.
func (s *OrderService) HandleFulfillmentCallback(ctx context.Context, cb FulfillmentCallback) error {
	order, err := s.ledger.FindOrder(ctx, cb.Reference)
	if err != nil {
		return err
	}

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventWebhookReceived,
		Reference: cb.Reference,
		AccountID: order.AccountID,
		Status:    cb.Status,
		Details:   map[string]string{"source": "hubnet", "message": cb.Message},
	})

	switch strings.ToLower(cb.Status) {
	case "success", "successful", "completed", "delivered":
		if !order.Status.CanTransitionTo(models.OrderCompleted) {
			if order.Status == models.OrderFailed {
				s.events.Emit(ctx, audit.SecurityEvent(cb.Reference, order.AccountID,
					"success reported for refunded order", map[string]string{"message": cb.Message}))
			}
			return nil
		}
		_, err := s.complete(ctx, order, "")
		if errors.Is(err, ErrFulfillmentFailed) {
			return nil
		}
		return err

	case "failed", "failure", "error":
		if !order.Status.CanTransitionTo(models.OrderFailed) {
			return nil
		}
		reason := cb.Message
		if reason == "" {
			reason = "Transaction failed"
		}
		return s.refund(ctx, order, reason)

	default:
		log.Printf("[ORDER] Callback for %s with status %q acknowledged", cb.Reference, cb.Status)
		return nil
	}
}

func generateReference(network models.Network) string {
	if network == models.NetworkAFARegistration {
		return "AFA-" + uuid.NewString()
	}
	return "DATA-" + uuid.NewString()
}
