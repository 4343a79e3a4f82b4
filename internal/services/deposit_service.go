package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bignash/datahub/internal/audit"
	"github.com/bignash/datahub/internal/config"
	"github.com/bignash/datahub/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Paystack webhook events handled by the deposit engine
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

const webhookMarkerTTL = 24 * time.Hour

// DepositSession is what the client needs to complete a payment
type DepositSession struct {
	AuthorizationURL string          `json:"authorizationUrl"`
	AccessCode       string          `json:"accessCode"`
	Reference        string          `json:"reference"`
	Amount           decimal.Decimal `json:"amount"`
}

// DepositResult reports a settled deposit. Balance is re-read after settlement.
type DepositResult struct {
	Reference        string          `json:"reference"`
	AccountID        string          `json:"accountId"`
	Amount           decimal.Decimal `json:"amount"`
	Balance          decimal.Decimal `json:"balance"`
	AlreadyProcessed bool            `json:"alreadyProcessed"`
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference       string `json:"reference"`
		Status          string `json:"status"`
		GatewayResponse string `json:"gateway_response"`
	} `json:"data"`
}

// DepositService funds wallets through the payment gateway. The verify poll
// and the gateway webhook both settle through Confirm, so a deposit is credited
// at most once no matter how many times it is confirmed.
type DepositService struct {
	ledger        LedgerStore
	gateway       PaymentGateway
	events        audit.Emitter
	redis         *redis.Client
	secretKey     string
	minAmount     decimal.Decimal
	maxAmount     decimal.Decimal
	verifyTimeout time.Duration
}

func NewDepositService(ledger LedgerStore, gateway PaymentGateway, events audit.Emitter, redisClient *redis.Client, cfg *config.Config) *DepositService {
	return &DepositService{
		ledger:        ledger,
		gateway:       gateway,
		events:        events,
		redis:         redisClient,
		secretKey:     cfg.Paystack.SecretKey,
		minAmount:     cfg.Deposit.MinAmount,
		maxAmount:     cfg.Deposit.MaxAmount,
		verifyTimeout: cfg.Paystack.Timeout,
	}
}

func (s *DepositService) validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: at most two decimal places allowed", ErrInvalidAmount)
	}
	if amount.LessThan(s.minAmount) {
		return fmt.Errorf("%w: minimum deposit is %s", ErrInvalidAmount, s.minAmount.StringFixed(2))
	}
	if amount.GreaterThan(s.maxAmount) {
		return fmt.Errorf("%w: maximum deposit is %s", ErrInvalidAmount, s.maxAmount.StringFixed(2))
	}
	return nil
}

// Initiate opens a gateway checkout and records a pending deposit keyed by the
// gateway reference.
func (s *DepositService) Initiate(ctx context.Context, accountID string, amount decimal.Decimal) (*DepositSession, error) {
	if err := s.validateAmount(amount); err != nil {
		return nil, err
	}

	account, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	session, err := s.gateway.Initialize(gatewayCtx, InitializeRequest{
		Email:    account.Email,
		Amount:   amount,
		Metadata: map[string]any{"accountId": accountID},
	})
	if err != nil {
		log.Printf("[DEPOSIT] Gateway initialize failed for account %s: %v", accountID, err)
		if !errors.Is(err, ErrGatewayUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		return nil, err
	}

	err = s.ledger.RecordTransaction(ctx, &models.Transaction{
		AccountID:   accountID,
		Type:        models.TransactionDeposit,
		Amount:      amount,
		Currency:    models.CurrencyGHS,
		Reference:   session.Reference,
		Status:      models.TransactionPending,
		Description: "Wallet deposit via Paystack",
		Metadata: models.Metadata{
			"source":        "paystack",
			"initialAmount": amount.StringFixed(2),
			"accessCode":    session.AccessCode,
		},
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventDepositInitiated,
		Reference: session.Reference,
		AccountID: accountID,
		Amount:    amount.StringFixed(2),
		Status:    string(models.TransactionPending),
	})

	return &DepositSession{
		AuthorizationURL: session.AuthorizationURL,
		AccessCode:       session.AccessCode,
		Reference:        session.Reference,
		Amount:           amount,
	}, nil
}

// Confirm settles a deposit once the gateway reports it paid. Safe to call any
// number of times, concurrently, for the same reference.
func (s *DepositService) Confirm(ctx context.Context, reference string) (*DepositResult, error) {
	tx, err := s.ledger.FindTransaction(ctx, reference, models.TransactionDeposit)
	if err != nil {
		return nil, err
	}

	switch tx.Status {
	case models.TransactionCompleted:
		return s.settledResult(ctx, tx, true)
	case models.TransactionFailed:
		return nil, ErrPaymentFailed
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	verified, err := s.gateway.Verify(gatewayCtx, reference)
	if err != nil {
		log.Printf("[DEPOSIT] Verification of %s failed: %v", reference, err)
		if !errors.Is(err, ErrGatewayUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		return nil, err
	}

	switch verified.Status {
	case GatewayStatusSuccess:
	case GatewayStatusFailed, GatewayStatusAbandoned, GatewayStatusReversed:
		s.fail(ctx, tx, "payment "+verified.Status)
		return nil, ErrPaymentFailed
	default:
		return nil, ErrPaymentPending
	}

	if mismatch := verifiedMismatch(tx, verified); mismatch != "" {
		s.fail(ctx, tx, mismatch)
		s.events.Emit(ctx, audit.SecurityEvent(reference, tx.AccountID, mismatch, map[string]string{
			"expected":          tx.Amount.StringFixed(2),
			"received":          verified.Amount.StringFixed(2),
			"currency":          verified.Currency,
			"verifiedReference": verified.Reference,
		}))
		return nil, ErrAmountMismatch
	}

	settled, err := s.ledger.SettleDeposit(ctx, reference)
	if errors.Is(err, ErrAlreadyProcessed) {
		// Lost the race; report whatever the winner decided.
		current, findErr := s.ledger.FindTransaction(ctx, reference, models.TransactionDeposit)
		if findErr != nil {
			return nil, findErr
		}
		if current.Status != models.TransactionCompleted {
			return nil, ErrPaymentFailed
		}
		return s.settledResult(ctx, current, true)
	}
	if err != nil {
		s.events.Emit(ctx, audit.ErrorEvent(reference, tx.AccountID, err))
		return nil, err
	}

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventDepositSettled,
		Reference: reference,
		AccountID: settled.AccountID,
		Amount:    settled.Amount.StringFixed(2),
		Status:    string(settled.Status),
	})
	return s.settledResult(ctx, settled, false)
}

// verifiedMismatch compares what the gateway verified with what was recorded
// at initiation and names the first difference.
func verifiedMismatch(tx *models.Transaction, verified *VerifyResult) string {
	if verified.Reference != tx.Reference {
		return "reference mismatch"
	}
	currency := tx.Currency
	if currency == "" {
		currency = models.CurrencyGHS
	}
	if !strings.EqualFold(verified.Currency, currency) {
		return "currency mismatch"
	}
	if verified.Amount.Sub(tx.Amount).Abs().GreaterThan(PriceTolerance) {
		return "amount mismatch"
	}
	return ""
}

func (s *DepositService) settledResult(ctx context.Context, tx *models.Transaction, alreadyProcessed bool) (*DepositResult, error) {
	balance, err := s.ledger.Balance(ctx, tx.AccountID)
	if err != nil {
		return nil, err
	}
	return &DepositResult{
		Reference:        tx.Reference,
		AccountID:        tx.AccountID,
		Amount:           tx.Amount,
		Balance:          balance,
		AlreadyProcessed: alreadyProcessed,
	}, nil
}

func (s *DepositService) fail(ctx context.Context, tx *models.Transaction, reason string) {
	_, err := s.ledger.FinalizeTransaction(ctx, tx.Reference, models.TransactionDeposit,
		models.TransactionPending, models.TransactionFailed, reason)
	if errors.Is(err, ErrAlreadyProcessed) {
		return
	}
	if err != nil {
		log.Printf("[DEPOSIT] Failed to mark %s failed: %v", tx.Reference, err)
		return
	}
	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventDepositFailed,
		Reference: tx.Reference,
		AccountID: tx.AccountID,
		Amount:    tx.Amount.StringFixed(2),
		Status:    string(models.TransactionFailed),
		Details:   map[string]string{"reason": reason},
	})
}

// ManualCredit is the operator top-up: it credits the wallet directly without
// a gateway charge and records a completed deposit under a fresh reference.
func (s *DepositService) ManualCredit(ctx context.Context, accountID string, amount decimal.Decimal, description, operatorID string) (*DepositResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, fmt.Errorf("%w: at most two decimal places allowed", ErrInvalidAmount)
	}
	if description == "" {
		description = "Manual credit by " + operatorID
	}

	tx, err := s.ledger.RecordCredit(ctx, &models.Transaction{
		AccountID:   accountID,
		Type:        models.TransactionDeposit,
		Amount:      amount,
		Currency:    models.CurrencyGHS,
		Reference:   "admin-deposit-" + uuid.NewString(),
		Description: description,
		Metadata:    models.Metadata{"operatorId": operatorID},
	})
	if err != nil {
		return nil, err
	}

	details := map[string]string{"operatorId": operatorID}
	if tx.BalanceBefore != nil {
		details["previousBalance"] = tx.BalanceBefore.StringFixed(2)
	}
	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventManualCredit,
		Reference: tx.Reference,
		AccountID: accountID,
		Amount:    amount.StringFixed(2),
		Status:    string(tx.Status),
		Details:   details,
	})

	result := &DepositResult{Reference: tx.Reference, AccountID: accountID, Amount: amount}
	if tx.BalanceAfter != nil {
		result.Balance = *tx.BalanceAfter
	}
	return result, nil
}

// MarkFailed records a failed charge reported by the gateway
func (s *DepositService) MarkFailed(ctx context.Context, reference, reason string) error {
	tx, err := s.ledger.FinalizeTransaction(ctx, reference, models.TransactionDeposit,
		models.TransactionPending, models.TransactionFailed, reason)
	if errors.Is(err, ErrAlreadyProcessed) {
		return nil
	}
	if err != nil {
		return err
	}

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventDepositFailed,
		Reference: reference,
		AccountID: tx.AccountID,
		Amount:    tx.Amount.StringFixed(2),
		Status:    string(models.TransactionFailed),
		Details:   map[string]string{"reason": reason},
	})
	return nil
}

// VerifyWebhookSignature checks the hex HMAC-SHA512 of the raw body
func (s *DepositService) VerifyWebhookSignature(payload []byte, signature string) error {
	if signature == "" || s.secretKey == "" {
		return ErrSignatureInvalid
	}

	mac := hmac.New(sha512.New, []byte(s.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return ErrSignatureInvalid
	}
	return nil
}

// HandleWebhook authenticates and applies a gateway event. Redeliveries are
// skipped through a Redis marker; settlement stays correct without it.
func (s *DepositService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := s.VerifyWebhookSignature(payload, signature); err != nil {
		s.events.Emit(ctx, audit.SecurityEvent("", "", "invalid webhook signature", nil))
		return err
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to decode webhook: %w", err)
	}
	reference := event.Data.Reference

	s.events.Emit(ctx, audit.AuditEvent{
		EventType: audit.EventWebhookReceived,
		Reference: reference,
		Status:    event.Data.Status,
		Details:   map[string]string{"event": event.Event},
	})

	if event.Event != EventChargeSuccess && event.Event != EventChargeFailed {
		log.Printf("[WEBHOOK] Ignoring %s for %s", event.Event, reference)
		return nil
	}
	if reference == "" {
		return fmt.Errorf("%w: webhook without reference", ErrTransactionNotFound)
	}

	marker := fmt.Sprintf("paystack:webhook:%s:%s", event.Event, reference)
	if s.redis != nil {
		fresh, err := s.redis.SetNX(ctx, marker, "processing", webhookMarkerTTL).Result()
		if err != nil {
			log.Printf("[WEBHOOK] Dedupe marker unavailable for %s: %v", reference, err)
		} else if !fresh {
			log.Printf("[WEBHOOK] Duplicate %s for %s skipped", event.Event, reference)
			return nil
		}
	}

	var err error
	switch event.Event {
	case EventChargeSuccess:
		_, err = s.Confirm(ctx, reference)
	case EventChargeFailed:
		reason := event.Data.GatewayResponse
		if reason == "" {
			reason = "payment failed"
		}
		err = s.MarkFailed(ctx, reference, reason)
	}

	if err != nil && s.redis != nil {
		if delErr := s.redis.Del(ctx, marker).Err(); delErr != nil {
			log.Printf("[WEBHOOK] Failed to release marker for %s: %v", reference, delErr)
		}
	}
	return err
}
