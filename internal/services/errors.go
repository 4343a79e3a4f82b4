package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidBundle       = errors.New("invalid bundle")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateReference  = errors.New("duplicate reference")
	ErrAlreadyProcessed    = errors.New("already processed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrProviderUnavailable = errors.New("fulfillment provider unavailable")
	ErrFulfillmentFailed   = errors.New("fulfillment failed")
	ErrRefundFailed        = errors.New("refund failed")
	ErrAmountMismatch      = errors.New("amount mismatch")
	ErrSignatureInvalid    = errors.New("invalid signature")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrPaymentFailed       = errors.New("payment was not successful")
	ErrPaymentPending      = errors.New("payment is still pending")
)

// BundleError carries the catalog check that rejected an order
type BundleError struct {
	Reason    string
	Canonical decimal.Decimal
	Claimed   decimal.Decimal
}

func (e *BundleError) Error() string {
	if e.Reason == ReasonPriceMismatch {
		return fmt.Sprintf("%s: %s (expected %s, got %s)", ErrInvalidBundle, e.Reason,
			e.Canonical.StringFixed(2), e.Claimed.StringFixed(2))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidBundle, e.Reason)
}

func (e *BundleError) Unwrap() error {
	return ErrInvalidBundle
}
