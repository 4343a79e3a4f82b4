package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyGHS is the only currency wallets are held in
const CurrencyGHS = "GHS"

// TransactionType identifies the kind of balance change a Transaction records
type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionPurchase TransactionType = "purchase"
	TransactionRefund   TransactionType = "refund"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionPurchase, TransactionRefund:
		return true
	}
	return false
}

// TransactionStatus is the settlement state of a Transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed
func (s TransactionStatus) Terminal() bool {
	return s == TransactionCompleted || s == TransactionFailed
}

// Transaction is the audit record of a wallet balance change
type Transaction struct {
	ID            string            `json:"id" db:"id"`
	AccountID     string            `json:"accountId" db:"account_id"`
	Type          TransactionType   `json:"type" db:"type"`
	Amount        decimal.Decimal   `json:"amount" db:"amount"`
	Currency      string            `json:"currency" db:"currency"`
	Reference     string            `json:"reference" db:"reference"`
	Status        TransactionStatus `json:"status" db:"status"`
	Processing    bool              `json:"-" db:"processing"`
	BalanceBefore *decimal.Decimal  `json:"balanceBefore,omitempty" db:"balance_before"`
	BalanceAfter  *decimal.Decimal  `json:"balanceAfter,omitempty" db:"balance_after"`
	Description   string            `json:"description" db:"description"`
	FailureReason string            `json:"failureReason,omitempty" db:"failure_reason"`
	Metadata      Metadata          `json:"metadata,omitempty" db:"metadata"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty" db:"completed_at"`
}

// Metadata type for JSONB fields
type Metadata map[string]any

// Value implements driver.Valuer for Metadata
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for Metadata
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, m)
}
