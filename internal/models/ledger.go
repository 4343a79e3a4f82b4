package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a user's spendable wallet balance. The id is owned by the
// identity provider.
type Account struct {
	ID            string          `json:"id" db:"id"`
	Email         string          `json:"email" db:"email"`
	WalletBalance decimal.Decimal `json:"walletBalance" db:"wallet_balance"`
	Currency      string          `json:"currency" db:"currency"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// BalanceChange is the before/after snapshot of a single debit or credit
type BalanceChange struct {
	AccountID string          `json:"accountId"`
	Before    decimal.Decimal `json:"balanceBefore"`
	After     decimal.Decimal `json:"balanceAfter"`
}
