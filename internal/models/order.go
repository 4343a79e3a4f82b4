package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Network is a supported carrier or fixed-price product line
type Network string

const (
	NetworkMTN             Network = "mtn"
	NetworkAirtelTigo      Network = "at"
	NetworkTelecel         Network = "telecel"
	NetworkAFARegistration Network = "afa-registration"
)

// ParseNetwork normalises client spellings onto the closed set of networks.
// It returns false for anything it does not recognise.
func ParseNetwork(s string) (Network, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mtn":
		return NetworkMTN, true
	case "at", "airteltigo", "airtel-tigo":
		return NetworkAirtelTigo, true
	case "telecel", "vodafone":
		return NetworkTelecel, true
	case "afa-registration", "afa":
		return NetworkAFARegistration, true
	}
	return "", false
}

// RequiresFulfillment reports whether orders on this network are delivered
// by the external fulfillment provider
func (n Network) RequiresFulfillment() bool {
	return n != NetworkAFARegistration
}

// OrderStatus is the lifecycle state of an Order
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderFailed     OrderStatus = "failed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderFailed:
		return true
	}
	return false
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCompleted, OrderFailed},
	OrderProcessing: {OrderCompleted, OrderFailed},
	// the provider may reverse a delivery after reporting success
	OrderCompleted: {OrderFailed},
}

// CanTransitionTo reports whether s may move to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a request to deliver a bundle to a phone number
type Order struct {
	ID                    string          `json:"id" db:"id"`
	AccountID             string          `json:"accountId" db:"account_id"`
	Network               Network         `json:"network" db:"network"`
	DataAmountMB          int             `json:"dataAmountMB" db:"data_amount_mb"`
	Price                 decimal.Decimal `json:"price" db:"price"`
	PhoneNumber           string          `json:"phoneNumber" db:"phone_number"`
	Reference             string          `json:"reference" db:"reference"`
	Status                OrderStatus     `json:"status" db:"status"`
	FailureReason         string          `json:"failureReason,omitempty" db:"failure_reason"`
	ProviderTransactionID string          `json:"transactionId,omitempty" db:"provider_transaction_id"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time       `json:"updatedAt" db:"updated_at"`
	CompletedAt           *time.Time      `json:"completedAt,omitempty" db:"completed_at"`
}
