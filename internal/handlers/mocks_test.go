package handlers

import (
	"context"

	"github.com/bignash/datahub/internal/models"
	"github.com/bignash/datahub/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockDepositEngine struct {
	mock.Mock
}

func (m *MockDepositEngine) Initiate(ctx context.Context, accountID string, amount decimal.Decimal) (*services.DepositSession, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DepositSession), args.Error(1)
}

func (m *MockDepositEngine) Confirm(ctx context.Context, reference string) (*services.DepositResult, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DepositResult), args.Error(1)
}

func (m *MockDepositEngine) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

func (m *MockDepositEngine) ManualCredit(ctx context.Context, accountID string, amount decimal.Decimal, description, operatorID string) (*services.DepositResult, error) {
	args := m.Called(ctx, accountID, amount, description, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DepositResult), args.Error(1)
}

type MockOrderEngine struct {
	mock.Mock
}

func (m *MockOrderEngine) PlaceOrder(ctx context.Context, req services.PlaceOrderRequest) (*services.PlaceOrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PlaceOrderResult), args.Error(1)
}

func (m *MockOrderEngine) GetOrder(ctx context.Context, reference string) (*models.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderEngine) ListOrders(ctx context.Context, accountID string, limit int) ([]models.Order, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderEngine) HandleFulfillmentCallback(ctx context.Context, cb services.FulfillmentCallback) error {
	args := m.Called(ctx, cb)
	return args.Error(0)
}

func (m *MockOrderEngine) FailOrder(ctx context.Context, reference, reason, operatorID string) (*models.Order, error) {
	args := m.Called(ctx, reference, reason, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockWalletStore struct {
	mock.Mock
}

func (m *MockWalletStore) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockWalletStore) FindTransaction(ctx context.Context, reference string, txType models.TransactionType) (*models.Transaction, error) {
	args := m.Called(ctx, reference, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockWalletStore) ListTransactions(ctx context.Context, accountID string, page, limit int) ([]models.Transaction, int, error) {
	args := m.Called(ctx, accountID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Transaction), args.Int(1), args.Error(2)
}

type MockQRRenderer struct {
	mock.Mock
}

func (m *MockQRRenderer) CheckoutQR(ctx context.Context, reference, authorizationURL string) (string, error) {
	args := m.Called(ctx, reference, authorizationURL)
	return args.String(0), args.Error(1)
}

func (m *MockQRRenderer) CachedCheckoutQR(ctx context.Context, reference string) (string, error) {
	args := m.Called(ctx, reference)
	return args.String(0), args.Error(1)
}
