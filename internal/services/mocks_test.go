package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bignash/datahub/internal/audit"
	"github.com/bignash/datahub/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InitializeResult), args.Error(1)
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerifyResult), args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Submit(ctx context.Context, req FulfillmentRequest) (*FulfillmentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FulfillmentResult), args.Error(1)
}

// recordingEmitter keeps emitted events for assertions
type recordingEmitter struct {
	mu     sync.Mutex
	events []audit.AuditEvent
}

func (r *recordingEmitter) Emit(_ context.Context, event audit.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

// memLedger is an in-memory LedgerStore with the same conditional-update
// semantics as LedgerService. One mutex stands in for row locks.
type memLedger struct {
	mu           sync.Mutex
	accounts     map[string]*models.Account
	transactions map[string]*models.Transaction
	orders       map[string]*models.Order
}

func newMemLedger() *memLedger {
	return &memLedger{
		accounts:     map[string]*models.Account{},
		transactions: map[string]*models.Transaction{},
		orders:       map[string]*models.Order{},
	}
}

func (l *memLedger) addAccount(id, email, balance string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[id] = &models.Account{
		ID:            id,
		Email:         email,
		WalletBalance: decimal.RequireFromString(balance),
		Currency:      models.CurrencyGHS,
	}
}

func (l *memLedger) balanceOf(id string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[id].WalletBalance
}

func (l *memLedger) transaction(reference string, txType models.TransactionType) *models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, ok := l.transactions[txKey(reference, txType)]
	if !ok {
		return nil
	}
	copied := *tx
	return &copied
}

func (l *memLedger) order(reference string) *models.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[reference]
	if !ok {
		return nil
	}
	copied := *order
	return &copied
}

func (l *memLedger) countTransactions(txType models.TransactionType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, tx := range l.transactions {
		if tx.Type == txType {
			n++
		}
	}
	return n
}

func txKey(reference string, txType models.TransactionType) string {
	return string(txType) + ":" + reference
}

func (l *memLedger) GetAccount(_ context.Context, accountID string) (*models.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (l *memLedger) Balance(_ context.Context, accountID string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[accountID]
	if !ok {
		return decimal.Zero, ErrAccountNotFound
	}
	return account.WalletBalance, nil
}

func (l *memLedger) Debit(_ context.Context, accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	if err := validateLedgerAmount(amount); err != nil {
		return models.BalanceChange{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debit(accountID, amount)
}

func (l *memLedger) debit(accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	account, ok := l.accounts[accountID]
	if !ok {
		return models.BalanceChange{}, ErrAccountNotFound
	}
	if account.WalletBalance.LessThan(amount) {
		return models.BalanceChange{}, ErrInsufficientFunds
	}
	before := account.WalletBalance
	account.WalletBalance = before.Sub(amount)
	return models.BalanceChange{AccountID: accountID, Before: before, After: account.WalletBalance}, nil
}

func (l *memLedger) Credit(_ context.Context, accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	if err := validateLedgerAmount(amount); err != nil {
		return models.BalanceChange{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.credit(accountID, amount)
}

func (l *memLedger) credit(accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	account, ok := l.accounts[accountID]
	if !ok {
		return models.BalanceChange{}, ErrAccountNotFound
	}
	before := account.WalletBalance
	account.WalletBalance = before.Add(amount)
	return models.BalanceChange{AccountID: accountID, Before: before, After: account.WalletBalance}, nil
}

func (l *memLedger) RecordTransaction(_ context.Context, tx *models.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.insert(tx)
}

func (l *memLedger) insert(tx *models.Transaction) error {
	key := txKey(tx.Reference, tx.Type)
	if _, exists := l.transactions[key]; exists {
		return ErrDuplicateReference
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = models.TransactionPending
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	copied := *tx
	l.transactions[key] = &copied
	return nil
}

func (l *memLedger) FindTransaction(_ context.Context, reference string, txType models.TransactionType) (*models.Transaction, error) {
	if tx := l.transaction(reference, txType); tx != nil {
		return tx, nil
	}
	return nil, ErrTransactionNotFound
}

func (l *memLedger) ListTransactions(_ context.Context, accountID string, page, limit int) ([]models.Transaction, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var all []models.Transaction
	for _, tx := range l.transactions {
		if tx.AccountID == accountID {
			all = append(all, *tx)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Transaction{}, len(all), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (l *memLedger) FinalizeTransaction(_ context.Context, reference string, txType models.TransactionType, expected, next models.TransactionStatus, failureReason string) (*models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finalize(reference, txType, expected, next, failureReason)
}

func (l *memLedger) finalize(reference string, txType models.TransactionType, expected, next models.TransactionStatus, failureReason string) (*models.Transaction, error) {
	tx, ok := l.transactions[txKey(reference, txType)]
	if !ok || tx.Status != expected || tx.Processing {
		return nil, ErrAlreadyProcessed
	}
	now := time.Now()
	tx.Status = next
	tx.FailureReason = failureReason
	tx.CompletedAt = &now
	copied := *tx
	return &copied, nil
}

func (l *memLedger) SettleDeposit(_ context.Context, reference string) (*models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.transactions[txKey(reference, models.TransactionDeposit)]
	if !ok || tx.Status != models.TransactionPending || tx.Processing {
		return nil, ErrAlreadyProcessed
	}
	change, err := l.credit(tx.AccountID, tx.Amount)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tx.Status = models.TransactionCompleted
	tx.BalanceBefore = &change.Before
	tx.BalanceAfter = &change.After
	tx.CompletedAt = &now
	copied := *tx
	return &copied, nil
}

func (l *memLedger) RecordCredit(_ context.Context, tx *models.Transaction) (*models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.transactions[txKey(tx.Reference, tx.Type)]; exists {
		return nil, ErrDuplicateReference
	}
	change, err := l.credit(tx.AccountID, tx.Amount)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tx.Status = models.TransactionCompleted
	tx.BalanceBefore = &change.Before
	tx.BalanceAfter = &change.After
	tx.CompletedAt = &now
	if err := l.insert(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (l *memLedger) ReserveOrder(_ context.Context, order *models.Order) (models.BalanceChange, error) {
	if err := validateLedgerAmount(order.Price); err != nil {
		return models.BalanceChange{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.orders[order.Reference]; exists {
		return models.BalanceChange{}, ErrDuplicateReference
	}
	change, err := l.debit(order.AccountID, order.Price)
	if err != nil {
		return models.BalanceChange{}, err
	}

	now := time.Now()
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	order.Status = models.OrderPending
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	l.orders[order.Reference] = &copied

	err = l.insert(&models.Transaction{
		AccountID:     order.AccountID,
		Type:          models.TransactionPurchase,
		Amount:        order.Price,
		Reference:     order.Reference,
		Status:        models.TransactionPending,
		BalanceBefore: &change.Before,
		BalanceAfter:  &change.After,
		Description:   purchaseDescription(order),
	})
	return change, err
}

func (l *memLedger) MarkOrderProcessing(_ context.Context, reference string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[reference]
	if !ok || order.Status != models.OrderPending {
		return ErrAlreadyProcessed
	}
	order.Status = models.OrderProcessing
	order.UpdatedAt = time.Now()
	return nil
}

func (l *memLedger) CompleteOrder(_ context.Context, reference, providerTxID string) (*models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[reference]
	if !ok || (order.Status != models.OrderPending && order.Status != models.OrderProcessing) {
		return nil, ErrAlreadyProcessed
	}
	now := time.Now()
	order.Status = models.OrderCompleted
	order.ProviderTransactionID = providerTxID
	order.CompletedAt = &now
	order.UpdatedAt = now
	l.finalize(reference, models.TransactionPurchase, models.TransactionPending, models.TransactionCompleted, "")
	copied := *order
	return &copied, nil
}

func (l *memLedger) RefundOrder(_ context.Context, reference, reason string) (*models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[reference]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if order.Status == models.OrderFailed {
		return nil, ErrAlreadyProcessed
	}
	if _, refunded := l.transactions[txKey(reference, models.TransactionRefund)]; refunded {
		return nil, ErrAlreadyProcessed
	}

	order.Status = models.OrderFailed
	order.FailureReason = reason
	order.UpdatedAt = time.Now()
	l.finalize(reference, models.TransactionPurchase, models.TransactionPending, models.TransactionFailed, reason)

	change, err := l.credit(order.AccountID, order.Price)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	refund := &models.Transaction{
		AccountID:     order.AccountID,
		Type:          models.TransactionRefund,
		Amount:        order.Price,
		Reference:     reference,
		Status:        models.TransactionCompleted,
		BalanceBefore: &change.Before,
		BalanceAfter:  &change.After,
		FailureReason: reason,
		CompletedAt:   &now,
	}
	if err := l.insert(refund); err != nil {
		return nil, err
	}
	return refund, nil
}

func (l *memLedger) FindOrder(_ context.Context, reference string) (*models.Order, error) {
	if order := l.order(reference); order != nil {
		return order, nil
	}
	return nil, ErrOrderNotFound
}

func (l *memLedger) ListOrders(_ context.Context, accountID string, limit int) ([]models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var orders []models.Order
	for _, order := range l.orders {
		if order.AccountID == accountID {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}
