package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bignash/datahub/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// LedgerStore is the durable record of wallet balances, transactions and
// orders. Every balance mutation goes through it.
type LedgerStore interface {
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
	Debit(ctx context.Context, accountID string, amount decimal.Decimal) (models.BalanceChange, error)
	Credit(ctx context.Context, accountID string, amount decimal.Decimal) (models.BalanceChange, error)

	RecordTransaction(ctx context.Context, tx *models.Transaction) error
	FindTransaction(ctx context.Context, reference string, txType models.TransactionType) (*models.Transaction, error)
	ListTransactions(ctx context.Context, accountID string, page, limit int) ([]models.Transaction, int, error)
	FinalizeTransaction(ctx context.Context, reference string, txType models.TransactionType, expected, next models.TransactionStatus, failureReason string) (*models.Transaction, error)
	SettleDeposit(ctx context.Context, reference string) (*models.Transaction, error)
	RecordCredit(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)

	ReserveOrder(ctx context.Context, order *models.Order) (models.BalanceChange, error)
	MarkOrderProcessing(ctx context.Context, reference string) error
	CompleteOrder(ctx context.Context, reference, providerTxID string) (*models.Order, error)
	RefundOrder(ctx context.Context, reference, reason string) (*models.Transaction, error)
	FindOrder(ctx context.Context, reference string) (*models.Order, error)
	ListOrders(ctx context.Context, accountID string, limit int) ([]models.Order, error)
}

// LedgerService implements LedgerStore on PostgreSQL. Balance updates are
// conditional single-statement writes and every multi-row settlement runs in
// one SQL transaction.
type LedgerService struct {
	db *sql.DB
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

const transactionColumns = `id, account_id, type, amount, currency, reference, status, processing,
		balance_before, balance_after, description, COALESCE(failure_reason, ''), metadata, created_at, completed_at`

const orderColumns = `id, account_id, network, data_amount_mb, price, phone_number, reference, status,
		COALESCE(failure_reason, ''), COALESCE(provider_transaction_id, ''), created_at, updated_at, completed_at`

func (s *LedgerService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var account models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, wallet_balance, currency, updated_at
		FROM accounts
		WHERE id = $1`, accountID).Scan(&account.ID, &account.Email, &account.WalletBalance, &account.Currency, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &account, nil
}

func (s *LedgerService) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.QueryRowContext(ctx, `SELECT wallet_balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrAccountNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func (s *LedgerService) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	if err := validateLedgerAmount(amount); err != nil {
		return models.BalanceChange{}, err
	}
	return s.debit(ctx, s.db, accountID, amount)
}

func (s *LedgerService) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	if err := validateLedgerAmount(amount); err != nil {
		return models.BalanceChange{}, err
	}
	return s.credit(ctx, s.db, accountID, amount)
}

// debit decrements the balance only when it covers the amount, so concurrent
// debits on one account can never overdraw it.
func (s *LedgerService) debit(ctx context.Context, q querier, accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	var after decimal.Decimal
	err := q.QueryRowContext(ctx, `
		UPDATE accounts
		SET wallet_balance = wallet_balance - $1, updated_at = $2
		WHERE id = $3 AND wallet_balance >= $1
		RETURNING wallet_balance`,
		amount, time.Now(), accountID).Scan(&after)

	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists); err != nil {
			return models.BalanceChange{}, fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return models.BalanceChange{}, ErrAccountNotFound
		}
		return models.BalanceChange{}, ErrInsufficientFunds
	}
	if err != nil {
		return models.BalanceChange{}, fmt.Errorf("failed to debit account: %w", err)
	}

	return models.BalanceChange{AccountID: accountID, Before: after.Add(amount), After: after}, nil
}

func (s *LedgerService) credit(ctx context.Context, q querier, accountID string, amount decimal.Decimal) (models.BalanceChange, error) {
	var after decimal.Decimal
	err := q.QueryRowContext(ctx, `
		UPDATE accounts
		SET wallet_balance = wallet_balance + $1, updated_at = $2
		WHERE id = $3
		RETURNING wallet_balance`,
		amount, time.Now(), accountID).Scan(&after)

	if errors.Is(err, sql.ErrNoRows) {
		return models.BalanceChange{}, ErrAccountNotFound
	}
	if err != nil {
		return models.BalanceChange{}, fmt.Errorf("failed to credit account: %w", err)
	}

	return models.BalanceChange{AccountID: accountID, Before: after.Sub(amount), After: after}, nil
}

func (s *LedgerService) RecordTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := validateLedgerAmount(tx.Amount); err != nil {
		return err
	}
	return s.insertTransaction(ctx, s.db, tx)
}

func (s *LedgerService) insertTransaction(ctx context.Context, q querier, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Currency == "" {
		tx.Currency = models.CurrencyGHS
	}
	if tx.Status == "" {
		tx.Status = models.TransactionPending
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions
		(id, account_id, type, amount, currency, reference, status, balance_before, balance_after,
		 description, failure_reason, metadata, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)`,
		tx.ID, tx.AccountID, string(tx.Type), tx.Amount, tx.Currency, tx.Reference, string(tx.Status),
		nullDecimal(tx.BalanceBefore), nullDecimal(tx.BalanceAfter), tx.Description, tx.FailureReason,
		tx.Metadata, tx.CreatedAt, nullTime(tx.CompletedAt))

	if isUniqueViolation(err) {
		return ErrDuplicateReference
	}
	if err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	return nil
}

func (s *LedgerService) FindTransaction(ctx context.Context, reference string, txType models.TransactionType) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE reference = $1 AND type = $2`, reference, string(txType))

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return tx, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, accountID string, page, limit int) ([]models.Transaction, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, accountID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, *tx)
	}
	return transactions, total, rows.Err()
}

// FinalizeTransaction moves a transaction out of the expected state in a single
// conditional update. Only one caller can win; the others get
// ErrAlreadyProcessed.
func (s *LedgerService) FinalizeTransaction(ctx context.Context, reference string, txType models.TransactionType, expected, next models.TransactionStatus, failureReason string) (*models.Transaction, error) {
	return s.finalize(ctx, s.db, reference, txType, expected, next, failureReason)
}

func (s *LedgerService) finalize(ctx context.Context, q querier, reference string, txType models.TransactionType, expected, next models.TransactionStatus, failureReason string) (*models.Transaction, error) {
	if !next.Terminal() {
		return nil, fmt.Errorf("cannot finalize transaction to %q", next)
	}

	row := q.QueryRowContext(ctx, `
		UPDATE transactions
		SET status = $1, failure_reason = NULLIF($2, ''), processing = false, completed_at = $3
		WHERE reference = $4 AND type = $5 AND status = $6 AND processing = false
		RETURNING `+transactionColumns,
		string(next), failureReason, time.Now(), reference, string(txType), string(expected))

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to finalize transaction: %w", err)
	}
	return tx, nil
}

// SettleDeposit claims a pending deposit, credits the wallet with the recorded
// amount and completes the transaction, all in one SQL transaction.
func (s *LedgerService) SettleDeposit(ctx context.Context, reference string) (*models.Transaction, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	var accountID string
	var amount decimal.Decimal
	err = dbTx.QueryRowContext(ctx, `
		UPDATE transactions
		SET processing = true
		WHERE reference = $1 AND type = $2 AND status = $3 AND processing = false
		RETURNING account_id, amount`,
		reference, string(models.TransactionDeposit), string(models.TransactionPending)).Scan(&accountID, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim deposit: %w", err)
	}

	change, err := s.credit(ctx, dbTx, accountID, amount)
	if err != nil {
		return nil, err
	}

	row := dbTx.QueryRowContext(ctx, `
		UPDATE transactions
		SET status = $1, processing = false, balance_before = $2, balance_after = $3, completed_at = $4
		WHERE reference = $5 AND type = $6
		RETURNING `+transactionColumns,
		string(models.TransactionCompleted), change.Before, change.After, time.Now(),
		reference, string(models.TransactionDeposit))

	tx, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to complete deposit: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit deposit: %w", err)
	}

	log.Printf("[LEDGER] Deposit %s settled for account %s: %s -> %s", reference, accountID,
		change.Before.StringFixed(2), change.After.StringFixed(2))
	return tx, nil
}

// RecordCredit credits tx.Amount to tx.AccountID and stores tx as a completed
// entry carrying the balance change. Both writes share one SQL transaction.
func (s *LedgerService) RecordCredit(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := validateLedgerAmount(tx.Amount); err != nil {
		return nil, err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	change, err := s.credit(ctx, dbTx, tx.AccountID, tx.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx.Status = models.TransactionCompleted
	tx.BalanceBefore = &change.Before
	tx.BalanceAfter = &change.After
	tx.CreatedAt = now
	tx.CompletedAt = &now
	if err := s.insertTransaction(ctx, dbTx, tx); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit credit: %w", err)
	}

	log.Printf("[LEDGER] %s %s credited to account %s: %s -> %s", tx.Type, tx.Reference, tx.AccountID,
		change.Before.StringFixed(2), change.After.StringFixed(2))
	return tx, nil
}

// ReserveOrder debits the order price, stores the order as pending and
// records a pending purchase transaction. Either all three happen or none.
func (s *LedgerService) ReserveOrder(ctx context.Context, order *models.Order) (models.BalanceChange, error) {
	if err := validateLedgerAmount(order.Price); err != nil {
		return models.BalanceChange{}, err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.BalanceChange{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	change, err := s.debit(ctx, dbTx, order.AccountID, order.Price)
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

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO orders
		(id, account_id, network, data_amount_mb, price, phone_number, reference, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.AccountID, string(order.Network), order.DataAmountMB, order.Price,
		order.PhoneNumber, order.Reference, string(order.Status), order.CreatedAt, order.UpdatedAt)
	if isUniqueViolation(err) {
		return models.BalanceChange{}, ErrDuplicateReference
	}
	if err != nil {
		return models.BalanceChange{}, fmt.Errorf("failed to store order: %w", err)
	}

	purchase := &models.Transaction{
		AccountID:     order.AccountID,
		Type:          models.TransactionPurchase,
		Amount:        order.Price,
		Reference:     order.Reference,
		Status:        models.TransactionPending,
		BalanceBefore: &change.Before,
		BalanceAfter:  &change.After,
		Description:   purchaseDescription(order),
		Metadata: models.Metadata{
			"orderId":      order.ID,
			"network":      string(order.Network),
			"dataAmountMB": order.DataAmountMB,
			"phoneNumber":  order.PhoneNumber,
		},
		CreatedAt: now,
	}
	if err := s.insertTransaction(ctx, dbTx, purchase); err != nil {
		return models.BalanceChange{}, err
	}

	if err := dbTx.Commit(); err != nil {
		return models.BalanceChange{}, fmt.Errorf("failed to commit order: %w", err)
	}
	return change, nil
}

func (s *LedgerService) MarkOrderProcessing(ctx context.Context, reference string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE reference = $3 AND status = $4`,
		string(models.OrderProcessing), time.Now(), reference, string(models.OrderPending))
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

// CompleteOrder marks a pending or processing order completed and finalizes
// its purchase transaction.
func (s *LedgerService) CompleteOrder(ctx context.Context, reference, providerTxID string) (*models.Order, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	now := time.Now()
	row := dbTx.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, provider_transaction_id = NULLIF($2, ''), completed_at = $3, updated_at = $3
		WHERE reference = $4 AND status IN ($5, $6)
		RETURNING `+orderColumns,
		string(models.OrderCompleted), providerTxID, now, reference,
		string(models.OrderPending), string(models.OrderProcessing))

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}

	_, err = s.finalize(ctx, dbTx, reference, models.TransactionPurchase, models.TransactionPending, models.TransactionCompleted, "")
	if err != nil && !errors.Is(err, ErrAlreadyProcessed) {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return order, nil
}

// RefundOrder fails an order and credits its price back exactly once. A
// second call for the same reference returns ErrAlreadyProcessed.
func (s *LedgerService) RefundOrder(ctx context.Context, reference, reason string) (*models.Transaction, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	now := time.Now()
	row := dbTx.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, failure_reason = $2, updated_at = $3
		WHERE reference = $4 AND status <> $1
		RETURNING `+orderColumns,
		string(models.OrderFailed), reason, now, reference)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := dbTx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE reference = $1)`, reference).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check order: %w", err)
		}
		if !exists {
			return nil, ErrOrderNotFound
		}
		return nil, ErrAlreadyProcessed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fail order: %w", err)
	}

	_, err = s.finalize(ctx, dbTx, reference, models.TransactionPurchase, models.TransactionPending, models.TransactionFailed, reason)
	if err != nil && !errors.Is(err, ErrAlreadyProcessed) {
		return nil, err
	}

	var refunded bool
	err = dbTx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE reference = $1 AND type = $2)`,
		reference, string(models.TransactionRefund)).Scan(&refunded)
	if err != nil {
		return nil, fmt.Errorf("failed to check refund: %w", err)
	}
	if refunded {
		return nil, ErrAlreadyProcessed
	}

	change, err := s.credit(ctx, dbTx, order.AccountID, order.Price)
	if err != nil {
		return nil, err
	}

	refund := &models.Transaction{
		AccountID:     order.AccountID,
		Type:          models.TransactionRefund,
		Amount:        order.Price,
		Reference:     reference,
		Status:        models.TransactionCompleted,
		BalanceBefore: &change.Before,
		BalanceAfter:  &change.After,
		Description:   fmt.Sprintf("Refund for failed order %s", reference),
		FailureReason: reason,
		Metadata:      models.Metadata{"orderId": order.ID},
		CreatedAt:     now,
		CompletedAt:   &now,
	}
	if err := s.insertTransaction(ctx, dbTx, refund); err != nil {
		if errors.Is(err, ErrDuplicateReference) {
			return nil, ErrAlreadyProcessed
		}
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit refund: %w", err)
	}
	return refund, nil
}

func (s *LedgerService) FindOrder(ctx context.Context, reference string) (*models.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE reference = $1`, reference)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return order, nil
}

func (s *LedgerService) ListOrders(ctx context.Context, accountID string, limit int) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var tx models.Transaction
	var txType, status string
	var before, after decimal.NullDecimal
	var completedAt sql.NullTime

	err := row.Scan(&tx.ID, &tx.AccountID, &txType, &tx.Amount, &tx.Currency, &tx.Reference, &status,
		&tx.Processing, &before, &after, &tx.Description, &tx.FailureReason, &tx.Metadata,
		&tx.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	tx.Type = models.TransactionType(txType)
	tx.Status = models.TransactionStatus(status)
	if !tx.Type.Valid() || !tx.Status.Valid() {
		return nil, fmt.Errorf("transaction %s has unknown type %q or status %q", tx.Reference, txType, status)
	}
	if before.Valid {
		tx.BalanceBefore = &before.Decimal
	}
	if after.Valid {
		tx.BalanceAfter = &after.Decimal
	}
	if completedAt.Valid {
		tx.CompletedAt = &completedAt.Time
	}
	return &tx, nil
}

func scanOrder(row scanner) (*models.Order, error) {
	var order models.Order
	var network, status string
	var completedAt sql.NullTime

	err := row.Scan(&order.ID, &order.AccountID, &network, &order.DataAmountMB, &order.Price,
		&order.PhoneNumber, &order.Reference, &status, &order.FailureReason, &order.ProviderTransactionID,
		&order.CreatedAt, &order.UpdatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	order.Network = models.Network(network)
	order.Status = models.OrderStatus(status)
	if !order.Status.Valid() {
		return nil, fmt.Errorf("order %s has unknown status %q", order.Reference, status)
	}
	if completedAt.Valid {
		order.CompletedAt = &completedAt.Time
	}
	return &order, nil
}

func purchaseDescription(order *models.Order) string {
	if !order.Network.RequiresFulfillment() {
		return fmt.Sprintf("AFA registration for %s", order.PhoneNumber)
	}
	return fmt.Sprintf("%dMB %s data bundle for %s", order.DataAmountMB, order.Network, order.PhoneNumber)
}

func validateLedgerAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, amount.String())
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
