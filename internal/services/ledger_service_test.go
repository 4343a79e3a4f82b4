package services

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bignash/datahub/internal/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// decimalArg matches a NUMERIC argument by value, so "6" and "6.00" compare equal.
type decimalArg string

func (d decimalArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	got, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return got.Equal(decimal.RequireFromString(string(d)))
}

var transactionRowColumns = []string{
	"id", "account_id", "type", "amount", "currency", "reference", "status", "processing",
	"balance_before", "balance_after", "description", "failure_reason", "metadata", "created_at", "completed_at",
}

var orderRowColumns = []string{
	"id", "account_id", "network", "data_amount_mb", "price", "phone_number", "reference", "status",
	"failure_reason", "provider_transaction_id", "created_at", "updated_at", "completed_at",
}

func newLedgerMock(t *testing.T) (*LedgerService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLedgerService(db), mock
}

func orderRow(reference, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderRowColumns).
		AddRow("ord_1", "acc_1", "mtn", 1000, "6.00", "0241234567", reference, status, "", "", now, now, nil)
}

func transactionRow(reference, txType, status string) *sqlmock.Rows {
	return sqlmock.NewRows(transactionRowColumns).
		AddRow("tx_1", "acc_1", txType, "50.00", "GHS", reference, status, false,
			"100.00", "150.00", "Wallet deposit", "", []byte(`{"channel":"paystack"}`), time.Now(), nil)
}

func TestLedgerService_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("successful debit", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance - \\$1").
			WithArgs(decimalArg("6.00"), sqlmock.AnyArg(), "acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("94.00"))

		change, err := service.Debit(ctx, "acc_1", decimal.RequireFromString("6.00"))
		assert.NoError(t, err)
		assert.True(t, change.Before.Equal(decimal.NewFromInt(100)))
		assert.True(t, change.After.Equal(decimal.NewFromInt(94)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient funds", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance - \\$1").
			WithArgs(decimalArg("20.00"), sqlmock.AnyArg(), "acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM accounts WHERE id = \\$1\\)").
			WithArgs("acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := service.Debit(ctx, "acc_1", decimal.RequireFromString("20.00"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance - \\$1").
			WithArgs(decimalArg("5"), sqlmock.AnyArg(), "missing").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM accounts WHERE id = \\$1\\)").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := service.Debit(ctx, "missing", decimal.NewFromInt(5))
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive amount is rejected before touching the database", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		_, err := service.Debit(ctx, "acc_1", decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = service.Credit(ctx, "acc_1", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_Credit(t *testing.T) {
	service, mock := newLedgerMock(t)

	mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance \\+ \\$1").
		WithArgs(decimalArg("50"), sqlmock.AnyArg(), "acc_1").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("150.00"))

	change, err := service.Credit(context.Background(), "acc_1", decimal.NewFromInt(50))
	assert.NoError(t, err)
	assert.Equal(t, "100.00", change.Before.StringFixed(2))
	assert.Equal(t, "150.00", change.After.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_RecordTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("stores pending deposit", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "acc_1", "deposit", decimalArg("50"), "GHS", "ref_1", "pending",
				nil, nil, "Wallet deposit", "", sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(1, 1))

		tx := &models.Transaction{
			AccountID:   "acc_1",
			Type:        models.TransactionDeposit,
			Amount:      decimal.NewFromInt(50),
			Reference:   "ref_1",
			Description: "Wallet deposit",
		}
		err := service.RecordTransaction(ctx, tx)
		assert.NoError(t, err)
		assert.NotEmpty(t, tx.ID)
		assert.Equal(t, models.TransactionPending, tx.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate reference", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectExec("INSERT INTO transactions").
			WillReturnError(&pq.Error{Code: "23505"})

		err := service.RecordTransaction(ctx, &models.Transaction{
			AccountID: "acc_1",
			Type:      models.TransactionDeposit,
			Amount:    decimal.NewFromInt(50),
			Reference: "ref_1",
		})
		assert.ErrorIs(t, err, ErrDuplicateReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_FinalizeTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to failed", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("UPDATE transactions SET status = \\$1").
			WithArgs("failed", "payment declined", sqlmock.AnyArg(), "ref_1", "deposit", "pending").
			WillReturnRows(transactionRow("ref_1", "deposit", "failed"))

		tx, err := service.FinalizeTransaction(ctx, "ref_1", models.TransactionDeposit,
			models.TransactionPending, models.TransactionFailed, "payment declined")
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionFailed, tx.Status)
		assert.Equal(t, "paystack", tx.Metadata["channel"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("UPDATE transactions SET status = \\$1").
			WillReturnRows(sqlmock.NewRows(transactionRowColumns))

		_, err := service.FinalizeTransaction(ctx, "ref_1", models.TransactionDeposit,
			models.TransactionPending, models.TransactionCompleted, "")
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending is not a final state", func(t *testing.T) {
		service, _ := newLedgerMock(t)

		_, err := service.FinalizeTransaction(ctx, "ref_1", models.TransactionDeposit,
			models.TransactionPending, models.TransactionPending, "")
		assert.Error(t, err)
	})
}

func TestLedgerService_SettleDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits recorded amount once", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE transactions SET processing = true").
			WithArgs("ref_1", "deposit", "pending").
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "amount"}).AddRow("acc_1", "50.00"))
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance \\+ \\$1").
			WithArgs(decimalArg("50"), sqlmock.AnyArg(), "acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("150.00"))
		mock.ExpectQuery("UPDATE transactions SET status = \\$1, processing = false, balance_before").
			WithArgs("completed", decimalArg("100"), decimalArg("150"), sqlmock.AnyArg(), "ref_1", "deposit").
			WillReturnRows(transactionRow("ref_1", "deposit", "completed"))
		mock.ExpectCommit()

		tx, err := service.SettleDeposit(ctx, "ref_1")
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionCompleted, tx.Status)
		assert.Equal(t, "150.00", tx.BalanceAfter.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already settled", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE transactions SET processing = true").
			WithArgs("ref_1", "deposit", "pending").
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "amount"}))
		mock.ExpectRollback()

		_, err := service.SettleDeposit(ctx, "ref_1")
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_ReserveOrder(t *testing.T) {
	ctx := context.Background()

	newOrder := func() *models.Order {
		return &models.Order{
			AccountID:    "acc_1",
			Network:      models.NetworkMTN,
			DataAmountMB: 1000,
			Price:        decimal.RequireFromString("6.00"),
			PhoneNumber:  "0241234567",
			Reference:    "DATA-1",
		}
	}

	t.Run("debits and records atomically", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance - \\$1").
			WithArgs(decimalArg("6"), sqlmock.AnyArg(), "acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("4.00"))
		mock.ExpectExec("INSERT INTO orders").
			WithArgs(sqlmock.AnyArg(), "acc_1", "mtn", 1000, decimalArg("6"), "0241234567", "DATA-1",
				"pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "acc_1", "purchase", decimalArg("6"), "GHS", "DATA-1", "pending",
				decimalArg("10"), decimalArg("4"), "1000MB mtn data bundle for 0241234567", "",
				sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		order := newOrder()
		change, err := service.ReserveOrder(ctx, order)
		assert.NoError(t, err)
		assert.Equal(t, "10.00", change.Before.StringFixed(2))
		assert.Equal(t, "4.00", change.After.StringFixed(2))
		assert.Equal(t, models.OrderPending, order.Status)
		assert.NotEmpty(t, order.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient funds leaves nothing behind", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance - \\$1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM accounts WHERE id = \\$1\\)").
			WithArgs("acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := service.ReserveOrder(ctx, newOrder())
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate reference rolls back the debit", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance - \\$1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("4.00"))
		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		_, err := service.ReserveOrder(ctx, newOrder())
		assert.ErrorIs(t, err, ErrDuplicateReference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_CompleteOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("completes order and purchase", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE orders SET status = \\$1, provider_transaction_id").
			WithArgs("completed", "HUB-9", sqlmock.AnyArg(), "DATA-1", "pending", "processing").
			WillReturnRows(orderRow("DATA-1", "completed"))
		mock.ExpectQuery("UPDATE transactions SET status = \\$1").
			WithArgs("completed", "", sqlmock.AnyArg(), "DATA-1", "purchase", "pending").
			WillReturnRows(transactionRow("DATA-1", "purchase", "completed"))
		mock.ExpectCommit()

		order, err := service.CompleteOrder(ctx, "DATA-1", "HUB-9")
		assert.NoError(t, err)
		assert.Equal(t, models.OrderCompleted, order.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terminal order is not touched", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE orders SET status = \\$1, provider_transaction_id").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))
		mock.ExpectRollback()

		_, err := service.CompleteOrder(ctx, "DATA-1", "")
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_RefundOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("refunds exactly the order price", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE orders SET status = \\$1, failure_reason = \\$2").
			WithArgs("failed", "provider rejected", sqlmock.AnyArg(), "DATA-1").
			WillReturnRows(orderRow("DATA-1", "failed"))
		mock.ExpectQuery("UPDATE transactions SET status = \\$1").
			WithArgs("failed", "provider rejected", sqlmock.AnyArg(), "DATA-1", "purchase", "pending").
			WillReturnRows(transactionRow("DATA-1", "purchase", "failed"))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM transactions WHERE reference = \\$1 AND type = \\$2\\)").
			WithArgs("DATA-1", "refund").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance \\+ \\$1").
			WithArgs(decimalArg("6"), sqlmock.AnyArg(), "acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("10.00"))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "acc_1", "refund", decimalArg("6"), "GHS", "DATA-1", "completed",
				decimalArg("4"), decimalArg("10"), "Refund for failed order DATA-1", "provider rejected",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		refund, err := service.RefundOrder(ctx, "DATA-1", "provider rejected")
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionRefund, refund.Type)
		assert.Equal(t, "6.00", refund.Amount.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("completed order reversed by provider", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE orders SET status = \\$1, failure_reason = \\$2").
			WithArgs("failed", "reversed", sqlmock.AnyArg(), "DATA-1").
			WillReturnRows(orderRow("DATA-1", "failed"))
		// the purchase is already completed, so the pending -> failed claim matches nothing
		mock.ExpectQuery("UPDATE transactions SET status = \\$1").
			WithArgs("failed", "reversed", sqlmock.AnyArg(), "DATA-1", "purchase", "pending").
			WillReturnRows(sqlmock.NewRows(transactionRowColumns))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM transactions WHERE reference = \\$1 AND type = \\$2\\)").
			WithArgs("DATA-1", "refund").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance \\+ \\$1").
			WithArgs(decimalArg("6"), sqlmock.AnyArg(), "acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("100.00"))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "acc_1", "refund", decimalArg("6"), "GHS", "DATA-1", "completed",
				decimalArg("94"), decimalArg("100"), "Refund for failed order DATA-1", "reversed",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		refund, err := service.RefundOrder(ctx, "DATA-1", "reversed")
		assert.NoError(t, err)
		assert.Equal(t, "100.00", refund.BalanceAfter.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("refund already recorded rolls back", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE orders SET status = \\$1, failure_reason = \\$2").
			WillReturnRows(orderRow("DATA-1", "failed"))
		mock.ExpectQuery("UPDATE transactions SET status = \\$1").
			WillReturnRows(sqlmock.NewRows(transactionRowColumns))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM transactions WHERE reference = \\$1 AND type = \\$2\\)").
			WithArgs("DATA-1", "refund").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := service.RefundOrder(ctx, "DATA-1", "reversed")
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second refund is rejected", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE orders SET status = \\$1, failure_reason = \\$2").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM orders WHERE reference = \\$1\\)").
			WithArgs("DATA-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := service.RefundOrder(ctx, "DATA-1", "again")
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown order", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE orders SET status = \\$1, failure_reason = \\$2").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM orders WHERE reference = \\$1\\)").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err := service.RefundOrder(ctx, "nope", "x")
		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_RecordCredit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits and records in one transaction", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance \\+ \\$1").
			WithArgs(decimalArg("25"), sqlmock.AnyArg(), "acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("75.00"))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), "acc_1", "deposit", decimalArg("25"), "GHS", "admin-deposit-1", "completed",
				decimalArg("50"), decimalArg("75"), "Manual credit by admin_1", "",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := service.RecordCredit(ctx, &models.Transaction{
			AccountID:   "acc_1",
			Type:        models.TransactionDeposit,
			Amount:      decimal.NewFromInt(25),
			Reference:   "admin-deposit-1",
			Description: "Manual credit by admin_1",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionCompleted, tx.Status)
		assert.Equal(t, "50.00", tx.BalanceBefore.StringFixed(2))
		assert.NotNil(t, tx.CompletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account rolls back", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE accounts SET wallet_balance = wallet_balance \\+ \\$1").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))
		mock.ExpectRollback()

		_, err := service.RecordCredit(ctx, &models.Transaction{
			AccountID: "ghost",
			Type:      models.TransactionDeposit,
			Amount:    decimal.NewFromInt(25),
			Reference: "admin-deposit-2",
		})
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		_, err := service.RecordCredit(ctx, &models.Transaction{AccountID: "acc_1", Amount: decimal.Zero})
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerService_MarkOrderProcessing(t *testing.T) {
	service, mock := newLedgerMock(t)

	mock.ExpectExec("UPDATE orders SET status = \\$1, updated_at = \\$2 WHERE reference = \\$3 AND status = \\$4").
		WithArgs("processing", sqlmock.AnyArg(), "DATA-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE orders SET status = \\$1, updated_at = \\$2 WHERE reference = \\$3 AND status = \\$4").
		WithArgs("processing", sqlmock.AnyArg(), "DATA-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, service.MarkOrderProcessing(context.Background(), "DATA-1"))
	assert.ErrorIs(t, service.MarkOrderProcessing(context.Background(), "DATA-1"), ErrAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("find order not found", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("FROM orders WHERE reference = \\$1").
			WithArgs("DATA-404").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err := service.FindOrder(ctx, "DATA-404")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("list transactions paginates", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions WHERE account_id = \\$1").
			WithArgs("acc_1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
		mock.ExpectQuery("FROM transactions WHERE account_id = \\$1 ORDER BY created_at DESC LIMIT \\$2 OFFSET \\$3").
			WithArgs("acc_1", 10, 20).
			WillReturnRows(transactionRow("ref_21", "deposit", "completed"))

		transactions, total, err := service.ListTransactions(ctx, "acc_1", 3, 10)
		assert.NoError(t, err)
		assert.Equal(t, 21, total)
		assert.Len(t, transactions, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown stored status is an error", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("FROM orders WHERE reference = \\$1").
			WithArgs("DATA-1").
			WillReturnRows(orderRow("DATA-1", "shipped"))
		mock.ExpectQuery("FROM transactions WHERE reference = \\$1 AND type = \\$2").
			WithArgs("ref_1", "deposit").
			WillReturnRows(transactionRow("ref_1", "chargeback", "completed"))

		_, err := service.FindOrder(ctx, "DATA-1")
		assert.ErrorContains(t, err, `unknown status "shipped"`)
		assert.NotErrorIs(t, err, ErrOrderNotFound)

		_, err = service.FindTransaction(ctx, "ref_1", models.TransactionDeposit)
		assert.ErrorContains(t, err, `unknown type "chargeback"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("balance of unknown account", func(t *testing.T) {
		service, mock := newLedgerMock(t)

		mock.ExpectQuery("SELECT wallet_balance FROM accounts WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))

		_, err := service.Balance(ctx, "missing")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}
