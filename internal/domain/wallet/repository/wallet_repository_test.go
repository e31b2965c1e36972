package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return gdb, mock
}

func walletRows(id, userID string, balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "balance"}).
		AddRow(id, userID, balance)
}

func TestGetByUserID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewWalletRepository(gdb)

		mock.ExpectQuery(`SELECT \* FROM "wallets"`).
			WithArgs("user-1", 1).
			WillReturnRows(walletRows("wallet-1", "user-1", 500))

		wallet, err := repo.GetByUserID("user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(500), wallet.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		repo := NewWalletRepository(gdb)

		mock.ExpectQuery(`SELECT \* FROM "wallets"`).
			WithArgs("ghost", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance"}))

		_, err := repo.GetByUserID("ghost")

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestGetOrCreateExisting(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewWalletRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "wallets"`).
		WithArgs("user-1", 1).
		WillReturnRows(walletRows("wallet-1", "user-1", 0))

	wallet, err := repo.GetOrCreate("user-1")

	assert.NoError(t, err)
	assert.Equal(t, "wallet-1", wallet.ID)
	// 已存在时不应触发任何写入
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactionsOrder(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewWalletRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "wallet_transactions" WHERE wallet_id = .+ ORDER BY created_at DESC`).
		WithArgs("wallet-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "type", "amount", "description"}).
			AddRow("txn-2", "wallet-1", "Debit", 200, "Payment for order ORD2509010001").
			AddRow("txn-1", "wallet-1", "Credit", 500, "Added to wallet"))

	txns, err := repo.ListTransactions("wallet-1")

	assert.NoError(t, err)
	assert.Len(t, txns, 2)
	assert.Equal(t, "Debit", txns[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitTxInsufficientBalance(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewWalletRepository(gdb)

	// 行锁取余额后直接失败，不产生任何 UPDATE / INSERT
	mock.ExpectQuery(`SELECT \* FROM "wallets" WHERE user_id = .+ FOR UPDATE`).
		WithArgs("user-1", 1).
		WillReturnRows(walletRows("wallet-1", "user-1", 1500))

	_, err := repo.DebitTx(gdb, "user-1", 2000, "Payment for order ORD2509010002")

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
