package repository

import (
	"errors"

	"cake_shop_backend/internal/domain/wallet/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository 接口定义
// Tx 后缀的方法在调用方提供的事务里执行，余额变动和流水写入保持原子
type WalletRepository interface {
	GetByUserID(userID string) (*model.Wallet, error)
	GetOrCreate(userID string) (*model.Wallet, error)
	ListTransactions(walletID string) ([]model.WalletTransaction, error)

	CreditTx(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error)
	DebitTx(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error)
}

// ErrInsufficientBalance 余额不足，检查先于任何写入
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository 创建新的仓库实例
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByUserID(userID string) (*model.Wallet, error) {
	var wallet model.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetOrCreate 取钱包，不存在则开零余额新户
func (r *walletRepository) GetOrCreate(userID string) (*model.Wallet, error) {
	var wallet model.Wallet
	err := r.db.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = model.Wallet{UserID: userID}
	if err := r.db.Create(&wallet).Error; err != nil {
		// 并发开户撞唯一索引时回读已有记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err2 := r.db.Where("user_id = ?", userID).First(&wallet).Error; err2 == nil {
				return &wallet, nil
			}
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) ListTransactions(walletID string) ([]model.WalletTransaction, error) {
	var txns []model.WalletTransaction
	err := r.db.Where("wallet_id = ?", walletID).
		Order("created_at DESC").Find(&txns).Error
	return txns, err
}

// lockWallet 行锁取钱包，不存在则在事务内开户
func (r *walletRepository) lockWallet(tx *gorm.DB, userID string) (*model.Wallet, error) {
	var wallet model.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = model.Wallet{UserID: userID}
	if err := tx.Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) CreditTx(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error) {
	wallet, err := r.lockWallet(tx, userID)
	if err != nil {
		return nil, err
	}

	wallet.Balance += amount
	if err := tx.Model(wallet).Update("balance", wallet.Balance).Error; err != nil {
		return nil, err
	}

	txn := model.WalletTransaction{
		WalletID:    wallet.ID,
		Type:        model.TypeCredit,
		Amount:      amount,
		Description: description,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *walletRepository) DebitTx(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error) {
	wallet, err := r.lockWallet(tx, userID)
	if err != nil {
		return nil, err
	}

	// 余额检查必须先于任何写入
	if wallet.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	wallet.Balance -= amount
	if err := tx.Model(wallet).Update("balance", wallet.Balance).Error; err != nil {
		return nil, err
	}

	txn := model.WalletTransaction{
		WalletID:    wallet.ID,
		Type:        model.TypeDebit,
		Amount:      amount,
		Description: description,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}
