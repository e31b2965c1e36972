package service

import (
	"errors"

	"cake_shop_backend/internal/domain/wallet/model"
	"cake_shop_backend/internal/domain/wallet/repository"

	"gorm.io/gorm"
)

// ErrInsufficientBalance 余额不足
var ErrInsufficientBalance = repository.ErrInsufficientBalance

// WalletService 钱包服务接口
// Credit / Debit 自带事务；CreditIn / DebitIn 加入调用方事务，
// 支付结算用它把扣款和订单写入绑成一个原子操作
type WalletService interface {
	GetWallet(userID string) (*model.Wallet, error)
	GetTransactions(userID string) ([]model.WalletTransaction, error)

	Credit(userID string, amount int64, description string) (*model.Wallet, error)
	Debit(userID string, amount int64, description string) (*model.Wallet, error)

	CreditIn(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error)
	DebitIn(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error)
}

type walletService struct {
	db   *gorm.DB
	repo repository.WalletRepository
}

// NewWalletService 创建钱包服务
func NewWalletService(db *gorm.DB, repo repository.WalletRepository) WalletService {
	return &walletService{db: db, repo: repo}
}

func (s *walletService) GetWallet(userID string) (*model.Wallet, error) {
	return s.repo.GetOrCreate(userID)
}

// GetTransactions 流水按时间倒序
func (s *walletService) GetTransactions(userID string) ([]model.WalletTransaction, error) {
	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.WalletTransaction{}, nil
		}
		return nil, err
	}
	return s.repo.ListTransactions(wallet.ID)
}

func (s *walletService) Credit(userID string, amount int64, description string) (*model.Wallet, error) {
	var wallet *model.Wallet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = s.repo.CreditTx(tx, userID, amount, description)
		return err
	})
	return wallet, err
}

func (s *walletService) Debit(userID string, amount int64, description string) (*model.Wallet, error) {
	var wallet *model.Wallet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = s.repo.DebitTx(tx, userID, amount, description)
		return err
	})
	return wallet, err
}

func (s *walletService) CreditIn(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error) {
	return s.repo.CreditTx(tx, userID, amount, description)
}

func (s *walletService) DebitIn(tx *gorm.DB, userID string, amount int64, description string) (*model.Wallet, error) {
	return s.repo.DebitTx(tx, userID, amount, description)
}
