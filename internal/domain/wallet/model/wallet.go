package model

import (
	baseModel "cake_shop_backend/pkg/model"
)

// 流水类型
const (
	TypeCredit = "Credit"
	TypeDebit  = "Debit"
)

// Wallet 顾客钱包，一人一户
// 余额单位为卢比整数，避免浮点误差
type Wallet struct {
	baseModel.BaseModel
	UserID  string `gorm:"uniqueIndex;not null" json:"userId"`
	Balance int64  `gorm:"not null;default:0" json:"balance"`
}

// WalletTransaction 钱包流水，只增不改
type WalletTransaction struct {
	baseModel.BaseModel
	WalletID    string `gorm:"index;not null" json:"walletId"`
	Type        string `gorm:"not null" json:"type"` // Credit / Debit
	Amount      int64  `gorm:"not null" json:"amount"`
	Description string `gorm:"not null" json:"description"`
}
