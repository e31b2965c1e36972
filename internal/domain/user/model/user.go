package model

import (
	"time"

	baseModel "cake_shop_backend/pkg/model"
)

// 地址类型
const (
	AddressHome  = "Home"
	AddressWork  = "Work"
	AddressOther = "Other"
)

// 会员等级
const (
	MembershipBasic   = "Basic"
	MembershipPremium = "Premium"
	MembershipVIP     = "VIP"
)

// Address 收货地址，按用户外键挂载
type Address struct {
	baseModel.BaseModel
	UserID    string   `gorm:"index;not null" json:"userId"`
	Type      string   `gorm:"not null" json:"type"` // Home / Work / Other
	Street    string   `json:"street"`
	City      string   `gorm:"not null" json:"city"`
	State     string   `gorm:"not null" json:"state"`
	Pincode   string   `gorm:"not null" json:"pincode"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsDefault bool     `gorm:"default:false" json:"isDefault"`
}

// UPIAccount 用户绑定的 UPI 账户
type UPIAccount struct {
	baseModel.BaseModel
	UserID    string `gorm:"index;not null" json:"userId"`
	UPIID     string `gorm:"column:upi_id;not null" json:"upiId"`
	Name      string `gorm:"not null" json:"name"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`
}

// NotificationSettings 通知偏好
type NotificationSettings struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// PrivacySettings 隐私偏好
type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility"` // Public / Private / Friends
	ShowEmail         bool   `json:"showEmail"`
	ShowPhone         bool   `json:"showPhone"`
}

// SecuritySettings 安全偏好
type SecuritySettings struct {
	TwoFactorAuth      bool `json:"twoFactorAuth"`
	LoginNotifications bool `json:"loginNotifications"`
}

// Settings 账户设置，整体以 jsonb 存储
type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Security      SecuritySettings     `json:"security"`
}

// DefaultSettings 新用户的默认设置
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{Email: true, SMS: true, Push: true},
		Privacy:       PrivacySettings{ProfileVisibility: "Public"},
		Security:      SecuritySettings{LoginNotifications: true},
	}
}

// Membership 会员信息，整体以 jsonb 存储
type Membership struct {
	Type      string     `json:"type"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Benefits  []string   `json:"benefits,omitempty"`
}

// User 顾客模型，手机号为主要身份标识
type User struct {
	baseModel.BaseModel
	Name            string       `gorm:"not null" json:"name"`
	Email           *string      `gorm:"uniqueIndex" json:"email,omitempty"`
	PhoneNumber     string       `gorm:"uniqueIndex;not null" json:"phoneNumber"`
	IsPhoneVerified bool         `gorm:"default:false" json:"isPhoneVerified"`
	ProfilePicture  string       `json:"profilePicture,omitempty"`
	PushToken       string       `json:"-"`
	Addresses       []Address    `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
	UPIAccounts     []UPIAccount `gorm:"foreignKey:UserID" json:"upiAccounts,omitempty"`
	Membership      Membership   `gorm:"serializer:json;type:jsonb" json:"membership"`
	Settings        Settings     `gorm:"serializer:json;type:jsonb" json:"settings"`
	LastLogin       *time.Time   `json:"lastLogin,omitempty"`
}
