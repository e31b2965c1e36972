package model

import (
	"time"

	baseModel "cake_shop_backend/pkg/model"
)

// 员工角色
const (
	RoleAdmin       = "admin"
	RoleDeliveryBoy = "delivery_boy"
)

// 权限项
const (
	PermManageUsers    = "manage_users"
	PermManageProducts = "manage_products"
	PermManageOrders   = "manage_orders"
	PermViewAnalytics  = "view_analytics"
	PermManageDelivery = "manage_delivery"
)

// 配送车辆类型
const (
	VehicleBike    = "bike"
	VehicleScooter = "scooter"
	VehicleBicycle = "bicycle"
	VehicleOther   = "other"
)

// DeliveryDetails 配送员附加信息
type DeliveryDetails struct {
	VehicleNumber    string   `json:"vehicleNumber"`
	VehicleType      string   `json:"vehicleType"`
	CurrentLatitude  *float64 `json:"currentLatitude,omitempty"`
	CurrentLongitude *float64 `json:"currentLongitude,omitempty"`
	IsAvailable      bool     `gorm:"default:true" json:"isAvailable"`
}

// Staff 后台账号模型，admin 与 delivery_boy 共表，按 role 区分
type Staff struct {
	baseModel.BaseModel
	Name        string          `gorm:"not null" json:"name"`
	Email       string          `gorm:"unique;not null" json:"email"`
	Password    string          `gorm:"not null" json:"-"` // bcrypt 哈希，不返回给前端
	PhoneNumber string          `gorm:"unique;not null" json:"phoneNumber"`
	Role        string          `gorm:"default:'admin'" json:"role"`
	Permissions []string        `gorm:"serializer:json;type:jsonb" json:"permissions"`
	Latitude    *float64        `json:"latitude,omitempty"`
	Longitude   *float64        `json:"longitude,omitempty"`
	PushToken   string          `json:"-"`
	Delivery    DeliveryDetails `gorm:"embedded;embeddedPrefix:delivery_" json:"deliveryDetails"`
	IsActive    bool            `gorm:"default:true" json:"isActive"`
	LastLogin   *time.Time      `json:"lastLogin,omitempty"`
}

// HasPermission 判断是否持有指定权限
func (s *Staff) HasPermission(permission string) bool {
	for _, p := range s.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasLocation 经纬度齐全才参与就近分配
func (s *Staff) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}
