package model

import (
	"fmt"
	"math/rand"
	"time"

	baseModel "cake_shop_backend/pkg/model"
)

// 订单状态
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// 支付方式
const (
	MethodCOD      = "COD"
	MethodRazorpay = "Razorpay"
	MethodWallet   = "Wallet"
)

// 支付状态
const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
	PaymentFailed    = "Failed"
	PaymentRefunded  = "Refunded"
)

// ValidStatus 订单状态合法性检查
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus 支付状态合法性检查
func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// OrderItem 订单行项目，价格为下单时的快照
type OrderItem struct {
	baseModel.BaseModel
	OrderID   string `gorm:"index;not null" json:"orderId"`
	ProductID string `gorm:"not null" json:"productId"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	Price     int64  `gorm:"not null" json:"price"`
}

// ShippingAddress 收货地址快照，随订单冻结
type ShippingAddress struct {
	Type      string   `json:"type"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Pincode   string   `json:"pincode"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasLocation 地址是否带坐标，决定能否做就近分配
func (a ShippingAddress) HasLocation() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// PaymentVerification 货到付款的收款核验记录
type PaymentVerification struct {
	By     *string    `json:"by,omitempty"`
	At     *time.Time `json:"at,omitempty"`
	Amount int64      `json:"amount,omitempty"`
	Notes  string     `json:"notes,omitempty"`
	Method string     `json:"method,omitempty"`
}

// Order 订单
// 金额单位为卢比整数；OrderID 是对外展示的业务单号，与主键分离
type Order struct {
	baseModel.BaseModel
	OrderID               string              `gorm:"uniqueIndex;not null" json:"orderId"`
	UserID                string              `gorm:"index;not null" json:"userId"`
	Items                 []OrderItem         `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount           int64               `gorm:"not null" json:"totalAmount"`
	Status                string              `gorm:"default:'Pending'" json:"status"`
	AssignedToAdmin       *string             `gorm:"index" json:"assignedToAdmin,omitempty"`
	AssignedToDeliveryBoy *string             `gorm:"index" json:"assignedToDeliveryBoy,omitempty"`
	PaymentMethod         string              `gorm:"not null" json:"paymentMethod"`
	PaymentStatus         string              `gorm:"default:'Pending'" json:"paymentStatus"`
	Shipping              ShippingAddress     `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	Verification          PaymentVerification `gorm:"embedded;embeddedPrefix:verified_" json:"paymentDetails,omitempty"`
	OrderInstructions     string              `json:"orderInstructions,omitempty"`
	DeliveryInstructions  string              `json:"deliveryInstructions,omitempty"`
	EstimatedDelivery     *time.Time          `json:"estimatedDelivery,omitempty"`
	ActualDelivery        *time.Time          `json:"actualDelivery,omitempty"`
	TrackingNumber        string              `json:"trackingNumber,omitempty"`
	RazorpayOrderID       string              `gorm:"index" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID     string              `json:"razorpayPaymentId,omitempty"`
	RazorpaySignature     string              `json:"-"`
	CancelledAt           *time.Time          `json:"cancelledAt,omitempty"`
	CancellationReason    string              `json:"cancellationReason,omitempty"`
}

// GenerateOrderID 生成业务单号：ORD + 年月日(6位) + 4位随机数
// 同一天内随机段撞号由唯一索引兜底，调用方重试
func GenerateOrderID() string {
	return fmt.Sprintf("ORD%s%04d", time.Now().Format("060102"), rand.Intn(10000))
}
