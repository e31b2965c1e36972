package notify

import "time"

// 事件类型
const (
	EventNewOrder          = "NEW_ORDER"
	EventOrderStatusChange = "ORDER_STATUS_CHANGE"
	EventPaymentCompleted  = "PAYMENT_COMPLETED"
	EventOrderAssigned     = "ORDER_ASSIGNED"
)

// Event 通知事件载荷
type Event struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// StaffChannel 员工 (admin / delivery_boy) 的通知频道
func StaffChannel(staffID string) string {
	return "staff_" + staffID
}

// UserChannel 顾客的通知频道
func UserChannel(userID string) string {
	return "user_" + userID
}

// titleFor 推送标题按事件类型固定
func titleFor(eventType string) string {
	switch eventType {
	case EventNewOrder:
		return "New Order Received"
	case EventOrderStatusChange:
		return "Order Status Updated"
	case EventPaymentCompleted:
		return "Payment Completed"
	case EventOrderAssigned:
		return "Order Assigned"
	default:
		return "Notification"
	}
}
