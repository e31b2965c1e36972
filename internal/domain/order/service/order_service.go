package service

import (
	"errors"
	"fmt"
	"time"

	"cake_shop_backend/internal/domain/order/model"
	"cake_shop_backend/internal/domain/order/repository"
	staffModel "cake_shop_backend/internal/domain/staff/model"
	staffService "cake_shop_backend/internal/domain/staff/service"
	"cake_shop_backend/internal/pkg/notify"
	"cake_shop_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemInput 下单行项目
type ItemInput struct {
	ProductID string
	Quantity  int
	Price     int64
}

// CreateOrderInput 下单输入，支付方式由结算策略填充
type CreateOrderInput struct {
	Items                []ItemInput
	TotalAmount          int64
	Shipping             model.ShippingAddress
	OrderInstructions    string
	DeliveryInstructions string
}

// DeliveryStatusInput 配送员状态上报，两个字段都可单独出现
type DeliveryStatusInput struct {
	Status        *string
	PaymentStatus *string
}

// OrderService 订单服务接口
type OrderService interface {
	// PrepareOrder 构造未落库的订单：生成业务单号并做就近分配
	PrepareOrder(userID string, input CreateOrderInput) (*model.Order, error)

	ListUserOrders(userID string) ([]model.Order, error)
	GetUserOrder(userID, orderID string) (*model.Order, error)
	CancelUserOrder(userID, orderID, reason string) (*model.Order, error)

	ListOrders(adminID string) ([]model.Order, error)
	GetOrder(orderID string) (*model.Order, error)
	UpdateStatus(orderID, status string) (*model.Order, error)
	AssignToAdmin(orderID, adminID string) (*model.Order, error)
	AssignToDeliveryBoy(orderID, deliveryBoyID string) (*model.Order, error)

	ListDeliveryOrders(deliveryBoyID string) ([]model.Order, error)
	GetDeliveryOrder(deliveryBoyID, orderID string) (*model.Order, error)
	UpdateDeliveryStatus(deliveryBoyID, orderID string, input DeliveryStatusInput) (*model.Order, error)
	VerifyCODPayment(deliveryBoyID, orderID string, amount int64, notes string) (*model.Order, error)
}

type orderService struct {
	repo     repository.OrderRepository
	staff    staffService.StaffService
	notifier notify.Notifier
}

// NewOrderService 创建订单服务
func NewOrderService(repo repository.OrderRepository, staff staffService.StaffService, notifier notify.Notifier) OrderService {
	return &orderService{repo: repo, staff: staff, notifier: notifier}
}

// PrepareOrder 生成订单骨架：业务单号、行项目快照、就近分配
// 地址不带坐标或没有候选管理员时订单保持未分配，不算错误
func (s *orderService) PrepareOrder(userID string, input CreateOrderInput) (*model.Order, error) {
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order := &model.Order{
		OrderID:              model.GenerateOrderID(),
		UserID:               userID,
		Items:                items,
		TotalAmount:          input.TotalAmount,
		Status:               model.StatusPending,
		PaymentStatus:        model.PaymentPending,
		Shipping:             input.Shipping,
		OrderInstructions:    input.OrderInstructions,
		DeliveryInstructions: input.DeliveryInstructions,
	}

	if input.Shipping.HasLocation() {
		admin, distance, err := s.staff.FindNearestAdmin(*input.Shipping.Latitude, *input.Shipping.Longitude)
		if err != nil {
			return nil, err
		}
		if admin != nil {
			order.AssignedToAdmin = &admin.ID
			logger.Log.Info("order assigned to nearest admin",
				zap.String("order_id", order.OrderID),
				zap.String("admin_id", admin.ID),
				zap.Float64("distance_km", distance))
		}
	}

	return order, nil
}

func (s *orderService) ListUserOrders(userID string) ([]model.Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *orderService) GetUserOrder(userID, orderID string) (*model.Order, error) {
	order, err := s.repo.GetForUser(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// CancelUserOrder 顾客取消订单，仅 Pending 可取消
func (s *orderService) CancelUserOrder(userID, orderID, reason string) (*model.Order, error) {
	order, err := s.GetUserOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != model.StatusPending {
		return nil, ErrNotCancellable
	}

	now := time.Now()
	order.Status = model.StatusCancelled
	order.CancelledAt = &now
	if reason == "" {
		reason = "Cancelled by user"
	}
	order.CancellationReason = reason

	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	if order.AssignedToAdmin != nil {
		s.notifier.Notify(notify.StaffChannel(*order.AssignedToAdmin), notify.Event{
			Type:      notify.EventOrderStatusChange,
			Message:   fmt.Sprintf("Order %s cancelled by customer", order.OrderID),
			Data:      map[string]interface{}{"orderId": order.OrderID, "status": order.Status},
			Timestamp: now,
		})
	}
	return order, nil
}

// ListOrders 管理员订单列表：分配给自己的和未分配的
func (s *orderService) ListOrders(adminID string) ([]model.Order, error) {
	return s.repo.ListForAdmin(adminID)
}

func (s *orderService) GetOrder(orderID string) (*model.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// UpdateStatus 管理员改单，任何合法状态都可直接设置
func (s *orderService) UpdateStatus(orderID, status string) (*model.Order, error) {
	if !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	s.notifyStatusChange(order)
	return order, nil
}

// AssignToAdmin 手工改派订单给指定管理员
func (s *orderService) AssignToAdmin(orderID, adminID string) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	admin, err := s.staff.GetProfile(adminID)
	if err != nil || !admin.IsActive || admin.Role != staffModel.RoleAdmin {
		return nil, ErrInvalidAssignee
	}

	order.AssignedToAdmin = &adminID
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// AssignToDeliveryBoy 派单给配送员，订单进入 Shipped
func (s *orderService) AssignToDeliveryBoy(orderID, deliveryBoyID string) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.staff.GetDeliveryBoy(deliveryBoyID); err != nil {
		return nil, ErrDeliveryNotFound
	}

	order.AssignedToDeliveryBoy = &deliveryBoyID
	order.Status = model.StatusShipped
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	now := time.Now()
	s.notifier.Notify(notify.StaffChannel(deliveryBoyID), notify.Event{
		Type:      notify.EventOrderAssigned,
		Message:   fmt.Sprintf("Order %s assigned to you", order.OrderID),
		Data:      map[string]interface{}{"orderId": order.OrderID, "totalAmount": order.TotalAmount},
		Timestamp: now,
	})
	s.notifyStatusChange(order)

	return order, nil
}

func (s *orderService) ListDeliveryOrders(deliveryBoyID string) ([]model.Order, error) {
	return s.repo.ListByDeliveryBoy(deliveryBoyID)
}

func (s *orderService) GetDeliveryOrder(deliveryBoyID, orderID string) (*model.Order, error) {
	order, err := s.repo.GetForDeliveryBoy(orderID, deliveryBoyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	return order, nil
}

// UpdateDeliveryStatus 配送员状态上报
// 订单状态只能设置 Delivered / Cancelled；Delivered 时记录实际送达时间并自动完成支付
func (s *orderService) UpdateDeliveryStatus(deliveryBoyID, orderID string, input DeliveryStatusInput) (*model.Order, error) {
	order, err := s.GetDeliveryOrder(deliveryBoyID, orderID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		status := *input.Status
		if status != model.StatusDelivered && status != model.StatusCancelled {
			return nil, ErrInvalidStatus
		}
		order.Status = status
		if status == model.StatusDelivered {
			now := time.Now()
			order.ActualDelivery = &now
			order.PaymentStatus = model.PaymentCompleted
		}
	}

	if input.PaymentStatus != nil {
		ps := *input.PaymentStatus
		// 配送员不允许标记 Refunded
		if ps != model.PaymentPending && ps != model.PaymentCompleted && ps != model.PaymentFailed {
			return nil, ErrInvalidStatus
		}
		order.PaymentStatus = ps
	}

	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	if input.Status != nil {
		s.notifyStatusChange(order)
	}
	return order, nil
}

// VerifyCODPayment 配送员核验货到付款收款
// 必须是分配给自己的 COD 订单、未完成支付、金额与订单总额完全一致
func (s *orderService) VerifyCODPayment(deliveryBoyID, orderID string, amount int64, notes string) (*model.Order, error) {
	order, err := s.GetDeliveryOrder(deliveryBoyID, orderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod != model.MethodCOD {
		return nil, ErrNotCODOrder
	}
	if order.PaymentStatus == model.PaymentCompleted {
		return nil, ErrPaymentDone
	}
	if amount != order.TotalAmount {
		return nil, &AmountMismatchError{Expected: order.TotalAmount, Received: amount}
	}

	now := time.Now()
	order.PaymentStatus = model.PaymentCompleted
	order.Verification = model.PaymentVerification{
		By:     &deliveryBoyID,
		At:     &now,
		Amount: amount,
		Notes:  notes,
		Method: model.MethodCOD,
	}

	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	if order.AssignedToAdmin != nil {
		s.notifier.Notify(notify.StaffChannel(*order.AssignedToAdmin), notify.Event{
			Type:    notify.EventPaymentCompleted,
			Message: fmt.Sprintf("COD payment collected for order %s", order.OrderID),
			Data: map[string]interface{}{
				"orderId":       order.OrderID,
				"totalAmount":   order.TotalAmount,
				"paymentMethod": order.PaymentMethod,
				"verifiedBy":    deliveryBoyID,
			},
			Timestamp: now,
		})
	}
	return order, nil
}

func (s *orderService) notifyStatusChange(order *model.Order) {
	s.notifier.Notify(notify.UserChannel(order.UserID), notify.Event{
		Type:      notify.EventOrderStatusChange,
		Message:   fmt.Sprintf("Your order %s is now %s", order.OrderID, order.Status),
		Data:      map[string]interface{}{"orderId": order.OrderID, "status": order.Status},
		Timestamp: time.Now(),
	})
}
