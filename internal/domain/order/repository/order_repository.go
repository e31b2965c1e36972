package repository

import (
	"errors"

	"cake_shop_backend/internal/domain/order/model"

	"gorm.io/gorm"
)

// createAttempts 业务单号撞唯一索引时的重试上限
const createAttempts = 3

// OrderRepository 接口定义
type OrderRepository interface {
	Create(order *model.Order) error
	CreateTx(tx *gorm.DB, order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetForUser(id, userID string) (*model.Order, error)
	GetForDeliveryBoy(id, deliveryBoyID string) (*model.Order, error)
	GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error)
	ListByUser(userID string) ([]model.Order, error)
	ListForAdmin(adminID string) ([]model.Order, error)
	ListByDeliveryBoy(deliveryBoyID string) ([]model.Order, error)
	Update(order *model.Order) error
	UpdateTx(tx *gorm.DB, order *model.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建新的仓库实例
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.CreateTx(r.db, order)
}

// CreateTx 写入订单，业务单号重复时重新生成再试，最多 createAttempts 次
func (r *orderRepository) CreateTx(tx *gorm.DB, order *model.Order) error {
	var err error
	for i := 0; i < createAttempts; i++ {
		if order.OrderID == "" || i > 0 {
			order.OrderID = model.GenerateOrderID()
		}
		err = tx.Create(order).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		// 撞号重试前清掉已生成的主键，避免带旧 ID 重复插入
		order.ID = ""
	}
	return err
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetForUser(id, userID string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetForDeliveryBoy(id, deliveryBoyID string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").
		Where("id = ? AND assigned_to_delivery_boy = ?", id, deliveryBoyID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByRazorpayOrderID 网关回传验签时按网关单号反查订单
func (r *orderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").
		Where("razorpay_order_id = ?", razorpayOrderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(userID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// ListForAdmin 管理员可见集：分配给自己的和未分配的
func (r *orderRepository) ListForAdmin(adminID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where("assigned_to_admin = ? OR assigned_to_admin IS NULL", adminID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByDeliveryBoy(deliveryBoyID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").
		Where("assigned_to_delivery_boy = ?", deliveryBoyID).
		Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(order *model.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) UpdateTx(tx *gorm.DB, order *model.Order) error {
	return tx.Save(order).Error
}
