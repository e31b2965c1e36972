package strategy

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"cake_shop_backend/internal/domain/order/model"
	"cake_shop_backend/internal/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockGatewayClient is a mock of GatewayClient
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateOrder(ctx context.Context, amount int64, receipt string) (*gateway.GatewayOrder, error) {
	args := m.Called(ctx, amount, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.GatewayOrder), args.Error(1)
}

// MockOrderRepository is a mock of repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateTx(tx *gorm.DB, order *model.Order) error {
	args := m.Called(tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUser(id, userID string) (*model.Order, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForDeliveryBoy(id, deliveryBoyID string) (*model.Order, error) {
	args := m.Called(id, deliveryBoyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error) {
	args := m.Called(razorpayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string) ([]model.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListForAdmin(adminID string) ([]model.Order, error) {
	args := m.Called(adminID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByDeliveryBoy(deliveryBoyID string) ([]model.Order, error) {
	args := m.Called(deliveryBoyID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateTx(tx *gorm.DB, order *model.Order) error {
	args := m.Called(tx, order)
	return args.Error(0)
}

func TestRazorpayCheckout(t *testing.T) {
	t.Run("Receipt is a fresh timestamp, not the business order id", func(t *testing.T) {
		mockGw := new(MockGatewayClient)
		mockRepo := new(MockOrderRepository)
		strategy := NewRazorpayStrategy(mockGw, mockRepo)

		before := time.Now().UnixMilli()
		var receipt string
		mockGw.On("CreateOrder", mock.Anything, int64(2000), mock.MatchedBy(func(r string) bool {
			receipt = r
			return strings.HasPrefix(r, "receipt_")
		})).Return(&gateway.GatewayOrder{ID: "order_gw123", Amount: 200000, Currency: "INR"}, nil)
		mockRepo.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)

		order := &model.Order{OrderID: "ORD2509010042", UserID: "user-1", TotalAmount: 2000}
		result, err := strategy.Checkout(context.Background(), order)

		assert.NoError(t, err)
		assert.NotEqual(t, order.OrderID, receipt)
		ts, convErr := strconv.ParseInt(strings.TrimPrefix(receipt, "receipt_"), 10, 64)
		assert.NoError(t, convErr)
		assert.GreaterOrEqual(t, ts, before)
		assert.Equal(t, "order_gw123", result.Order.RazorpayOrderID)
		assert.Equal(t, model.PaymentPending, result.Order.PaymentStatus)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Gateway failure creates nothing", func(t *testing.T) {
		mockGw := new(MockGatewayClient)
		mockRepo := new(MockOrderRepository)
		strategy := NewRazorpayStrategy(mockGw, mockRepo)

		mockGw.On("CreateOrder", mock.Anything, int64(2000), mock.Anything).
			Return(nil, assert.AnError)

		order := &model.Order{OrderID: "ORD2509010042", UserID: "user-1", TotalAmount: 2000}
		_, err := strategy.Checkout(context.Background(), order)

		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}
