package service

import (
	"testing"

	"cake_shop_backend/internal/domain/order/model"
	staffModel "cake_shop_backend/internal/domain/staff/model"
	staffService "cake_shop_backend/internal/domain/staff/service"
	"cake_shop_backend/internal/pkg/config"
	"cake_shop_backend/internal/pkg/notify"
	baseModel "cake_shop_backend/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func init() {
	config.GlobalConfig.JWT.Secret = "unit-test-secret-key-0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 24
}

// MockOrderRepository is a mock of OrderRepository
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

// MockStaffService is a mock of staff service
type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) Login(email, password, role string) (string, *staffModel.Staff, error) {
	args := m.Called(email, password, role)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*staffModel.Staff), args.Error(2)
}

func (m *MockStaffService) GetProfile(id string) (*staffModel.Staff, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) ListAdmins() ([]staffModel.Staff, error) {
	args := m.Called()
	return args.Get(0).([]staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) FindNearestAdmin(lat, lon float64) (*staffModel.Staff, float64, error) {
	args := m.Called(lat, lon)
	if args.Get(0) == nil {
		return nil, args.Get(1).(float64), args.Error(2)
	}
	return args.Get(0).(*staffModel.Staff), args.Get(1).(float64), args.Error(2)
}

func (m *MockStaffService) CreateFirstAdmin(input staffService.StaffSignupInput) (*staffModel.Staff, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) SignupStaff(input staffService.StaffSignupInput) (*staffModel.Staff, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) CreateDeliveryBoy(input staffService.CreateDeliveryBoyInput) (*staffModel.Staff, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) UpdateDeliveryBoy(id string, input staffService.UpdateDeliveryBoyInput) (*staffModel.Staff, error) {
	args := m.Called(id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) DeleteDeliveryBoy(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStaffService) ListDeliveryBoys() ([]staffModel.Staff, error) {
	args := m.Called()
	return args.Get(0).([]staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) GetDeliveryBoy(id string) (*staffModel.Staff, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffModel.Staff), args.Error(1)
}

func (m *MockStaffService) UpdateDeliveryLocation(id string, lat, lon float64) error {
	args := m.Called(id, lat, lon)
	return args.Error(0)
}

func (m *MockStaffService) UpdateDeliveryAvailability(id string, available bool) error {
	args := m.Called(id, available)
	return args.Error(0)
}

func (m *MockStaffService) RegisterPushToken(id, token string) error {
	args := m.Called(id, token)
	return args.Error(0)
}

// MockNotifier is a mock of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(channel string, event notify.Event) {
	m.Called(channel, event)
}

func (m *MockNotifier) RegisterToken(subjectID, token, role string) {
	m.Called(subjectID, token, role)
}

func (m *MockNotifier) DeregisterToken(subjectID string) {
	m.Called(subjectID)
}

func pendingOrder(id, userID string) *model.Order {
	return &model.Order{
		BaseModel:     baseModel.BaseModel{ID: id},
		OrderID:       "ORD2509010042",
		UserID:        userID,
		TotalAmount:   1500,
		Status:        model.StatusPending,
		PaymentMethod: model.MethodCOD,
		PaymentStatus: model.PaymentPending,
	}
}

func TestPrepareOrder(t *testing.T) {
	t.Run("Assigns nearest admin when address has location", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockStaff := new(MockStaffService)
		service := NewOrderService(mockRepo, mockStaff, new(MockNotifier))

		admin := &staffModel.Staff{BaseModel: baseModel.BaseModel{ID: "admin-1"}}
		mockStaff.On("FindNearestAdmin", 28.6139, 77.2090).Return(admin, 3.2, nil)

		lat, lon := 28.6139, 77.2090
		order, err := service.PrepareOrder("user-1", CreateOrderInput{
			Items:       []ItemInput{{ProductID: "cake-1", Quantity: 2, Price: 750}},
			TotalAmount: 1500,
			Shipping:    model.ShippingAddress{Type: "Home", City: "Delhi", State: "Delhi", Pincode: "110001", Latitude: &lat, Longitude: &lon},
		})

		assert.NoError(t, err)
		assert.NotNil(t, order.AssignedToAdmin)
		assert.Equal(t, "admin-1", *order.AssignedToAdmin)
		assert.Equal(t, model.StatusPending, order.Status)
		assert.Equal(t, model.PaymentPending, order.PaymentStatus)
		assert.Len(t, order.Items, 1)
		assert.Regexp(t, `^ORD\d{10}$`, order.OrderID)
	})

	t.Run("No candidates leaves order unassigned", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockStaff := new(MockStaffService)
		service := NewOrderService(mockRepo, mockStaff, new(MockNotifier))

		mockStaff.On("FindNearestAdmin", 28.6139, 77.2090).Return(nil, 0.0, nil)

		lat, lon := 28.6139, 77.2090
		order, err := service.PrepareOrder("user-1", CreateOrderInput{
			TotalAmount: 500,
			Shipping:    model.ShippingAddress{Latitude: &lat, Longitude: &lon},
		})

		assert.NoError(t, err)
		assert.Nil(t, order.AssignedToAdmin)
	})

	t.Run("Address without location skips assignment", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockStaff := new(MockStaffService)
		service := NewOrderService(mockRepo, mockStaff, new(MockNotifier))

		order, err := service.PrepareOrder("user-1", CreateOrderInput{
			TotalAmount: 500,
			Shipping:    model.ShippingAddress{Type: "Home", City: "Delhi"},
		})

		assert.NoError(t, err)
		assert.Nil(t, order.AssignedToAdmin)
		mockStaff.AssertNotCalled(t, "FindNearestAdmin", mock.Anything, mock.Anything)
	})
}

func TestCancelUserOrder(t *testing.T) {
	t.Run("Pending order cancels with default reason", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		order := pendingOrder("o1", "user-1")
		mockRepo.On("GetForUser", "o1", "user-1").Return(order, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)

		got, err := service.CancelUserOrder("user-1", "o1", "")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, got.Status)
		assert.Equal(t, "Cancelled by user", got.CancellationReason)
		assert.NotNil(t, got.CancelledAt)
	})

	t.Run("Custom reason is kept", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		order := pendingOrder("o1", "user-1")
		mockRepo.On("GetForUser", "o1", "user-1").Return(order, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)

		got, err := service.CancelUserOrder("user-1", "o1", "Changed my mind")

		assert.NoError(t, err)
		assert.Equal(t, "Changed my mind", got.CancellationReason)
	})

	t.Run("Non-pending order cannot be cancelled", func(t *testing.T) {
		for _, status := range []string{model.StatusProcessing, model.StatusShipped, model.StatusDelivered, model.StatusCancelled} {
			mockRepo := new(MockOrderRepository)
			service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

			order := pendingOrder("o1", "user-1")
			order.Status = status
			mockRepo.On("GetForUser", "o1", "user-1").Return(order, nil)

			_, err := service.CancelUserOrder("user-1", "o1", "")

			assert.ErrorIs(t, err, ErrNotCancellable, status)
			mockRepo.AssertNotCalled(t, "Update", mock.Anything)
		}
	})

	t.Run("Order of another user is invisible", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		mockRepo.On("GetForUser", "o1", "user-2").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.CancelUserOrder("user-2", "o1", "")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestAssignToDeliveryBoy(t *testing.T) {
	t.Run("Assignment forces shipped status and notifies", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockStaff := new(MockStaffService)
		mockNotifier := new(MockNotifier)
		service := NewOrderService(mockRepo, mockStaff, mockNotifier)

		order := pendingOrder("o1", "user-1")
		boy := &staffModel.Staff{BaseModel: baseModel.BaseModel{ID: "boy-1"}, Role: staffModel.RoleDeliveryBoy}
		mockRepo.On("GetByID", "o1").Return(order, nil)
		mockStaff.On("GetDeliveryBoy", "boy-1").Return(boy, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		mockNotifier.On("Notify", notify.StaffChannel("boy-1"), mock.AnythingOfType("notify.Event")).Return()
		mockNotifier.On("Notify", notify.UserChannel("user-1"), mock.AnythingOfType("notify.Event")).Return()

		got, err := service.AssignToDeliveryBoy("o1", "boy-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusShipped, got.Status)
		assert.Equal(t, "boy-1", *got.AssignedToDeliveryBoy)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Unknown delivery boy", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockStaff := new(MockStaffService)
		service := NewOrderService(mockRepo, mockStaff, new(MockNotifier))

		order := pendingOrder("o1", "user-1")
		mockRepo.On("GetByID", "o1").Return(order, nil)
		mockStaff.On("GetDeliveryBoy", "ghost").Return(nil, staffService.ErrStaffNotFound)

		_, err := service.AssignToDeliveryBoy("o1", "ghost")

		assert.ErrorIs(t, err, ErrDeliveryNotFound)
	})
}

func TestUpdateDeliveryStatus(t *testing.T) {
	boyID := "boy-1"

	assignedOrder := func() *model.Order {
		order := pendingOrder("o1", "user-1")
		order.Status = model.StatusShipped
		order.AssignedToDeliveryBoy = &boyID
		return order
	}

	t.Run("Delivered stamps actual delivery and completes payment", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockNotifier := new(MockNotifier)
		service := NewOrderService(mockRepo, new(MockStaffService), mockNotifier)

		order := assignedOrder()
		mockRepo.On("GetForDeliveryBoy", "o1", boyID).Return(order, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		mockNotifier.On("Notify", notify.UserChannel("user-1"), mock.AnythingOfType("notify.Event")).Return()

		status := model.StatusDelivered
		got, err := service.UpdateDeliveryStatus(boyID, "o1", DeliveryStatusInput{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDelivered, got.Status)
		assert.NotNil(t, got.ActualDelivery)
		assert.Equal(t, model.PaymentCompleted, got.PaymentStatus)
	})

	t.Run("Delivery boy cannot set processing", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		order := assignedOrder()
		mockRepo.On("GetForDeliveryBoy", "o1", boyID).Return(order, nil)

		status := model.StatusProcessing
		_, err := service.UpdateDeliveryStatus(boyID, "o1", DeliveryStatusInput{Status: &status})

		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Delivery boy cannot mark refund", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		order := assignedOrder()
		mockRepo.On("GetForDeliveryBoy", "o1", boyID).Return(order, nil)

		ps := model.PaymentRefunded
		_, err := service.UpdateDeliveryStatus(boyID, "o1", DeliveryStatusInput{PaymentStatus: &ps})

		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestVerifyCODPayment(t *testing.T) {
	boyID := "boy-1"

	codOrder := func() *model.Order {
		order := pendingOrder("o1", "user-1")
		order.Status = model.StatusShipped
		order.AssignedToDeliveryBoy = &boyID
		adminID := "admin-1"
		order.AssignedToAdmin = &adminID
		return order
	}

	t.Run("Exact amount completes payment", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockNotifier := new(MockNotifier)
		service := NewOrderService(mockRepo, new(MockStaffService), mockNotifier)

		order := codOrder()
		mockRepo.On("GetForDeliveryBoy", "o1", boyID).Return(order, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		mockNotifier.On("Notify", notify.StaffChannel("admin-1"), mock.AnythingOfType("notify.Event")).Return()

		got, err := service.VerifyCODPayment(boyID, "o1", 1500, "collected in cash")

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentCompleted, got.PaymentStatus)
		assert.Equal(t, int64(1500), got.Verification.Amount)
		assert.Equal(t, boyID, *got.Verification.By)
		assert.Equal(t, model.MethodCOD, got.Verification.Method)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Amount mismatch carries expected and received", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		order := codOrder()
		mockRepo.On("GetForDeliveryBoy", "o1", boyID).Return(order, nil)

		_, err := service.VerifyCODPayment(boyID, "o1", 1400, "")

		var mismatch *AmountMismatchError
		assert.ErrorAs(t, err, &mismatch)
		assert.Equal(t, int64(1500), mismatch.Expected)
		assert.Equal(t, int64(1400), mismatch.Received)
		assert.Contains(t, err.Error(), "Expected: ₹1500, Received: ₹1400")
		mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Non-COD order rejected", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		order := codOrder()
		order.PaymentMethod = model.MethodRazorpay
		mockRepo.On("GetForDeliveryBoy", "o1", boyID).Return(order, nil)

		_, err := service.VerifyCODPayment(boyID, "o1", 1500, "")

		assert.ErrorIs(t, err, ErrNotCODOrder)
	})

	t.Run("Completed payment rejected", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, new(MockStaffService), new(MockNotifier))

		order := codOrder()
		order.PaymentStatus = model.PaymentCompleted
		mockRepo.On("GetForDeliveryBoy", "o1", boyID).Return(order, nil)

		_, err := service.VerifyCODPayment(boyID, "o1", 1500, "")

		assert.ErrorIs(t, err, ErrPaymentDone)
	})
}
