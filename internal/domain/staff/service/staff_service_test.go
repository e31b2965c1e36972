package service

import (
	"testing"

	"cake_shop_backend/internal/domain/staff/model"
	"cake_shop_backend/internal/pkg/config"
	"cake_shop_backend/internal/pkg/notify"
	baseModel "cake_shop_backend/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	config.GlobalConfig.JWT.Secret = "unit-test-secret-key-0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 24
}

// MockStaffRepository is a mock of StaffRepository
type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) Create(staff *model.Staff) error {
	args := m.Called(staff)
	return args.Error(0)
}

func (m *MockStaffRepository) GetByID(id string) (*model.Staff, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffRepository) GetByEmail(email string) (*model.Staff, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffRepository) GetByRole(id, role string) (*model.Staff, error) {
	args := m.Called(id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Staff), args.Error(1)
}

func (m *MockStaffRepository) CountByRole(role string) (int64, error) {
	args := m.Called(role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStaffRepository) ListAdmins() ([]model.Staff, error) {
	args := m.Called()
	return args.Get(0).([]model.Staff), args.Error(1)
}

func (m *MockStaffRepository) ListActiveAdminsWithLocation() ([]model.Staff, error) {
	args := m.Called()
	return args.Get(0).([]model.Staff), args.Error(1)
}

func (m *MockStaffRepository) ListDeliveryBoys() ([]model.Staff, error) {
	args := m.Called()
	return args.Get(0).([]model.Staff), args.Error(1)
}

func (m *MockStaffRepository) Update(staff *model.Staff) error {
	args := m.Called(staff)
	return args.Error(0)
}

func (m *MockStaffRepository) UpdateLastLogin(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStaffRepository) UpdatePushToken(id, token string) error {
	args := m.Called(id, token)
	return args.Error(0)
}

func (m *MockStaffRepository) Delete(staff *model.Staff) error {
	args := m.Called(staff)
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

func createTestAdmin(id string, lat, lon float64) model.Staff {
	return model.Staff{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "Admin " + id,
		Email:     id + "@cakeshop.test",
		Role:      model.RoleAdmin,
		Latitude:  &lat,
		Longitude: &lon,
		IsActive:  true,
	}
}

func TestLogin(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)

	t.Run("Login success", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		staff := &model.Staff{
			BaseModel: baseModel.BaseModel{ID: "admin-1"},
			Email:     "admin@cakeshop.test",
			Password:  string(hashed),
			Role:      model.RoleAdmin,
			IsActive:  true,
		}
		mockRepo.On("GetByEmail", "admin@cakeshop.test").Return(staff, nil)
		mockRepo.On("UpdateLastLogin", "admin-1").Return(nil)

		token, got, err := service.Login("admin@cakeshop.test", "secret123", model.RoleAdmin)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "admin-1", got.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		staff := &model.Staff{
			BaseModel: baseModel.BaseModel{ID: "admin-1"},
			Email:     "admin@cakeshop.test",
			Password:  string(hashed),
			Role:      model.RoleAdmin,
			IsActive:  true,
		}
		mockRepo.On("GetByEmail", "admin@cakeshop.test").Return(staff, nil)

		token, _, err := service.Login("admin@cakeshop.test", "wrong", model.RoleAdmin)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("Unknown email", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("GetByEmail", "ghost@cakeshop.test").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := service.Login("ghost@cakeshop.test", "secret123", "")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Deactivated account rejected", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		staff := &model.Staff{
			BaseModel: baseModel.BaseModel{ID: "admin-1"},
			Email:     "admin@cakeshop.test",
			Password:  string(hashed),
			Role:      model.RoleAdmin,
			IsActive:  false,
		}
		mockRepo.On("GetByEmail", "admin@cakeshop.test").Return(staff, nil)

		_, _, err := service.Login("admin@cakeshop.test", "secret123", model.RoleAdmin)

		assert.ErrorIs(t, err, ErrAccountDisabled)
	})

	t.Run("Role mismatch rejected", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		staff := &model.Staff{
			BaseModel: baseModel.BaseModel{ID: "boy-1"},
			Email:     "boy@cakeshop.test",
			Password:  string(hashed),
			Role:      model.RoleDeliveryBoy,
			IsActive:  true,
		}
		mockRepo.On("GetByEmail", "boy@cakeshop.test").Return(staff, nil)

		_, _, err := service.Login("boy@cakeshop.test", "secret123", model.RoleAdmin)

		assert.ErrorIs(t, err, ErrRoleMismatch)
	})
}

func TestFindNearestAdmin(t *testing.T) {
	t.Run("Picks the closest admin", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		// 配送地址在新德里，候选分别在德里、孟买、班加罗尔
		admins := []model.Staff{
			createTestAdmin("delhi", 28.7041, 77.1025),
			createTestAdmin("mumbai", 19.0760, 72.8777),
			createTestAdmin("bangalore", 12.9716, 77.5946),
		}
		mockRepo.On("ListActiveAdminsWithLocation").Return(admins, nil)

		nearest, dist, err := service.FindNearestAdmin(28.6139, 77.2090)

		assert.NoError(t, err)
		assert.NotNil(t, nearest)
		assert.Equal(t, "delhi", nearest.ID)
		assert.Less(t, dist, 20.0)
	})

	t.Run("Empty candidate set means no assignment", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("ListActiveAdminsWithLocation").Return([]model.Staff{}, nil)

		nearest, dist, err := service.FindNearestAdmin(28.6139, 77.2090)

		assert.NoError(t, err)
		assert.Nil(t, nearest)
		assert.Zero(t, dist)
	})

	t.Run("Tie keeps the first candidate", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		// 两个候选坐标完全相同
		admins := []model.Staff{
			createTestAdmin("first", 28.7041, 77.1025),
			createTestAdmin("second", 28.7041, 77.1025),
		}
		mockRepo.On("ListActiveAdminsWithLocation").Return(admins, nil)

		nearest, _, err := service.FindNearestAdmin(28.6139, 77.2090)

		assert.NoError(t, err)
		assert.Equal(t, "first", nearest.ID)
	})

	t.Run("Returned distance matches the winner", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		admins := []model.Staff{
			createTestAdmin("far", 19.0760, 72.8777),
			createTestAdmin("near", 28.6200, 77.2100),
		}
		mockRepo.On("ListActiveAdminsWithLocation").Return(admins, nil)

		nearest, dist, err := service.FindNearestAdmin(28.6139, 77.2090)

		assert.NoError(t, err)
		assert.Equal(t, "near", nearest.ID)
		assert.InDelta(t, 0.7, dist, 0.7)
	})
}

func TestCreateFirstAdmin(t *testing.T) {
	t.Run("Bootstrap creates admin with every permission", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		lat, lon := 28.7041, 77.1025
		mockRepo.On("CountByRole", model.RoleAdmin).Return(int64(0), nil)
		mockRepo.On("GetByEmail", "owner@cakeshop.test").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.Staff")).Return(nil)

		staff, err := service.CreateFirstAdmin(StaffSignupInput{
			Name:        "Owner",
			Email:       "owner@cakeshop.test",
			Password:    "secret123",
			PhoneNumber: "9000000001",
			Latitude:    &lat,
			Longitude:   &lon,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, staff.Role)
		assert.ElementsMatch(t, []string{
			model.PermManageUsers,
			model.PermManageProducts,
			model.PermManageOrders,
			model.PermViewAnalytics,
			model.PermManageDelivery,
		}, staff.Permissions)
		assert.True(t, staff.HasLocation())
		assert.NotEqual(t, "secret123", staff.Password)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rejected once an admin exists", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("CountByRole", model.RoleAdmin).Return(int64(1), nil)

		_, err := service.CreateFirstAdmin(StaffSignupInput{
			Name:        "Second Owner",
			Email:       "second@cakeshop.test",
			Password:    "secret123",
			PhoneNumber: "9000000002",
		})

		assert.ErrorIs(t, err, ErrAdminExists)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestSignupStaff(t *testing.T) {
	t.Run("Admin role gets default admin permissions", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("GetByEmail", "second@cakeshop.test").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.Staff")).Return(nil)

		staff, err := service.SignupStaff(StaffSignupInput{
			Name:        "Second Admin",
			Email:       "second@cakeshop.test",
			Password:    "secret123",
			PhoneNumber: "9000000003",
			Role:        model.RoleAdmin,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, staff.Role)
		assert.ElementsMatch(t, []string{
			model.PermManageUsers,
			model.PermManageProducts,
			model.PermManageOrders,
			model.PermViewAnalytics,
		}, staff.Permissions)
		assert.False(t, staff.HasPermission(model.PermManageDelivery))
	})

	t.Run("Delivery role gets delivery permission and vehicle details", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("GetByEmail", "rider@cakeshop.test").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.Staff")).Return(nil)

		staff, err := service.SignupStaff(StaffSignupInput{
			Name:          "Rider",
			Email:         "rider@cakeshop.test",
			Password:      "secret123",
			PhoneNumber:   "9000000004",
			Role:          model.RoleDeliveryBoy,
			VehicleNumber: "DL-02-CD-5678",
			VehicleType:   model.VehicleScooter,
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{model.PermManageDelivery}, staff.Permissions)
		assert.Equal(t, "DL-02-CD-5678", staff.Delivery.VehicleNumber)
		assert.True(t, staff.Delivery.IsAvailable)
	})

	t.Run("Explicit permissions override the defaults", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("GetByEmail", "ops@cakeshop.test").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.Staff")).Return(nil)

		staff, err := service.SignupStaff(StaffSignupInput{
			Name:        "Ops",
			Email:       "ops@cakeshop.test",
			Password:    "secret123",
			PhoneNumber: "9000000005",
			Role:        model.RoleAdmin,
			Permissions: []string{model.PermManageOrders},
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{model.PermManageOrders}, staff.Permissions)
	})

	t.Run("Duplicate email rejected", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		existing := createTestAdmin("a1", 0, 0)
		mockRepo.On("GetByEmail", "taken@cakeshop.test").Return(&existing, nil)

		_, err := service.SignupStaff(StaffSignupInput{
			Name:        "Clone",
			Email:       "taken@cakeshop.test",
			Password:    "secret123",
			PhoneNumber: "9000000006",
			Role:        model.RoleAdmin,
		})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestCreateDeliveryBoy(t *testing.T) {
	t.Run("Create success", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("GetByEmail", "boy@cakeshop.test").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.Staff")).Return(nil)

		staff, err := service.CreateDeliveryBoy(CreateDeliveryBoyInput{
			Name:          "Ravi",
			Email:         "boy@cakeshop.test",
			Password:      "secret123",
			PhoneNumber:   "9876543210",
			VehicleNumber: "DL-01-AB-1234",
			VehicleType:   model.VehicleBike,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.RoleDeliveryBoy, staff.Role)
		assert.True(t, staff.Delivery.IsAvailable)
		assert.NotEqual(t, "secret123", staff.Password) // stored hashed
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email rejected", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		existing := createTestAdmin("a1", 0, 0)
		mockRepo.On("GetByEmail", "taken@cakeshop.test").Return(&existing, nil)

		_, err := service.CreateDeliveryBoy(CreateDeliveryBoyInput{
			Name:     "Ravi",
			Email:    "taken@cakeshop.test",
			Password: "secret123",
		})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestUpdateDeliveryBoy(t *testing.T) {
	t.Run("Only allowed fields change", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		boy := &model.Staff{
			BaseModel:   baseModel.BaseModel{ID: "boy-1"},
			Name:        "Ravi",
			Email:       "boy@cakeshop.test",
			PhoneNumber: "9876543210",
			Role:        model.RoleDeliveryBoy,
			IsActive:    true,
		}
		mockRepo.On("GetByRole", "boy-1", model.RoleDeliveryBoy).Return(boy, nil)
		mockRepo.On("Update", mock.AnythingOfType("*model.Staff")).Return(nil)

		newName := "Ravi Kumar"
		inactive := false
		updated, err := service.UpdateDeliveryBoy("boy-1", UpdateDeliveryBoyInput{
			Name:     &newName,
			IsActive: &inactive,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Ravi Kumar", updated.Name)
		assert.False(t, updated.IsActive)
		assert.Equal(t, "9876543210", updated.PhoneNumber)
	})

	t.Run("Unknown delivery boy", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		mockRepo.On("GetByRole", "ghost", model.RoleDeliveryBoy).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.UpdateDeliveryBoy("ghost", UpdateDeliveryBoyInput{})

		assert.ErrorIs(t, err, ErrStaffNotFound)
	})
}

func TestUpdateDeliveryLocation(t *testing.T) {
	t.Run("Admin cannot report delivery location", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		service := NewStaffService(mockRepo, new(MockNotifier))

		admin := createTestAdmin("admin-1", 28.7, 77.1)
		mockRepo.On("GetByID", "admin-1").Return(&admin, nil)

		err := service.UpdateDeliveryLocation("admin-1", 28.61, 77.20)

		assert.ErrorIs(t, err, ErrNotDeliveryBoy)
	})
}

func TestRegisterPushToken(t *testing.T) {
	t.Run("Token stored and registered with notifier", func(t *testing.T) {
		mockRepo := new(MockStaffRepository)
		mockNotifier := new(MockNotifier)
		service := NewStaffService(mockRepo, mockNotifier)

		boy := &model.Staff{
			BaseModel: baseModel.BaseModel{ID: "boy-1"},
			Role:      model.RoleDeliveryBoy,
		}
		mockRepo.On("GetByID", "boy-1").Return(boy, nil)
		mockRepo.On("UpdatePushToken", "boy-1", "device-token").Return(nil)
		mockNotifier.On("RegisterToken", "boy-1", "device-token", model.RoleDeliveryBoy).Return()

		err := service.RegisterPushToken("boy-1", "device-token")

		assert.NoError(t, err)
		mockNotifier.AssertExpectations(t)
	})
}
