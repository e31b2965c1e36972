package service

import (
	"errors"
	"math"

	"cake_shop_backend/internal/domain/staff/model"
	"cake_shop_backend/internal/domain/staff/repository"
	"cake_shop_backend/internal/pkg/notify"
	"cake_shop_backend/pkg/geo"
	"cake_shop_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StaffService 员工服务接口
type StaffService interface {
	Login(email, password, role string) (string, *model.Staff, error)
	GetProfile(id string) (*model.Staff, error)
	ListAdmins() ([]model.Staff, error)
	FindNearestAdmin(lat, lon float64) (*model.Staff, float64, error)

	CreateFirstAdmin(input StaffSignupInput) (*model.Staff, error)
	SignupStaff(input StaffSignupInput) (*model.Staff, error)

	CreateDeliveryBoy(input CreateDeliveryBoyInput) (*model.Staff, error)
	UpdateDeliveryBoy(id string, input UpdateDeliveryBoyInput) (*model.Staff, error)
	DeleteDeliveryBoy(id string) error
	ListDeliveryBoys() ([]model.Staff, error)
	GetDeliveryBoy(id string) (*model.Staff, error)
	UpdateDeliveryLocation(id string, lat, lon float64) error
	UpdateDeliveryAvailability(id string, available bool) error

	RegisterPushToken(id, token string) error
}

// StaffSignupInput 创建后台账号的允许字段
// Permissions 缺省时按角色补默认权限；车辆字段仅 delivery_boy 生效
type StaffSignupInput struct {
	Name          string
	Email         string
	Password      string
	PhoneNumber   string
	Role          string
	Permissions   []string
	Latitude      *float64
	Longitude     *float64
	VehicleNumber string
	VehicleType   string
}

// CreateDeliveryBoyInput 创建配送员的允许字段
type CreateDeliveryBoyInput struct {
	Name          string
	Email         string
	Password      string
	PhoneNumber   string
	VehicleNumber string
	VehicleType   string
}

// UpdateDeliveryBoyInput 更新配送员的允许字段
type UpdateDeliveryBoyInput struct {
	Name          *string
	PhoneNumber   *string
	VehicleNumber *string
	VehicleType   *string
	IsActive      *bool
}

type staffService struct {
	repo     repository.StaffRepository
	notifier notify.Notifier
}

// NewStaffService 创建员工服务
func NewStaffService(repo repository.StaffRepository, notifier notify.Notifier) StaffService {
	return &staffService{repo: repo, notifier: notifier}
}

// Login 员工登录 (admin / delivery_boy 共用)
// role 非空时要求账号角色一致
func (s *staffService) Login(email, password, role string) (string, *model.Staff, error) {
	staff, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !staff.IsActive {
		return "", nil, ErrAccountDisabled
	}

	if role != "" && staff.Role != role {
		return "", nil, ErrRoleMismatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken(staff.ID, utils.KindStaff, staff.Role)
	if err != nil {
		return "", nil, err
	}

	if err := s.repo.UpdateLastLogin(staff.ID); err != nil {
		return "", nil, err
	}

	return token, staff, nil
}

func (s *staffService) GetProfile(id string) (*model.Staff, error) {
	staff, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

func (s *staffService) ListAdmins() ([]model.Staff, error) {
	return s.repo.ListAdmins()
}

// FindNearestAdmin 就近分配策略
// 候选集为空时返回 (nil, 0, nil)，表示不分配而不是错误
// 线性扫描取最小距离，距离相同时保留先遍历到的那个
func (s *staffService) FindNearestAdmin(lat, lon float64) (*model.Staff, float64, error) {
	admins, err := s.repo.ListActiveAdminsWithLocation()
	if err != nil {
		return nil, 0, err
	}
	if len(admins) == 0 {
		return nil, 0, nil
	}

	var nearest *model.Staff
	shortest := math.Inf(1)

	for i := range admins {
		admin := &admins[i]
		d := geo.Distance(lat, lon, *admin.Latitude, *admin.Longitude)
		if d < shortest {
			shortest = d
			nearest = admin
		}
	}

	return nearest, shortest, nil
}

// defaultPermissions 按角色给默认权限
func defaultPermissions(role string) []string {
	if role == model.RoleDeliveryBoy {
		return []string{model.PermManageDelivery}
	}
	return []string{
		model.PermManageUsers,
		model.PermManageProducts,
		model.PermManageOrders,
		model.PermViewAnalytics,
	}
}

// CreateFirstAdmin 系统引导建号
// 仅在还没有任何管理员时允许；建出的账号持全部权限
func (s *staffService) CreateFirstAdmin(input StaffSignupInput) (*model.Staff, error) {
	count, err := s.repo.CountByRole(model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAdminExists
	}

	if _, err := s.repo.GetByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := &model.Staff{
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hashed),
		PhoneNumber: input.PhoneNumber,
		Role:        model.RoleAdmin,
		Permissions: []string{
			model.PermManageUsers,
			model.PermManageProducts,
			model.PermManageOrders,
			model.PermViewAnalytics,
			model.PermManageDelivery,
		},
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		IsActive:  true,
	}
	if err := s.repo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// SignupStaff 已有管理员创建新的后台账号 (admin / delivery_boy)
func (s *staffService) SignupStaff(input StaffSignupInput) (*model.Staff, error) {
	if _, err := s.repo.GetByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	perms := input.Permissions
	if len(perms) == 0 {
		perms = defaultPermissions(input.Role)
	}

	staff := &model.Staff{
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hashed),
		PhoneNumber: input.PhoneNumber,
		Role:        input.Role,
		Permissions: perms,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		IsActive:    true,
	}
	if input.Role == model.RoleDeliveryBoy {
		staff.Delivery = model.DeliveryDetails{
			VehicleNumber: input.VehicleNumber,
			VehicleType:   input.VehicleType,
			IsAvailable:   true,
		}
	}
	if err := s.repo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// CreateDeliveryBoy 创建配送员账号
func (s *staffService) CreateDeliveryBoy(input CreateDeliveryBoyInput) (*model.Staff, error) {
	if _, err := s.repo.GetByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := &model.Staff{
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hashed),
		PhoneNumber: input.PhoneNumber,
		Role:        model.RoleDeliveryBoy,
		Permissions: []string{model.PermManageDelivery},
		IsActive:    true,
		Delivery: model.DeliveryDetails{
			VehicleNumber: input.VehicleNumber,
			VehicleType:   input.VehicleType,
			IsAvailable:   true,
		},
	}
	if err := s.repo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// UpdateDeliveryBoy 按允许字段更新配送员资料
func (s *staffService) UpdateDeliveryBoy(id string, input UpdateDeliveryBoyInput) (*model.Staff, error) {
	staff, err := s.repo.GetByRole(id, model.RoleDeliveryBoy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		staff.Name = *input.Name
	}
	if input.PhoneNumber != nil {
		staff.PhoneNumber = *input.PhoneNumber
	}
	if input.VehicleNumber != nil {
		staff.Delivery.VehicleNumber = *input.VehicleNumber
	}
	if input.VehicleType != nil {
		staff.Delivery.VehicleType = *input.VehicleType
	}
	if input.IsActive != nil {
		staff.IsActive = *input.IsActive
	}

	if err := s.repo.Update(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *staffService) DeleteDeliveryBoy(id string) error {
	staff, err := s.repo.GetByRole(id, model.RoleDeliveryBoy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}
	return s.repo.Delete(staff)
}

func (s *staffService) ListDeliveryBoys() ([]model.Staff, error) {
	return s.repo.ListDeliveryBoys()
}

func (s *staffService) GetDeliveryBoy(id string) (*model.Staff, error) {
	staff, err := s.repo.GetByRole(id, model.RoleDeliveryBoy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

// UpdateDeliveryLocation 配送员上报当前位置
func (s *staffService) UpdateDeliveryLocation(id string, lat, lon float64) error {
	staff, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}
	if staff.Role != model.RoleDeliveryBoy {
		return ErrNotDeliveryBoy
	}

	staff.Delivery.CurrentLatitude = &lat
	staff.Delivery.CurrentLongitude = &lon
	return s.repo.Update(staff)
}

// UpdateDeliveryAvailability 配送员上报接单状态
func (s *staffService) UpdateDeliveryAvailability(id string, available bool) error {
	staff, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}
	if staff.Role != model.RoleDeliveryBoy {
		return ErrNotDeliveryBoy
	}

	staff.Delivery.IsAvailable = available
	return s.repo.Update(staff)
}

// RegisterPushToken 注册设备推送 token，同时写库和通知服务注册表
func (s *staffService) RegisterPushToken(id, token string) error {
	staff, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}

	if err := s.repo.UpdatePushToken(id, token); err != nil {
		return err
	}
	s.notifier.RegisterToken(id, token, staff.Role)
	return nil
}
