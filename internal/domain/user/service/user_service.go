package service

import (
	"errors"

	"cake_shop_backend/internal/domain/user/model"
	"cake_shop_backend/internal/domain/user/repository"
	"cake_shop_backend/internal/pkg/notify"
	"cake_shop_backend/internal/pkg/otp"
	"cake_shop_backend/pkg/utils"

	"gorm.io/gorm"
)

// UserService 顾客服务接口
type UserService interface {
	CheckPhone(phone string) (*model.User, string, error)
	Register(input RegisterInput) (*model.User, string, error)
	SendOTP(phone string) error
	LoginWithPhone(phone, code string) (*model.User, string, error)

	GetProfile(id string) (*model.User, error)
	UpdateProfile(id string, input UpdateProfileInput) (*model.User, error)
	UpdateProfilePicture(id, url string) error
	UpdateSettings(id string, patch SettingsPatch) (*model.Settings, error)
	RegisterPushToken(id, token string) error

	ListAddresses(userID string) ([]model.Address, error)
	AddAddress(userID string, input AddressInput) ([]model.Address, error)
	UpdateAddress(userID, addressID string, input AddressInput) ([]model.Address, error)
	DeleteAddress(userID, addressID string) ([]model.Address, error)
	SyncLocationAddress(userID string, input AddressInput) ([]model.Address, error)

	ListUPIAccounts(userID string) ([]model.UPIAccount, error)
	AddUPIAccount(userID string, input UPIInput) ([]model.UPIAccount, error)
	UpdateUPIAccount(userID, upiID string, input UPIInput) ([]model.UPIAccount, error)
	DeleteUPIAccount(userID, upiID string) ([]model.UPIAccount, error)

	// 管理端顾客管理
	ListUsers() ([]model.User, error)
	DeleteUser(id string) error
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name        string
	Email       *string
	PhoneNumber string
}

// UpdateProfileInput 资料更新的允许字段
type UpdateProfileInput struct {
	Name           *string
	Email          *string
	PhoneNumber    *string
	ProfilePicture *string
}

// AddressInput 地址写入字段
type AddressInput struct {
	Type      string
	Street    string
	City      string
	State     string
	Pincode   string
	Latitude  *float64
	Longitude *float64
	IsDefault bool
}

// UPIInput UPI 账户写入字段
type UPIInput struct {
	UPIID     string
	Name      string
	IsDefault bool
}

// SettingsPatch 设置的分组合并补丁，nil 分组保持不变
type SettingsPatch struct {
	Notifications *model.NotificationSettings
	Privacy       *model.PrivacySettings
	Security      *model.SecuritySettings
}

type userService struct {
	repo       repository.UserRepository
	otpService otp.OTPService
	notifier   notify.Notifier
}

// NewUserService 创建顾客服务
func NewUserService(repo repository.UserRepository, otpService otp.OTPService, notifier notify.Notifier) UserService {
	return &userService{repo: repo, otpService: otpService, notifier: notifier}
}

// CheckPhone 检查手机号是否已注册
// 已注册直接签发令牌返回用户，未注册返回 (nil, "", nil) 提示走注册流程
func (s *userService) CheckPhone(phone string) (*model.User, string, error) {
	user, err := s.repo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", nil
		}
		return nil, "", err
	}

	token, _, err := utils.GenerateToken(user.ID, utils.KindCustomer, "")
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register 手机号注册，注册即视为手机已验证
func (s *userService) Register(input RegisterInput) (*model.User, string, error) {
	if _, err := s.repo.GetByPhone(input.PhoneNumber); err == nil {
		return nil, "", ErrPhoneTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	if input.Email != nil && *input.Email != "" {
		if _, err := s.repo.GetByEmail(*input.Email); err == nil {
			return nil, "", ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
	}

	user := &model.User{
		Name:            input.Name,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		IsPhoneVerified: true,
		Membership:      model.Membership{Type: model.MembershipBasic},
		Settings:        model.DefaultSettings(),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}

	token, _, err := utils.GenerateToken(user.ID, utils.KindCustomer, "")
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) SendOTP(phone string) error {
	_, err := s.otpService.Send(phone)
	return err
}

// LoginWithPhone 验证码登录
func (s *userService) LoginWithPhone(phone, code string) (*model.User, string, error) {
	if !s.otpService.Verify(phone, code) {
		return nil, "", ErrInvalidOTP
	}

	user, err := s.repo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if err := s.repo.UpdateLastLogin(user.ID); err != nil {
		return nil, "", err
	}

	token, _, err := utils.GenerateToken(user.ID, utils.KindCustomer, "")
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetProfile(id string) (*model.User, error) {
	user, err := s.repo.GetByIDWithRelations(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 按允许字段更新资料
func (s *userService) UpdateProfile(id string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = input.Email
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.ProfilePicture != nil {
		user.ProfilePicture = *input.ProfilePicture
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfilePicture(id, url string) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.ProfilePicture = url
	return s.repo.Update(user)
}

// UpdateSettings 分组合并账户设置，缺省分组不动
func (s *userService) UpdateSettings(id string, patch SettingsPatch) (*model.Settings, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if patch.Notifications != nil {
		user.Settings.Notifications = *patch.Notifications
	}
	if patch.Privacy != nil {
		user.Settings.Privacy = *patch.Privacy
	}
	if patch.Security != nil {
		user.Settings.Security = *patch.Security
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return &user.Settings, nil
}

// RegisterPushToken 注册设备推送 token，同时写库和通知服务注册表
func (s *userService) RegisterPushToken(id, token string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.UpdatePushToken(id, token); err != nil {
		return err
	}
	s.notifier.RegisterToken(id, token, "user")
	return nil
}

func (s *userService) ListAddresses(userID string) ([]model.Address, error) {
	return s.repo.ListAddresses(userID)
}

func (s *userService) AddAddress(userID string, input AddressInput) ([]model.Address, error) {
	if input.IsDefault {
		if err := s.repo.ClearDefaultAddress(userID); err != nil {
			return nil, err
		}
	}

	address := &model.Address{
		UserID:    userID,
		Type:      input.Type,
		Street:    input.Street,
		City:      input.City,
		State:     input.State,
		Pincode:   input.Pincode,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		IsDefault: input.IsDefault,
	}
	if err := s.repo.CreateAddress(address); err != nil {
		return nil, err
	}
	return s.repo.ListAddresses(userID)
}

func (s *userService) UpdateAddress(userID, addressID string, input AddressInput) ([]model.Address, error) {
	address, err := s.repo.GetAddress(userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.repo.ClearDefaultAddress(userID); err != nil {
			return nil, err
		}
	}

	applyAddressInput(address, input)
	if err := s.repo.UpdateAddress(address); err != nil {
		return nil, err
	}
	return s.repo.ListAddresses(userID)
}

func (s *userService) DeleteAddress(userID, addressID string) ([]model.Address, error) {
	if err := s.repo.DeleteAddress(userID, addressID); err != nil {
		return nil, err
	}
	return s.repo.ListAddresses(userID)
}

// SyncLocationAddress 按地址类型覆盖：同类型已存在则更新，否则新增
func (s *userService) SyncLocationAddress(userID string, input AddressInput) ([]model.Address, error) {
	existing, err := s.repo.GetAddressByType(userID, input.Type)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return s.AddAddress(userID, input)
	}

	applyAddressInput(existing, input)
	if err := s.repo.UpdateAddress(existing); err != nil {
		return nil, err
	}
	return s.repo.ListAddresses(userID)
}

func applyAddressInput(address *model.Address, input AddressInput) {
	address.Type = input.Type
	address.Street = input.Street
	address.City = input.City
	address.State = input.State
	address.Pincode = input.Pincode
	address.Latitude = input.Latitude
	address.Longitude = input.Longitude
	address.IsDefault = input.IsDefault
}

func (s *userService) ListUPIAccounts(userID string) ([]model.UPIAccount, error) {
	return s.repo.ListUPIAccounts(userID)
}

func (s *userService) AddUPIAccount(userID string, input UPIInput) ([]model.UPIAccount, error) {
	account := &model.UPIAccount{
		UserID:    userID,
		UPIID:     input.UPIID,
		Name:      input.Name,
		IsDefault: input.IsDefault,
	}
	if err := s.repo.CreateUPIAccount(account); err != nil {
		return nil, err
	}
	return s.repo.ListUPIAccounts(userID)
}

func (s *userService) UpdateUPIAccount(userID, upiID string, input UPIInput) ([]model.UPIAccount, error) {
	account, err := s.repo.GetUPIAccount(userID, upiID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUPINotFound
		}
		return nil, err
	}

	account.UPIID = input.UPIID
	account.Name = input.Name
	account.IsDefault = input.IsDefault
	if err := s.repo.UpdateUPIAccount(account); err != nil {
		return nil, err
	}
	return s.repo.ListUPIAccounts(userID)
}

func (s *userService) DeleteUPIAccount(userID, upiID string) ([]model.UPIAccount, error) {
	if err := s.repo.DeleteUPIAccount(userID, upiID); err != nil {
		return nil, err
	}
	return s.repo.ListUPIAccounts(userID)
}

// ListUsers 管理员视角的全量顾客列表，按注册时间倒序
func (s *userService) ListUsers() ([]model.User, error) {
	return s.repo.List()
}

// DeleteUser 管理员删除顾客账号，同时注销其推送注册
func (s *userService) DeleteUser(id string) error {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.repo.Delete(user); err != nil {
		return err
	}
	s.notifier.DeregisterToken(id)
	return nil
}
