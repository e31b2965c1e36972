package repository

import (
	"time"

	"cake_shop_backend/internal/domain/user/model"

	"gorm.io/gorm"
)

// UserRepository 接口定义
type UserRepository interface {
	Create(user *model.User) error
	List() ([]model.User, error)
	GetByID(id string) (*model.User, error)
	GetByIDWithRelations(id string) (*model.User, error)
	GetByPhone(phone string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	UpdateLastLogin(id string) error
	UpdatePushToken(id, token string) error
	Delete(user *model.User) error

	ListAddresses(userID string) ([]model.Address, error)
	GetAddress(userID, addressID string) (*model.Address, error)
	GetAddressByType(userID, addrType string) (*model.Address, error)
	CreateAddress(address *model.Address) error
	UpdateAddress(address *model.Address) error
	DeleteAddress(userID, addressID string) error
	ClearDefaultAddress(userID string) error

	ListUPIAccounts(userID string) ([]model.UPIAccount, error)
	GetUPIAccount(userID, upiID string) (*model.UPIAccount, error)
	CreateUPIAccount(account *model.UPIAccount) error
	UpdateUPIAccount(account *model.UPIAccount) error
	DeleteUPIAccount(userID, upiID string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// List 全量顾客，按注册时间倒序
func (r *userRepository) List() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDWithRelations 取用户并预加载地址和 UPI 账户
func (r *userRepository) GetByIDWithRelations(id string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Addresses").Preload("UPIAccounts").
		Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) UpdateLastLogin(id string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("last_login", time.Now()).Error
}

func (r *userRepository) UpdatePushToken(id, token string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("push_token", token).Error
}

func (r *userRepository) Delete(user *model.User) error {
	return r.db.Delete(user).Error
}

func (r *userRepository) ListAddresses(userID string) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").Find(&addresses).Error
	return addresses, err
}

func (r *userRepository) GetAddress(userID, addressID string) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// GetAddressByType 按类型取地址，location 同步按类型覆盖时使用
func (r *userRepository) GetAddressByType(userID, addrType string) (*model.Address, error) {
	var address model.Address
	err := r.db.Where("user_id = ? AND type = ?", userID, addrType).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *userRepository) CreateAddress(address *model.Address) error {
	return r.db.Create(address).Error
}

func (r *userRepository) UpdateAddress(address *model.Address) error {
	return r.db.Save(address).Error
}

func (r *userRepository) DeleteAddress(userID, addressID string) error {
	return r.db.Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&model.Address{}).Error
}

// ClearDefaultAddress 将用户所有地址的默认标记清除，设置新默认前调用
func (r *userRepository) ClearDefaultAddress(userID string) error {
	return r.db.Model(&model.Address{}).Where("user_id = ?", userID).
		Update("is_default", false).Error
}

func (r *userRepository) ListUPIAccounts(userID string) ([]model.UPIAccount, error) {
	var accounts []model.UPIAccount
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").Find(&accounts).Error
	return accounts, err
}

func (r *userRepository) GetUPIAccount(userID, upiID string) (*model.UPIAccount, error) {
	var account model.UPIAccount
	err := r.db.Where("id = ? AND user_id = ?", upiID, userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *userRepository) CreateUPIAccount(account *model.UPIAccount) error {
	return r.db.Create(account).Error
}

func (r *userRepository) UpdateUPIAccount(account *model.UPIAccount) error {
	return r.db.Save(account).Error
}

func (r *userRepository) DeleteUPIAccount(userID, upiID string) error {
	return r.db.Where("id = ? AND user_id = ?", upiID, userID).
		Delete(&model.UPIAccount{}).Error
}
