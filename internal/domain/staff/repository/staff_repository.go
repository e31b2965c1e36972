package repository

import (
	"time"

	"cake_shop_backend/internal/domain/staff/model"

	"gorm.io/gorm"
)

// StaffRepository 接口定义
type StaffRepository interface {
	Create(staff *model.Staff) error
	GetByID(id string) (*model.Staff, error)
	GetByEmail(email string) (*model.Staff, error)
	GetByRole(id, role string) (*model.Staff, error)
	CountByRole(role string) (int64, error)
	ListAdmins() ([]model.Staff, error)
	ListActiveAdminsWithLocation() ([]model.Staff, error)
	ListDeliveryBoys() ([]model.Staff, error)
	Update(staff *model.Staff) error
	UpdateLastLogin(id string) error
	UpdatePushToken(id, token string) error
	Delete(staff *model.Staff) error
}

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建新的仓库实例
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(staff *model.Staff) error {
	return r.db.Create(staff).Error
}

func (r *staffRepository) GetByID(id string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.Where("id = ?", id).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) GetByEmail(email string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.Where("email = ?", email).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByRole 按 ID 和角色取员工，角色不符视为不存在
func (r *staffRepository) GetByRole(id, role string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.Where("id = ? AND role = ?", id, role).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// CountByRole 统计某角色的账号数，引导建号时用来判断管理员是否已存在
func (r *staffRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Staff{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *staffRepository) ListAdmins() ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.Where("role = ? AND is_active = ?", model.RoleAdmin, true).
		Order("created_at DESC").Find(&staffs).Error
	return staffs, err
}

// ListActiveAdminsWithLocation 就近分配的候选集：激活且经纬度齐全的管理员
func (r *staffRepository) ListActiveAdminsWithLocation() ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.Where("role = ? AND is_active = ? AND latitude IS NOT NULL AND longitude IS NOT NULL",
		model.RoleAdmin, true).Find(&staffs).Error
	return staffs, err
}

func (r *staffRepository) ListDeliveryBoys() ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.Where("role = ?", model.RoleDeliveryBoy).
		Order("created_at DESC").Find(&staffs).Error
	return staffs, err
}

func (r *staffRepository) Update(staff *model.Staff) error {
	return r.db.Save(staff).Error
}

func (r *staffRepository) UpdateLastLogin(id string) error {
	return r.db.Model(&model.Staff{}).Where("id = ?", id).
		Update("last_login", time.Now()).Error
}

func (r *staffRepository) UpdatePushToken(id, token string) error {
	return r.db.Model(&model.Staff{}).Where("id = ?", id).
		Update("push_token", token).Error
}

func (r *staffRepository) Delete(staff *model.Staff) error {
	return r.db.Delete(staff).Error
}
