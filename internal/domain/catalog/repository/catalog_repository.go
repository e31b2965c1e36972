package repository

import (
	"cake_shop_backend/internal/domain/catalog/model"

	"gorm.io/gorm"
)

// CakeFilter 商品列表过滤条件
type CakeFilter struct {
	Flavor string
	Tag    string
}

// CatalogRepository 接口定义
type CatalogRepository interface {
	ListCakes(filter CakeFilter, offset, limit int) ([]model.Cake, int64, error)
	GetCake(id string) (*model.Cake, error)
	GetCakeWithReviews(id string) (*model.Cake, error)
	CreateCake(cake *model.Cake) error
	CreateCakes(cakes []model.Cake) error
	UpdateCake(cake *model.Cake) error
	DeleteCake(cake *model.Cake) error

	CreateReview(review *model.Review) error
	ListReviews(cakeID string) ([]model.Review, error)

	ListAddons() ([]model.AddonProduct, error)
	GetAddon(id string) (*model.AddonProduct, error)
	CreateAddon(addon *model.AddonProduct) error
	UpdateAddon(addon *model.AddonProduct) error
	DeleteAddon(addon *model.AddonProduct) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建新的仓库实例
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCakes(filter CakeFilter, offset, limit int) ([]model.Cake, int64, error) {
	var cakes []model.Cake
	var total int64

	query := r.db.Model(&model.Cake{})
	if filter.Flavor != "" {
		query = query.Where("flavor = ?", filter.Flavor)
	}
	if filter.Tag != "" {
		query = query.Where("tag = ?", filter.Tag)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&cakes).Error
	return cakes, total, err
}

func (r *catalogRepository) GetCake(id string) (*model.Cake, error) {
	var cake model.Cake
	if err := r.db.Where("id = ?", id).First(&cake).Error; err != nil {
		return nil, err
	}
	return &cake, nil
}

func (r *catalogRepository) GetCakeWithReviews(id string) (*model.Cake, error) {
	var cake model.Cake
	err := r.db.Preload("Reviews").Where("id = ?", id).First(&cake).Error
	if err != nil {
		return nil, err
	}
	return &cake, nil
}

func (r *catalogRepository) CreateCake(cake *model.Cake) error {
	return r.db.Create(cake).Error
}

// CreateCakes 批量导入商品
func (r *catalogRepository) CreateCakes(cakes []model.Cake) error {
	return r.db.CreateInBatches(cakes, 100).Error
}

func (r *catalogRepository) UpdateCake(cake *model.Cake) error {
	return r.db.Save(cake).Error
}

func (r *catalogRepository) DeleteCake(cake *model.Cake) error {
	return r.db.Delete(cake).Error
}

func (r *catalogRepository) CreateReview(review *model.Review) error {
	return r.db.Create(review).Error
}

func (r *catalogRepository) ListReviews(cakeID string) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Where("cake_id = ?", cakeID).
		Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *catalogRepository) ListAddons() ([]model.AddonProduct, error) {
	var addons []model.AddonProduct
	err := r.db.Order("created_at DESC").Find(&addons).Error
	return addons, err
}

func (r *catalogRepository) GetAddon(id string) (*model.AddonProduct, error) {
	var addon model.AddonProduct
	if err := r.db.Where("id = ?", id).First(&addon).Error; err != nil {
		return nil, err
	}
	return &addon, nil
}

func (r *catalogRepository) CreateAddon(addon *model.AddonProduct) error {
	return r.db.Create(addon).Error
}

func (r *catalogRepository) UpdateAddon(addon *model.AddonProduct) error {
	return r.db.Save(addon).Error
}

func (r *catalogRepository) DeleteAddon(addon *model.AddonProduct) error {
	return r.db.Delete(addon).Error
}
