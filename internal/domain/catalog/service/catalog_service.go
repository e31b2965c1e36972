package service

import (
	"errors"

	"cake_shop_backend/internal/domain/catalog/model"
	"cake_shop_backend/internal/domain/catalog/repository"
	"cake_shop_backend/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrCakeNotFound  = errors.New("cake not found")
	ErrAddonNotFound = errors.New("addon not found")
)

// CakeInput 商品写入字段
type CakeInput struct {
	Name           string
	Flavor         string
	Price          int64
	OriginalPrice  *int64
	Image          string
	Description    string
	Label          string
	Tag            string
	Sizes          []model.CakeSize
	ProductDetails []string
}

// ReviewInput 评价输入
type ReviewInput struct {
	Name    string
	Rating  float64
	Comment string
}

// AddonInput 附加商品写入字段
type AddonInput struct {
	Name  string
	Image string
	Price int64
	Tag   string
}

// CatalogService 商品目录服务接口
type CatalogService interface {
	ListCakes(filter repository.CakeFilter, page, limit int) ([]model.Cake, int64, error)
	GetCake(id string) (*model.Cake, error)
	CreateCake(input CakeInput) (*model.Cake, error)
	CreateCakes(inputs []CakeInput) ([]model.Cake, error)
	UpdateCake(id string, input CakeInput) (*model.Cake, error)
	DeleteCake(id string) error
	AddReview(cakeID string, input ReviewInput) (*model.Cake, error)

	ListAddons() ([]model.AddonProduct, error)
	GetAddon(id string) (*model.AddonProduct, error)
	CreateAddon(input AddonInput) (*model.AddonProduct, error)
	UpdateAddon(id string, input AddonInput) (*model.AddonProduct, error)
	DeleteAddon(id string) error
}

type catalogService struct {
	repo repository.CatalogRepository
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListCakes(filter repository.CakeFilter, page, limit int) ([]model.Cake, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.ListCakes(filter, offset, limit)
}

func (s *catalogService) GetCake(id string) (*model.Cake, error) {
	cake, err := s.repo.GetCakeWithReviews(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCakeNotFound
		}
		return nil, err
	}
	return cake, nil
}

func cakeFromInput(input CakeInput) model.Cake {
	return model.Cake{
		Name:           input.Name,
		Flavor:         input.Flavor,
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		Image:          input.Image,
		Description:    input.Description,
		Label:          input.Label,
		Tag:            input.Tag,
		Sizes:          input.Sizes,
		ProductDetails: input.ProductDetails,
	}
}

func (s *catalogService) CreateCake(input CakeInput) (*model.Cake, error) {
	cake := cakeFromInput(input)
	if err := s.repo.CreateCake(&cake); err != nil {
		return nil, err
	}
	return &cake, nil
}

// CreateCakes 批量导入
func (s *catalogService) CreateCakes(inputs []CakeInput) ([]model.Cake, error) {
	cakes := make([]model.Cake, 0, len(inputs))
	for _, input := range inputs {
		cakes = append(cakes, cakeFromInput(input))
	}
	if err := s.repo.CreateCakes(cakes); err != nil {
		return nil, err
	}
	return cakes, nil
}

func (s *catalogService) UpdateCake(id string, input CakeInput) (*model.Cake, error) {
	cake, err := s.repo.GetCake(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCakeNotFound
		}
		return nil, err
	}

	cake.Name = input.Name
	cake.Flavor = input.Flavor
	cake.Price = input.Price
	cake.OriginalPrice = input.OriginalPrice
	if input.Image != "" {
		cake.Image = input.Image
	}
	cake.Description = input.Description
	cake.Label = input.Label
	cake.Tag = input.Tag
	cake.Sizes = input.Sizes
	cake.ProductDetails = input.ProductDetails

	if err := s.repo.UpdateCake(cake); err != nil {
		return nil, err
	}
	return cake, nil
}

func (s *catalogService) DeleteCake(id string) error {
	cake, err := s.repo.GetCake(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCakeNotFound
		}
		return err
	}
	return s.repo.DeleteCake(cake)
}

// AddReview 追加评价并重算平均分
func (s *catalogService) AddReview(cakeID string, input ReviewInput) (*model.Cake, error) {
	cake, err := s.repo.GetCake(cakeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCakeNotFound
		}
		return nil, err
	}

	review := model.Review{
		CakeID:  cakeID,
		Name:    input.Name,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.repo.CreateReview(&review); err != nil {
		return nil, err
	}

	reviews, err := s.repo.ListReviews(cakeID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, rv := range reviews {
		total += rv.Rating
	}
	cake.Rating = total / float64(len(reviews))
	cake.ReviewCount = len(reviews)
	if err := s.repo.UpdateCake(cake); err != nil {
		return nil, err
	}

	cake.Reviews = reviews
	return cake, nil
}

func (s *catalogService) ListAddons() ([]model.AddonProduct, error) {
	return s.repo.ListAddons()
}

func (s *catalogService) GetAddon(id string) (*model.AddonProduct, error) {
	addon, err := s.repo.GetAddon(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddonNotFound
		}
		return nil, err
	}
	return addon, nil
}

func (s *catalogService) CreateAddon(input AddonInput) (*model.AddonProduct, error) {
	addon := model.AddonProduct{
		Name:  input.Name,
		Image: input.Image,
		Price: input.Price,
		Tag:   input.Tag,
	}
	if err := s.repo.CreateAddon(&addon); err != nil {
		return nil, err
	}
	return &addon, nil
}

func (s *catalogService) UpdateAddon(id string, input AddonInput) (*model.AddonProduct, error) {
	addon, err := s.repo.GetAddon(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddonNotFound
		}
		return nil, err
	}

	addon.Name = input.Name
	if input.Image != "" {
		addon.Image = input.Image
	}
	addon.Price = input.Price
	addon.Tag = input.Tag

	if err := s.repo.UpdateAddon(addon); err != nil {
		return nil, err
	}
	return addon, nil
}

func (s *catalogService) DeleteAddon(id string) error {
	addon, err := s.repo.GetAddon(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddonNotFound
		}
		return err
	}
	return s.repo.DeleteAddon(addon)
}
