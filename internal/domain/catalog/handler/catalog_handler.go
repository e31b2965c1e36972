package handler

import (
	"errors"
	"net/http"
	"strconv"

	"cake_shop_backend/internal/domain/catalog/model"
	"cake_shop_backend/internal/domain/catalog/repository"
	"cake_shop_backend/internal/domain/catalog/service"
	"cake_shop_backend/internal/pkg/uploader"
	"cake_shop_backend/pkg/response"
	"cake_shop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 商品目录处理器
type CatalogHandler struct {
	service  service.CatalogService
	uploader uploader.Uploader
}

// NewCatalogHandler 创建处理器，uploader 可为 nil
func NewCatalogHandler(s service.CatalogService, up uploader.Uploader) *CatalogHandler {
	return &CatalogHandler{service: s, uploader: up}
}

// CakeInput 商品输入
type CakeInput struct {
	Name           string           `json:"name" binding:"required"`
	Flavor         string           `json:"flavor"`
	Price          int64            `json:"price" binding:"required,gt=0"`
	OriginalPrice  *int64           `json:"original_price"`
	Image          string           `json:"image"`
	Description    string           `json:"description"`
	Label          string           `json:"label"`
	Tag            string           `json:"tag"`
	Sizes          []model.CakeSize `json:"sizes"`
	ProductDetails []string         `json:"product_details"`
}

func (in CakeInput) toService() service.CakeInput {
	return service.CakeInput{
		Name:           in.Name,
		Flavor:         in.Flavor,
		Price:          in.Price,
		OriginalPrice:  in.OriginalPrice,
		Image:          in.Image,
		Description:    in.Description,
		Label:          in.Label,
		Tag:            in.Tag,
		Sizes:          in.Sizes,
		ProductDetails: in.ProductDetails,
	}
}

// ListCakes 获取商品列表
// @Summary 获取蛋糕列表，支持口味和标签过滤
// @Tags Catalog
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param flavor query string false "Flavor filter"
// @Param tag query string false "Tag filter"
// @Success 200 {object} response.Response
// @Router /cakes [get]
func (h *CatalogHandler) ListCakes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := repository.CakeFilter{
		Flavor: c.Query("flavor"),
		Tag:    c.Query("tag"),
	}
	cakes, total, err := h.service.ListCakes(filter, page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{
		List:  cakes,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetCake 获取单个商品
// @Summary 获取蛋糕详情（含评价）
// @Tags Catalog
// @Router /cakes/{id} [get]
func (h *CatalogHandler) GetCake(c *gin.Context) {
	cake, err := h.service.GetCake(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCakeNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Cake not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, cake)
}

// CreateCake 创建商品
// @Summary 创建蛋糕
// @Tags Catalog
// @Router /admin/cakes [post]
func (h *CatalogHandler) CreateCake(c *gin.Context) {
	var input CakeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cake, err := h.service.CreateCake(input.toService())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, cake)
}

// CreateCakes 批量创建商品
// @Summary 批量导入蛋糕
// @Tags Catalog
// @Router /admin/cakes/many [post]
func (h *CatalogHandler) CreateCakes(c *gin.Context) {
	var inputs []CakeInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	serviceInputs := make([]service.CakeInput, 0, len(inputs))
	for _, in := range inputs {
		serviceInputs = append(serviceInputs, in.toService())
	}
	cakes, err := h.service.CreateCakes(serviceInputs)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, cakes)
}

// UpdateCake 更新商品
// @Summary 更新蛋糕
// @Tags Catalog
// @Router /admin/cakes/{id} [put]
func (h *CatalogHandler) UpdateCake(c *gin.Context) {
	var input CakeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cake, err := h.service.UpdateCake(c.Param("id"), input.toService())
	if err != nil {
		if errors.Is(err, service.ErrCakeNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Cake not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, cake)
}

// DeleteCake 删除商品
// @Summary 删除蛋糕
// @Tags Catalog
// @Router /admin/cakes/{id} [delete]
func (h *CatalogHandler) DeleteCake(c *gin.Context) {
	if err := h.service.DeleteCake(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCakeNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Cake not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Cake deleted successfully"})
}

// UploadImage 上传商品图到 OSS
// @Summary 上传商品图片
// @Tags Catalog
// @Accept multipart/form-data
// @Param file formData file true "Image"
// @Router /admin/cakes/upload [post]
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "File storage is not configured")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "file is required")
		return
	}

	url, err := h.uploader.UploadFile(file)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"url": url})
}

// ReviewInput 评价输入
type ReviewInput struct {
	Name    string  `json:"name" binding:"required"`
	Rating  float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string  `json:"comment"`
}

// AddReview 追加评价
// @Summary 给蛋糕添加评价
// @Tags Catalog
// @Router /cakes/{id}/reviews [post]
func (h *CatalogHandler) AddReview(c *gin.Context) {
	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cake, err := h.service.AddReview(c.Param("id"), service.ReviewInput{
		Name:    input.Name,
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		if errors.Is(err, service.ErrCakeNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Cake not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, cake)
}

// AddonInput 附加商品输入
type AddonInput struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image" binding:"required"`
	Price int64  `json:"price" binding:"required,gt=0"`
	Tag   string `json:"tag"`
}

// ListAddons 获取附加商品列表
// @Summary 获取附加商品列表
// @Tags Catalog
// @Router /addons [get]
func (h *CatalogHandler) ListAddons(c *gin.Context) {
	addons, err := h.service.ListAddons()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addons)
}

// GetAddon 获取附加商品
// @Summary 获取附加商品详情
// @Tags Catalog
// @Router /addons/{id} [get]
func (h *CatalogHandler) GetAddon(c *gin.Context) {
	addon, err := h.service.GetAddon(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAddonNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Addon not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addon)
}

// CreateAddon 创建附加商品
// @Summary 创建附加商品
// @Tags Catalog
// @Router /admin/addons [post]
func (h *CatalogHandler) CreateAddon(c *gin.Context) {
	var input AddonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	addon, err := h.service.CreateAddon(service.AddonInput{
		Name:  input.Name,
		Image: input.Image,
		Price: input.Price,
		Tag:   input.Tag,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, addon)
}

// UpdateAddon 更新附加商品
// @Summary 更新附加商品
// @Tags Catalog
// @Router /admin/addons/{id} [put]
func (h *CatalogHandler) UpdateAddon(c *gin.Context) {
	var input AddonInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	addon, err := h.service.UpdateAddon(c.Param("id"), service.AddonInput{
		Name:  input.Name,
		Image: input.Image,
		Price: input.Price,
		Tag:   input.Tag,
	})
	if err != nil {
		if errors.Is(err, service.ErrAddonNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Addon not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addon)
}

// DeleteAddon 删除附加商品
// @Summary 删除附加商品
// @Tags Catalog
// @Router /admin/addons/{id} [delete]
func (h *CatalogHandler) DeleteAddon(c *gin.Context) {
	if err := h.service.DeleteAddon(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAddonNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Addon not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Addon deleted successfully"})
}
