package handler

import (
	"errors"
	"net/http"

	"cake_shop_backend/internal/domain/staff/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// StaffHandler 员工处理器
type StaffHandler struct {
	service service.StaffService
}

// NewStaffHandler 创建处理器
func NewStaffHandler(s service.StaffService) *StaffHandler {
	return &StaffHandler{service: s}
}

// LoginInput 员工登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin delivery_boy"`
}

// Login 员工登录
// @Summary 员工登录 (admin / delivery_boy)
// @Tags Staff
// @Accept json
// @Produce json
// @Param input body LoginInput true "Credentials"
// @Success 200 {object} response.Response
// @Router /auth/staff/login [post]
func (h *StaffHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, staff, err := h.service.Login(input.Email, input.Password, input.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid credentials")
		case errors.Is(err, service.ErrAccountDisabled):
			response.Error(c, http.StatusForbidden, response.ErrAccountDisabled, "Account is deactivated")
		case errors.Is(err, service.ErrRoleMismatch):
			response.Error(c, http.StatusForbidden, response.ErrRoleMismatch, "Access denied. "+input.Role+" privileges required.")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, gin.H{
		"token": token,
		"staff": staff,
	})
}

// FirstAdminInput 初始管理员输入
type FirstAdminInput struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=6"`
	PhoneNumber string   `json:"phoneNumber" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// CreateFirstAdmin 系统引导：创建第一个管理员
// @Summary 创建初始管理员 (仅当系统中还没有管理员)
// @Tags Staff
// @Accept json
// @Produce json
// @Param input body FirstAdminInput true "First admin"
// @Success 201 {object} response.Response
// @Router /auth/staff/first-admin [post]
func (h *StaffHandler) CreateFirstAdmin(c *gin.Context) {
	var input FirstAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	staff, err := h.service.CreateFirstAdmin(service.StaffSignupInput{
		Name:        input.Name,
		Email:       input.Email,
		Password:    input.Password,
		PhoneNumber: input.PhoneNumber,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminExists):
			response.Error(c, http.StatusForbidden, response.ErrAdminExists, "First admin already exists. Please use the regular signup route.")
		case errors.Is(err, service.ErrEmailTaken):
			response.Error(c, http.StatusBadRequest, response.ErrUserExists, "Email or phone number already exists")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Created(c, staff)
}

// StaffSignupInput 后台账号注册输入
type StaffSignupInput struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=6"`
	PhoneNumber   string   `json:"phoneNumber" binding:"required"`
	Role          string   `json:"role" binding:"required,oneof=admin delivery_boy"`
	Permissions   []string `json:"permissions"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	VehicleNumber string   `json:"vehicleNumber"`
	VehicleType   string   `json:"vehicleType" binding:"omitempty,oneof=bike scooter bicycle other"`
}

// Signup 管理员创建后台账号
// @Summary 创建后台账号 (admin / delivery_boy)，权限缺省按角色补齐
// @Tags Staff
// @Accept json
// @Produce json
// @Param input body StaffSignupInput true "Staff account"
// @Success 201 {object} response.Response
// @Router /admin/signup [post]
func (h *StaffHandler) Signup(c *gin.Context) {
	var input StaffSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	staff, err := h.service.SignupStaff(service.StaffSignupInput{
		Name:          input.Name,
		Email:         input.Email,
		Password:      input.Password,
		PhoneNumber:   input.PhoneNumber,
		Role:          input.Role,
		Permissions:   input.Permissions,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		VehicleNumber: input.VehicleNumber,
		VehicleType:   input.VehicleType,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, response.ErrUserExists, "Email or phone number already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, staff)
}

// AdminDetails 当前管理员资料
// @Summary 获取当前管理员资料
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/details [get]
func (h *StaffHandler) AdminDetails(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	staff, err := h.service.GetProfile(p.ID)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrStaffNotFound, "Admin not found")
		return
	}
	response.Success(c, staff)
}

// Verify 验证当前员工令牌
// @Summary 验证员工令牌并返回资料
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/staff/verify [get]
func (h *StaffHandler) Verify(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	staff, err := h.service.GetProfile(p.ID)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrStaffNotFound, "Staff not found")
		return
	}
	response.Success(c, staff)
}

// ListAdmins 获取所有激活管理员
// @Summary 获取管理员列表
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/admins [get]
func (h *StaffHandler) ListAdmins(c *gin.Context) {
	admins, err := h.service.ListAdmins()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, admins)
}

// CreateDeliveryBoyInput 创建配送员输入
type CreateDeliveryBoyInput struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
	VehicleNumber string `json:"vehicleNumber"`
	VehicleType   string `json:"vehicleType" binding:"omitempty,oneof=bike scooter bicycle other"`
}

// CreateDeliveryBoy 创建配送员
// @Summary 创建配送员账号
// @Tags Staff
// @Accept json
// @Produce json
// @Param input body CreateDeliveryBoyInput true "Delivery boy"
// @Success 201 {object} response.Response
// @Router /admin/delivery-boys [post]
func (h *StaffHandler) CreateDeliveryBoy(c *gin.Context) {
	var input CreateDeliveryBoyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	staff, err := h.service.CreateDeliveryBoy(service.CreateDeliveryBoyInput{
		Name:          input.Name,
		Email:         input.Email,
		Password:      input.Password,
		PhoneNumber:   input.PhoneNumber,
		VehicleNumber: input.VehicleNumber,
		VehicleType:   input.VehicleType,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, response.ErrUserExists, "Email already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, staff)
}

// UpdateDeliveryBoyInput 更新配送员输入 (允许字段白名单)
type UpdateDeliveryBoyInput struct {
	Name          *string `json:"name"`
	PhoneNumber   *string `json:"phoneNumber"`
	VehicleNumber *string `json:"vehicleNumber"`
	VehicleType   *string `json:"vehicleType" binding:"omitempty,oneof=bike scooter bicycle other"`
	IsActive      *bool   `json:"isActive"`
}

// UpdateDeliveryBoy 更新配送员
// @Summary 更新配送员资料
// @Tags Staff
// @Router /admin/delivery-boys/{id} [put]
func (h *StaffHandler) UpdateDeliveryBoy(c *gin.Context) {
	var input UpdateDeliveryBoyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	staff, err := h.service.UpdateDeliveryBoy(c.Param("id"), service.UpdateDeliveryBoyInput{
		Name:          input.Name,
		PhoneNumber:   input.PhoneNumber,
		VehicleNumber: input.VehicleNumber,
		VehicleType:   input.VehicleType,
		IsActive:      input.IsActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrDeliveryNotFound, "Delivery boy not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, staff)
}

// DeleteDeliveryBoy 删除配送员
// @Summary 删除配送员账号
// @Tags Staff
// @Router /admin/delivery-boys/{id} [delete]
func (h *StaffHandler) DeleteDeliveryBoy(c *gin.Context) {
	if err := h.service.DeleteDeliveryBoy(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrDeliveryNotFound, "Delivery boy not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Delivery boy deleted successfully"})
}

// ListDeliveryBoys 获取所有配送员
// @Summary 获取配送员列表
// @Tags Staff
// @Router /admin/delivery-boys [get]
func (h *StaffHandler) ListDeliveryBoys(c *gin.Context) {
	boys, err := h.service.ListDeliveryBoys()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, boys)
}

// DeliveryProfile 配送员查看自己的资料
// @Summary 配送员资料
// @Tags Delivery
// @Router /delivery/profile [get]
func (h *StaffHandler) DeliveryProfile(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	staff, err := h.service.GetDeliveryBoy(p.ID)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrDeliveryNotFound, "Delivery boy not found")
		return
	}
	response.Success(c, staff)
}

// LocationInput 位置上报输入
type LocationInput struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// UpdateLocation 配送员上报位置
// @Summary 配送员上报当前位置
// @Tags Delivery
// @Router /delivery/location [put]
func (h *StaffHandler) UpdateLocation(c *gin.Context) {
	var input LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	if err := h.service.UpdateDeliveryLocation(p.ID, input.Latitude, input.Longitude); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Location updated"})
}

// AvailabilityInput 接单状态输入
type AvailabilityInput struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// UpdateAvailability 配送员上报接单状态
// @Summary 配送员上报接单状态
// @Tags Delivery
// @Router /delivery/availability [put]
func (h *StaffHandler) UpdateAvailability(c *gin.Context) {
	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	if err := h.service.UpdateDeliveryAvailability(p.ID, *input.IsAvailable); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Availability updated"})
}

// PushTokenInput 设备推送 token 输入
type PushTokenInput struct {
	Token string `json:"token" binding:"required"`
}

// RegisterPushToken 注册设备推送 token
// @Summary 注册设备推送 token
// @Tags Staff
// @Router /staff/push-token [post]
func (h *StaffHandler) RegisterPushToken(c *gin.Context) {
	var input PushTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	if err := h.service.RegisterPushToken(p.ID, input.Token); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStaffNotFound, "Staff not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Push token updated successfully"})
}
