package handler

import (
	"errors"
	"net/http"

	"cake_shop_backend/internal/domain/user/model"
	"cake_shop_backend/internal/domain/user/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/internal/pkg/uploader"
	"cake_shop_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 顾客处理器
type UserHandler struct {
	service  service.UserService
	uploader uploader.Uploader
}

// NewUserHandler 创建处理器，uploader 可为 nil（OSS 未配置时禁用头像上传）
func NewUserHandler(s service.UserService, up uploader.Uploader) *UserHandler {
	return &UserHandler{service: s, uploader: up}
}

// PhoneInput 手机号输入
type PhoneInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// CheckPhone 检查手机号是否已注册
// @Summary 检查手机号，已注册直接返回令牌
// @Tags User
// @Accept json
// @Produce json
// @Param input body PhoneInput true "Phone"
// @Success 200 {object} response.Response
// @Router /auth/check-phone [post]
func (h *UserHandler) CheckPhone(c *gin.Context) {
	var input PhoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, token, err := h.service.CheckPhone(input.PhoneNumber)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	if user == nil {
		response.Success(c, gin.H{
			"message":        "New user",
			"isExistingUser": false,
		})
		return
	}
	response.Success(c, gin.H{
		"message":        "User exists",
		"isExistingUser": true,
		"user":           user,
		"token":          token,
	})
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name        string  `json:"name" binding:"required"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
}

// Register 手机号注册
// @Summary 注册新顾客
// @Tags User
// @Accept json
// @Produce json
// @Param input body RegisterInput true "Registration"
// @Success 201 {object} response.Response
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, token, err := h.service.Register(service.RegisterInput{
		Name:        input.Name,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneTaken):
			response.Error(c, http.StatusBadRequest, response.ErrUserExists, "Phone number already registered")
		case errors.Is(err, service.ErrEmailTaken):
			response.Error(c, http.StatusBadRequest, response.ErrUserExists, "Email already registered")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Created(c, gin.H{"user": user, "token": token})
}

// SendOTP 发送验证码
// @Summary 发送登录验证码
// @Tags User
// @Router /auth/otp [post]
func (h *UserHandler) SendOTP(c *gin.Context) {
	var input PhoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SendOTP(input.PhoneNumber); err != nil {
		response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "OTP sent"})
}

// LoginInput 验证码登录输入
type LoginInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// LoginWithPhone 验证码登录
// @Summary 手机验证码登录
// @Tags User
// @Accept json
// @Produce json
// @Param input body LoginInput true "Login"
// @Success 200 {object} response.Response
// @Router /auth/login/phone [post]
func (h *UserHandler) LoginWithPhone(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, token, err := h.service.LoginWithPhone(input.PhoneNumber, input.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOTP):
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid verification code")
		case errors.Is(err, service.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found. Please register first.")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{"user": user, "token": token})
}

// GetProfile 获取当前顾客资料
// @Summary 获取顾客资料（含地址和 UPI 账户）
// @Tags User
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	user, err := h.service.GetProfile(p.ID)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
		return
	}
	response.Success(c, user)
}

// UpdateProfileInput 资料更新输入 (允许字段白名单)
type UpdateProfileInput struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	PhoneNumber    *string `json:"phoneNumber"`
	ProfilePicture *string `json:"profilePicture"`
}

// UpdateProfile 更新顾客资料
// @Summary 更新顾客资料
// @Tags User
// @Router /users/profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	user, err := h.service.UpdateProfile(p.ID, service.UpdateProfileInput{
		Name:           input.Name,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		ProfilePicture: input.ProfilePicture,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// UploadAvatar 上传头像到 OSS
// @Summary 上传顾客头像
// @Tags User
// @Accept multipart/form-data
// @Param file formData file true "Avatar image"
// @Router /users/profile/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
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

	p, _ := middleware.GetPrincipal(c)
	if err := h.service.UpdateProfilePicture(p.ID, url); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"url": url})
}

// SettingsInput 设置补丁输入
type SettingsInput struct {
	Notifications *model.NotificationSettings `json:"notifications"`
	Privacy       *model.PrivacySettings      `json:"privacy"`
	Security      *model.SecuritySettings     `json:"security"`
}

// UpdateSettings 更新账户设置
// @Summary 按分组更新账户设置
// @Tags User
// @Router /users/settings [patch]
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	var input SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	settings, err := h.service.UpdateSettings(p.ID, service.SettingsPatch{
		Notifications: input.Notifications,
		Privacy:       input.Privacy,
		Security:      input.Security,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, settings)
}

// PushTokenInput 设备推送 token 输入
type PushTokenInput struct {
	Token string `json:"token" binding:"required"`
}

// RegisterPushToken 注册设备推送 token
// @Summary 注册设备推送 token
// @Tags User
// @Router /users/push-token [post]
func (h *UserHandler) RegisterPushToken(c *gin.Context) {
	var input PushTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	if err := h.service.RegisterPushToken(p.ID, input.Token); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "Push token updated successfully"})
}

// AddressInput 地址输入
type AddressInput struct {
	Type      string   `json:"type" binding:"required,oneof=Home Work Other"`
	Street    string   `json:"street"`
	City      string   `json:"city" binding:"required"`
	State     string   `json:"state" binding:"required"`
	Pincode   string   `json:"pincode" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsDefault bool     `json:"isDefault"`
}

func (in AddressInput) toService() service.AddressInput {
	return service.AddressInput{
		Type:      in.Type,
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		Pincode:   in.Pincode,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		IsDefault: in.IsDefault,
	}
}

// ListAddresses 获取地址列表
// @Summary 获取地址列表
// @Tags User
// @Router /users/addresses [get]
func (h *UserHandler) ListAddresses(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	addresses, err := h.service.ListAddresses(p.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addresses)
}

// AddAddress 新增地址
// @Summary 新增收货地址
// @Tags User
// @Router /users/addresses [post]
func (h *UserHandler) AddAddress(c *gin.Context) {
	var input AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	addresses, err := h.service.AddAddress(p.ID, input.toService())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, addresses)
}

// UpdateAddress 更新地址
// @Summary 更新收货地址
// @Tags User
// @Router /users/addresses/{id} [patch]
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	var input AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	addresses, err := h.service.UpdateAddress(p.ID, c.Param("id"), input.toService())
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrInvalidParam, "Address not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addresses)
}

// DeleteAddress 删除地址
// @Summary 删除收货地址
// @Tags User
// @Router /users/addresses/{id} [delete]
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	addresses, err := h.service.DeleteAddress(p.ID, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addresses)
}

// SyncLocationAddress 按类型同步定位地址
// @Summary 同步定位地址（同类型覆盖）
// @Tags User
// @Router /users/addresses/sync-location [post]
func (h *UserHandler) SyncLocationAddress(c *gin.Context) {
	var body struct {
		Address AddressInput `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Address data is required")
		return
	}

	p, _ := middleware.GetPrincipal(c)
	addresses, err := h.service.SyncLocationAddress(p.ID, body.Address.toService())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, addresses)
}

// UPIInput UPI 账户输入
type UPIInput struct {
	UPIID     string `json:"upiId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

// ListUPIAccounts 获取 UPI 账户列表
// @Summary 获取 UPI 账户列表
// @Tags User
// @Router /users/upi [get]
func (h *UserHandler) ListUPIAccounts(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	accounts, err := h.service.ListUPIAccounts(p.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, accounts)
}

// AddUPIAccount 绑定 UPI 账户
// @Summary 绑定 UPI 账户
// @Tags User
// @Router /users/upi [post]
func (h *UserHandler) AddUPIAccount(c *gin.Context) {
	var input UPIInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	accounts, err := h.service.AddUPIAccount(p.ID, service.UPIInput{
		UPIID:     input.UPIID,
		Name:      input.Name,
		IsDefault: input.IsDefault,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, accounts)
}

// UpdateUPIAccount 更新 UPI 账户
// @Summary 更新 UPI 账户
// @Tags User
// @Router /users/upi/{id} [patch]
func (h *UserHandler) UpdateUPIAccount(c *gin.Context) {
	var input UPIInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	accounts, err := h.service.UpdateUPIAccount(p.ID, c.Param("id"), service.UPIInput{
		UPIID:     input.UPIID,
		Name:      input.Name,
		IsDefault: input.IsDefault,
	})
	if err != nil {
		if errors.Is(err, service.ErrUPINotFound) {
			response.Error(c, http.StatusNotFound, response.ErrInvalidParam, "UPI account not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, accounts)
}

// DeleteUPIAccount 删除 UPI 账户
// @Summary 删除 UPI 账户
// @Tags User
// @Router /users/upi/{id} [delete]
func (h *UserHandler) DeleteUPIAccount(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	accounts, err := h.service.DeleteUPIAccount(p.ID, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, accounts)
}

// AdminListUsers 管理员获取全量顾客列表
// @Summary 获取顾客列表 (按注册时间倒序)
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) AdminListUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, users)
}

// AdminGetUser 管理员按 ID 获取顾客
// @Summary 获取顾客详情
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/users/{id} [get]
func (h *UserHandler) AdminGetUser(c *gin.Context) {
	user, err := h.service.GetProfile(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// AdminUpdateUser 管理员更新顾客资料 (允许字段白名单)
// @Summary 更新顾客资料
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body UpdateProfileInput true "Fields"
// @Success 200 {object} response.Response
// @Router /admin/users/{id} [put]
func (h *UserHandler) AdminUpdateUser(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Param("id"), service.UpdateProfileInput{
		Name:           input.Name,
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		ProfilePicture: input.ProfilePicture,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// AdminDeleteUser 管理员删除顾客账号
// @Summary 删除顾客账号
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/users/{id} [delete]
func (h *UserHandler) AdminDeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "User deleted successfully"})
}
