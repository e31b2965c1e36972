package handler

import (
	"errors"
	"net/http"

	"cake_shop_backend/internal/domain/wallet/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler 钱包处理器
type WalletHandler struct {
	service service.WalletService
}

// NewWalletHandler 创建处理器
func NewWalletHandler(s service.WalletService) *WalletHandler {
	return &WalletHandler{service: s}
}

// GetWallet 查询钱包
// @Summary 查询当前顾客钱包余额
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	wallet, err := h.service.GetWallet(p.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, wallet)
}

// GetTransactions 查询钱包流水
// @Summary 查询钱包流水（按时间倒序）
// @Tags Wallet
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	txns, err := h.service.GetTransactions(p.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, txns)
}

// AddMoneyInput 充值输入
type AddMoneyInput struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// AddMoney 直接充值入账
// @Summary 钱包充值
// @Tags Wallet
// @Accept json
// @Produce json
// @Param input body AddMoneyInput true "Amount"
// @Success 200 {object} response.Response
// @Router /users/wallet/add-money [post]
func (h *WalletHandler) AddMoney(c *gin.Context) {
	var input AddMoneyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	wallet, err := h.service.Credit(p.ID, input.Amount, "Added to wallet")
	if err != nil {
		if errors.Is(err, service.ErrInsufficientBalance) {
			response.Error(c, http.StatusBadRequest, response.ErrInsufficientBalance, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, wallet)
}
