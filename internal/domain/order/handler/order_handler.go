package handler

import (
	"errors"
	"net/http"

	"cake_shop_backend/internal/domain/order/service"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service service.OrderService
}

// NewOrderHandler 创建处理器
func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// ListUserOrders 顾客订单列表
// @Summary 顾客查询自己的订单
// @Tags Order
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/orders [get]
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	orders, err := h.service.ListUserOrders(p.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, orders)
}

// GetUserOrder 顾客查询单笔订单
// @Summary 顾客查询订单详情
// @Tags Order
// @Router /users/orders/{id} [get]
func (h *OrderHandler) GetUserOrder(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	order, err := h.service.GetUserOrder(p.ID, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		return
	}
	response.Success(c, order)
}

// CancelInput 取消订单输入
type CancelInput struct {
	Reason string `json:"reason"`
}

// CancelUserOrder 顾客取消订单
// @Summary 顾客取消订单（仅 Pending 可取消）
// @Tags Order
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /users/orders/{id}/cancel [post]
func (h *OrderHandler) CancelUserOrder(c *gin.Context) {
	var input CancelInput
	// body 可为空，reason 缺省为 "Cancelled by user"
	_ = c.ShouldBindJSON(&input)

	p, _ := middleware.GetPrincipal(c)
	order, err := h.service.CancelUserOrder(p.ID, c.Param("id"), input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrNotCancellable):
			response.Error(c, http.StatusBadRequest, response.ErrNotCancellable, "Only pending orders can be cancelled")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// ListOrders 管理员订单列表
// @Summary 管理员查询订单（分配给自己的和未分配的）
// @Tags Order
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	orders, err := h.service.ListOrders(p.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"orders": orders})
}

// GetOrder 管理员查询订单详情
// @Summary 管理员查询订单详情
// @Tags Order
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// StatusInput 状态输入
type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 管理员更新订单状态
// @Summary 管理员更新订单状态
// @Tags Order
// @Router /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Param("id"), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidStatus, "Invalid order status")
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// AssignAdminInput 改派管理员输入
type AssignAdminInput struct {
	AdminID string `json:"adminId" binding:"required"`
}

// AssignToAdmin 改派订单给管理员
// @Summary 改派订单给指定管理员
// @Tags Order
// @Router /admin/orders/{id}/assign [put]
func (h *OrderHandler) AssignToAdmin(c *gin.Context) {
	var input AssignAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.AssignToAdmin(c.Param("id"), input.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidAssignee):
			response.Error(c, http.StatusBadRequest, response.ErrStaffNotFound, "Invalid admin or admin not active")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message": "Order assigned to admin successfully",
		"order":   order,
	})
}

// AssignDeliveryInput 派单输入
type AssignDeliveryInput struct {
	OrderID       string `json:"orderId" binding:"required"`
	DeliveryBoyID string `json:"deliveryBoyId" binding:"required"`
}

// AssignToDeliveryBoy 派单给配送员
// @Summary 派单给配送员，订单进入 Shipped
// @Tags Order
// @Router /admin/orders/assign-delivery [post]
func (h *OrderHandler) AssignToDeliveryBoy(c *gin.Context) {
	var input AssignDeliveryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.AssignToDeliveryBoy(input.OrderID, input.DeliveryBoyID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrDeliveryNotFound):
			response.Error(c, http.StatusNotFound, response.ErrDeliveryNotFound, "Delivery boy not found")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message": "Order assigned successfully",
		"order":   order,
	})
}

// ListDeliveryOrders 配送员订单列表
// @Summary 配送员查询分配给自己的订单
// @Tags Delivery
// @Router /delivery/orders [get]
func (h *OrderHandler) ListDeliveryOrders(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	orders, err := h.service.ListDeliveryOrders(p.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"orders": orders})
}

// GetDeliveryOrder 配送员查询订单详情
// @Summary 配送员查询订单详情
// @Tags Delivery
// @Router /delivery/orders/{id} [get]
func (h *OrderHandler) GetDeliveryOrder(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	order, err := h.service.GetDeliveryOrder(p.ID, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrNotAssigned, "Order not found or not assigned to you")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// DeliveryStatusInput 配送状态上报输入
type DeliveryStatusInput struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

// UpdateDeliveryStatus 配送员状态上报
// @Summary 配送员更新订单状态（仅 Delivered / Cancelled）
// @Tags Delivery
// @Router /delivery/orders/{id}/status [put]
func (h *OrderHandler) UpdateDeliveryStatus(c *gin.Context) {
	var input DeliveryStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	order, err := h.service.UpdateDeliveryStatus(p.ID, c.Param("id"), service.DeliveryStatusInput{
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAssigned):
			response.Error(c, http.StatusNotFound, response.ErrNotAssigned, "Order not found or not assigned to you")
		case errors.Is(err, service.ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidStatus, "Invalid status update for delivery boy")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{"order": order})
}

// VerifyCODInput 货到付款核验输入
type VerifyCODInput struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Notes  string `json:"notes"`
}

// VerifyCODPayment 配送员核验货到付款
// @Summary 配送员核验货到付款收款金额
// @Tags Delivery
// @Router /delivery/orders/{id}/verify-cod [post]
func (h *OrderHandler) VerifyCODPayment(c *gin.Context) {
	var input VerifyCODInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid amount")
		return
	}

	p, _ := middleware.GetPrincipal(c)
	order, err := h.service.VerifyCODPayment(p.ID, c.Param("id"), input.Amount, input.Notes)
	if err != nil {
		var mismatch *service.AmountMismatchError
		switch {
		case errors.Is(err, service.ErrNotAssigned):
			response.Error(c, http.StatusNotFound, response.ErrNotAssigned, "Order not found or not assigned to you")
		case errors.Is(err, service.ErrNotCODOrder):
			response.Error(c, http.StatusBadRequest, response.ErrNotCODOrder, "This order is not a COD order")
		case errors.Is(err, service.ErrPaymentDone):
			response.Error(c, http.StatusBadRequest, response.ErrPaymentDone, "Payment already completed")
		case errors.As(err, &mismatch):
			response.Error(c, http.StatusBadRequest, response.ErrAmountMismatch, mismatch.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message":        "COD payment verified successfully",
		"order":          order,
		"paymentDetails": order.Verification,
	})
}
