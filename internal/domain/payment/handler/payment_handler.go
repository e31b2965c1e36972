package handler

import (
	"errors"
	"net/http"

	orderModel "cake_shop_backend/internal/domain/order/model"
	orderService "cake_shop_backend/internal/domain/order/service"
	"cake_shop_backend/internal/domain/payment/service"
	walletService "cake_shop_backend/internal/domain/wallet/service"
	"cake_shop_backend/internal/pkg/config"
	"cake_shop_backend/internal/pkg/middleware"
	"cake_shop_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler 支付处理器
type PaymentHandler struct {
	service service.PaymentService
}

// NewPaymentHandler 创建处理器
func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// ItemInput 结算行项目
type ItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Price     int64  `json:"price" binding:"required,gt=0"`
}

// AddressInput 收货地址
type AddressInput struct {
	Type      string   `json:"type"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Pincode   string   `json:"pincode"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	Items                []ItemInput  `json:"items" binding:"required,min=1,dive"`
	TotalAmount          int64        `json:"totalAmount" binding:"required,gt=0"`
	ShippingAddress      AddressInput `json:"shippingAddress" binding:"required"`
	OrderInstructions    string       `json:"orderInstructions"`
	DeliveryInstructions string       `json:"deliveryInstructions"`
}

func (in *CheckoutInput) toOrderInput() orderService.CreateOrderInput {
	items := make([]orderService.ItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, orderService.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return orderService.CreateOrderInput{
		Items:       items,
		TotalAmount: in.TotalAmount,
		Shipping: orderModel.ShippingAddress{
			Type:      in.ShippingAddress.Type,
			Street:    in.ShippingAddress.Street,
			City:      in.ShippingAddress.City,
			State:     in.ShippingAddress.State,
			Pincode:   in.ShippingAddress.Pincode,
			Latitude:  in.ShippingAddress.Latitude,
			Longitude: in.ShippingAddress.Longitude,
		},
		OrderInstructions:    in.OrderInstructions,
		DeliveryInstructions: in.DeliveryInstructions,
	}
}

// CreateOrder 在线支付下单
// @Summary 在线支付下单，返回网关订单供前端唤起收银台
// @Tags Payment
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	result, err := h.service.Checkout(c.Request.Context(), p.ID, orderModel.MethodRazorpay, input.toOrderInput())
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":         result.Order,
		"razorpayOrder": result.GatewayOrder,
		"key":           config.GlobalConfig.Razorpay.KeyID,
	})
}

// VerifyInput 验签输入，字段名与网关回传保持一致
type VerifyInput struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyOrder 在线支付验签
// @Summary 在线支付验签，通过后订单标记支付完成
// @Tags Payment
// @Router /payments/verify-order [post]
func (h *PaymentHandler) VerifyOrder(c *gin.Context) {
	var input VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	order, err := h.service.VerifyPayment(p.ID, input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidSignature):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidSignature, "Payment verification failed")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message": "Payment verified successfully",
		"order":   order,
	})
}

// CheckoutCOD 货到付款下单
// @Summary 货到付款下单
// @Tags Payment
// @Router /payments/cod [post]
func (h *PaymentHandler) CheckoutCOD(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	result, err := h.service.Checkout(c.Request.Context(), p.ID, orderModel.MethodCOD, input.toOrderInput())
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "Order placed successfully",
		"order":   result.Order,
	})
}

// ConfirmCOD 管理员确认货到付款收款
// @Summary 管理员确认货到付款收款，订单进入 Processing
// @Tags Payment
// @Router /payments/cod/{orderId}/confirm [put]
func (h *PaymentHandler) ConfirmCOD(c *gin.Context) {
	order, err := h.service.ConfirmCOD(c.Param("orderId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrNotCODOrder):
			response.Error(c, http.StatusBadRequest, response.ErrNotCODOrder, "This order is not a COD order")
		case errors.Is(err, service.ErrPaymentDone):
			response.Error(c, http.StatusBadRequest, response.ErrPaymentDone, "Payment already completed")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message": "COD payment confirmed",
		"order":   order,
	})
}

// CheckoutWallet 钱包支付下单
// @Summary 钱包支付下单，余额不足则拒绝
// @Tags Payment
// @Router /payments/wallet [post]
func (h *PaymentHandler) CheckoutWallet(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	result, err := h.service.Checkout(c.Request.Context(), p.ID, orderModel.MethodWallet, input.toOrderInput())
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message":       "Order placed successfully",
		"order":         result.Order,
		"walletBalance": result.WalletBalance,
	})
}

// RefundToWallet 退款进钱包
// @Summary 已取消订单退款进钱包
// @Tags Payment
// @Router /payments/refund-to-wallet/{orderId} [post]
func (h *PaymentHandler) RefundToWallet(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	order, wallet, err := h.service.Refund(p.ID, c.Param("orderId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrRefundNotAllowed):
			response.Error(c, http.StatusBadRequest, response.ErrRefundNotAllowed, "Only cancelled orders can be refunded")
		case errors.Is(err, service.ErrAlreadyRefunded):
			response.Error(c, http.StatusBadRequest, response.ErrAlreadyRefunded, "Order already refunded")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"message":       "Refund added to wallet successfully",
		"order":         order,
		"walletBalance": wallet.Balance,
	})
}

// TopupInput 充值输入
type TopupInput struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// WalletTopup 发起钱包充值
// @Summary 发起钱包充值，创建网关订单
// @Tags Payment
// @Router /payments/wallet/add [post]
func (h *PaymentHandler) WalletTopup(c *gin.Context) {
	var input TopupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	gwOrder, err := h.service.WalletTopupCreate(c.Request.Context(), p.ID, input.Amount)
	if err != nil {
		if errors.Is(err, service.ErrGatewayDisabled) {
			response.Error(c, http.StatusServiceUnavailable, response.ErrGatewayFailed, "Payment gateway is not configured")
			return
		}
		response.Error(c, http.StatusBadGateway, response.ErrGatewayFailed, err.Error())
		return
	}
	response.Success(c, gin.H{
		"razorpayOrder": gwOrder,
		"key":           config.GlobalConfig.Razorpay.KeyID,
	})
}

// TopupVerifyInput 充值验签输入
type TopupVerifyInput struct {
	VerifyInput
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// WalletTopupVerify 充值验签入账
// @Summary 充值验签，通过后余额入账
// @Tags Payment
// @Router /payments/wallet/verify [post]
func (h *PaymentHandler) WalletTopupVerify(c *gin.Context) {
	var input TopupVerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	p, _ := middleware.GetPrincipal(c)
	wallet, err := h.service.WalletTopupVerify(p.ID, input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature, input.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidSignature, "Payment verification failed")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{
		"message": "Money added to wallet successfully",
		"wallet":  wallet,
	})
}

func (h *PaymentHandler) checkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedMethod):
		response.Error(c, http.StatusBadRequest, response.ErrUnsupportedMethod, "Unsupported payment method")
	case errors.Is(err, walletService.ErrInsufficientBalance):
		response.Error(c, http.StatusBadRequest, response.ErrInsufficientBalance, "Insufficient wallet balance")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
