package handler

import (
	"net/http"

	"cake_shop_backend/internal/domain/analytics/service"
	"cake_shop_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 统计处理器
type AnalyticsHandler struct {
	service service.AnalyticsService
}

// NewAnalyticsHandler 创建处理器
func NewAnalyticsHandler(s service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

// Dashboard 运营看板
// @Summary 运营看板：订单数、营收、用户数、商品数、最近订单
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, stats)
}

// Sales 销售报表
// @Summary 销售趋势，period 取 daily / weekly / monthly
// @Tags Analytics
// @Router /admin/analytics/sales [get]
func (h *AnalyticsHandler) Sales(c *gin.Context) {
	report, err := h.service.Sales(c.DefaultQuery("period", "monthly"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, report)
}

// Users 用户报表
// @Summary 用户注册趋势与活跃数
// @Tags Analytics
// @Router /admin/analytics/users [get]
func (h *AnalyticsHandler) Users(c *gin.Context) {
	report, err := h.service.Users()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, report)
}

// Products 商品报表
// @Summary 热销商品与口味分布
// @Tags Analytics
// @Router /admin/analytics/products [get]
func (h *AnalyticsHandler) Products(c *gin.Context) {
	report, err := h.service.Products()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, report)
}
