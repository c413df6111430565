// Package http 订单 HTTP 处理器
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	identityhttp "github.com/palmbay/storefront/internal/identity/interfaces/http"
	"github.com/palmbay/storefront/internal/order/application"
	"github.com/palmbay/storefront/internal/order/domain"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/response"
)

// OrderHandler HTTP 处理器
// 负责处理与订单相关的 HTTP 请求
type OrderHandler struct {
	commands *application.OrderCommandService
	query    *application.OrderQueryService
}

// NewOrderHandler 创建订单处理器实例
func NewOrderHandler(commands *application.OrderCommandService, query *application.OrderQueryService) *OrderHandler {
	return &OrderHandler{commands: commands, query: query}
}

// RegisterRoutes 注册路由，全部要求已登录用户
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/orders", identityhttp.RequireUser())
	{
		api.POST("", h.PlaceOrder)
		api.GET("", h.ListOrders)
		api.GET("/:id", h.GetOrder)
	}
}

// PlaceOrderRequest 下单请求。账单地址缺省时沿用收货地址。
type PlaceOrderRequest struct {
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	ShippingAddress domain.Address  `json:"shipping_address" binding:"required"`
	BillingAddress  *domain.Address `json:"billing_address"`
}

// PlaceOrder 由当前购物车创建订单
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, _ := identityhttp.UserIDFrom(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	order, err := h.commands.PlaceOrder(c.Request.Context(), application.PlaceOrderCommand{
		UserID:          userID,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
	})
	if err != nil {
		var insufficient *catalogdomain.InsufficientInventoryError
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, catalogdomain.ErrProductUnavailable):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &insufficient):
			response.Error(c, http.StatusConflict, insufficient.Error())
		default:
			logger.Error(c.Request.Context(), "Failed to place order", "user_id", userID, "error", err)
			response.Error(c, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	c.JSON(http.StatusCreated, response.Body{Success: true, Data: order, Message: "order placed"})
}

// ListOrders 分页查询当前用户的订单
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, _ := identityhttp.UserIDFrom(c)
	page := response.ParsePagination(c)

	orders, total, err := h.query.ListOrders(c.Request.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to list orders")
		return
	}

	response.Success(c, response.NewPage(orders, total, page))
}

// GetOrder 按订单号查询当前用户的订单
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, _ := identityhttp.UserIDFrom(c)
	orderID := c.Param("id")

	order, err := h.query.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to get order", "order_id", orderID, "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to get order")
		return
	}

	response.Success(c, gin.H{"order": order})
}
