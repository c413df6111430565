// Package http 购物车 HTTP 处理器
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/palmbay/storefront/internal/cart/application"
	"github.com/palmbay/storefront/internal/cart/domain"
	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	identityhttp "github.com/palmbay/storefront/internal/identity/interfaces/http"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/response"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	commands *application.CartCommandService
	query    *application.CartQueryService
}

// NewCartHandler 创建购物车处理器实例
func NewCartHandler(commands *application.CartCommandService, query *application.CartQueryService) *CartHandler {
	return &CartHandler{commands: commands, query: query}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/cart")
	{
		api.GET("", h.GetCart)
		api.POST("", h.AddLine)
		api.PUT("/:id", h.UpdateLine)
		api.DELETE("/:id", h.RemoveLine)
		api.DELETE("", h.ClearCart)
	}
}

// AddLineRequest 添加购物车行请求
type AddLineRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// UpdateLineRequest 修改购物车行请求
type UpdateLineRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 查询当前身份的购物车
func (h *CartHandler) GetCart(c *gin.Context) {
	identity, ok := identityhttp.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "identity required")
		return
	}

	view, err := h.query.GetCart(c.Request.Context(), identity)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load cart", "identity", identity.Key(), "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to load cart")
		return
	}

	response.Success(c, view)
}

// AddLine 添加商品到购物车
func (h *CartHandler) AddLine(c *gin.Context) {
	identity, ok := identityhttp.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "identity required")
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.commands.AddLine(c.Request.Context(), application.AddLineCommand{
		Identity:  identity,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.writeCommandError(c, err, "Failed to add cart line")
		return
	}

	c.JSON(http.StatusCreated, response.Body{Success: true, Data: line, Message: "item added to cart"})
}

// UpdateLine 修改购物车行数量
func (h *CartHandler) UpdateLine(c *gin.Context) {
	identity, ok := identityhttp.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "identity required")
		return
	}

	lineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid cart line id")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	err = h.commands.UpdateLine(c.Request.Context(), application.UpdateLineCommand{
		Identity: identity,
		LineID:   uint(lineID),
		Quantity: *req.Quantity,
	})
	if err != nil {
		h.writeCommandError(c, err, "Failed to update cart line")
		return
	}

	response.SuccessWithMessage(c, nil, "cart updated")
}

// RemoveLine 删除购物车行，行不存在时同样返回成功
func (h *CartHandler) RemoveLine(c *gin.Context) {
	identity, ok := identityhttp.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "identity required")
		return
	}

	lineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid cart line id")
		return
	}

	err = h.commands.RemoveLine(c.Request.Context(), application.RemoveLineCommand{
		Identity: identity,
		LineID:   uint(lineID),
	})
	if err != nil {
		h.writeCommandError(c, err, "Failed to remove cart line")
		return
	}

	response.SuccessWithMessage(c, nil, "item removed from cart")
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	identity, ok := identityhttp.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "identity required")
		return
	}

	if err := h.commands.Clear(c.Request.Context(), identity); err != nil {
		h.writeCommandError(c, err, "Failed to clear cart")
		return
	}

	response.SuccessWithMessage(c, nil, "cart cleared")
}

func (h *CartHandler) writeCommandError(c *gin.Context, err error, logMsg string) {
	var insufficient *catalogdomain.InsufficientInventoryError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogdomain.ErrProductUnavailable):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalogdomain.ErrProductNotFound), errors.Is(err, domain.ErrLineNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	case errors.As(err, &insufficient):
		response.Error(c, http.StatusConflict, insufficient.Error())
	default:
		logger.Error(c.Request.Context(), logMsg, "error", err)
		response.Error(c, http.StatusInternalServerError, "cart operation failed")
	}
}
