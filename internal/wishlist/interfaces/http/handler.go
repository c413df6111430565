// Package http 心愿单 HTTP 处理器
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	identityhttp "github.com/palmbay/storefront/internal/identity/interfaces/http"
	"github.com/palmbay/storefront/internal/wishlist/application"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/response"
)

// WishlistHandler 心愿单 HTTP 处理器
type WishlistHandler struct {
	service *application.WishlistService
}

// NewWishlistHandler 创建心愿单处理器实例
func NewWishlistHandler(service *application.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// RegisterRoutes 注册路由，全部要求已登录用户
func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/wishlist", identityhttp.RequireUser())
	{
		api.GET("", h.List)
		api.POST("", h.Add)
		api.DELETE("/:product_id", h.Remove)
	}
}

// AddRequest 加入心愿单请求
type AddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// List 查询心愿单
func (h *WishlistHandler) List(c *gin.Context) {
	userID, _ := identityhttp.UserIDFrom(c)

	items, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list wishlist", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to list wishlist")
		return
	}

	response.Success(c, gin.H{"items": items})
}

// Add 加入心愿单
func (h *WishlistHandler) Add(c *gin.Context) {
	userID, _ := identityhttp.UserIDFrom(c)

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Add(c.Request.Context(), userID, req.ProductID); err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to add wishlist item", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to add wishlist item")
		return
	}

	c.JSON(http.StatusCreated, response.Body{Success: true, Message: "item added to wishlist"})
}

// Remove 移除心愿单条目
func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, _ := identityhttp.UserIDFrom(c)

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.service.Remove(c.Request.Context(), userID, uint(productID)); err != nil {
		logger.Error(c.Request.Context(), "Failed to remove wishlist item", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to remove wishlist item")
		return
	}

	response.SuccessWithMessage(c, nil, "item removed from wishlist")
}
