// Package http 商品目录 HTTP 处理器
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/palmbay/storefront/internal/catalog/application"
	"github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/response"
	"github.com/shopspring/decimal"
)

// CatalogHandler 商品目录 HTTP 处理器
type CatalogHandler struct {
	query *application.CatalogQueryService
}

// NewCatalogHandler 创建商品目录处理器实例
func NewCatalogHandler(query *application.CatalogQueryService) *CatalogHandler {
	return &CatalogHandler{query: query}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/products")
	{
		api.GET("", h.ListProducts)
		api.GET("/:handle", h.GetProduct)
	}
}

// ListProducts 查询商品列表
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page := response.ParsePagination(c)

	filter := domain.ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}

	if raw := c.Query("price_min"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid price_min")
			return
		}
		filter.PriceMin = &min
	}
	if raw := c.Query("price_max"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid price_max")
			return
		}
		filter.PriceMax = &max
	}

	products, total, err := h.query.ListProducts(c.Request.Context(), filter)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to list products")
		return
	}

	response.Success(c, response.NewPage(products, total, page))
}

// GetProduct 按 handle 查询商品
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	handle := c.Param("handle")

	product, err := h.query.GetProductByHandle(c.Request.Context(), handle)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to get product", "handle", handle, "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to get product")
		return
	}

	response.Success(c, gin.H{"product": product})
}
