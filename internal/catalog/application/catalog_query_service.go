package application

import (
	"context"
	"fmt"
	"time"

	"github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/pkg/cache"
	"github.com/palmbay/storefront/pkg/logger"
)

const productCacheTTL = 5 * time.Minute

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repo  domain.ProductRepository
	cache *cache.RedisCache
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(repo domain.ProductRepository, c *cache.RedisCache) *CatalogQueryService {
	return &CatalogQueryService{repo: repo, cache: c}
}

// ListProducts 按过滤条件查询商品列表
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, int64, error) {
	return s.repo.List(ctx, filter)
}

// GetProduct 按 ID 查询商品
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProductByHandle 按 handle 查询商品，带 Redis 缓存。
// 缓存只服务目录展示；库存校验始终读数据库（见 InventoryLedger）。
func (s *CatalogQueryService) GetProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	key := productHandleKey(handle)

	if s.cache != nil {
		var cached domain.Product
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	product, err := s.repo.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, product, productCacheTTL); err != nil {
			logger.Warn(ctx, "Failed to cache product", "handle", handle, "error", err)
		}
	}
	return product, nil
}

// InvalidateProduct 使商品缓存失效
func (s *CatalogQueryService) InvalidateProduct(ctx context.Context, handle string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productHandleKey(handle)); err != nil {
		logger.Warn(ctx, "Failed to invalidate product cache", "handle", handle, "error", err)
	}
}

func productHandleKey(handle string) string {
	return fmt.Sprintf("catalog:product:handle:%s", handle)
}

func productKey(id uint) string {
	return fmt.Sprintf("%d", id)
}
