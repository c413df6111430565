// Package application 商品目录应用服务
package application

import (
	"context"
	"errors"
	"time"

	"github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/metrics"
)

// ProductCacheInvalidator 商品缓存失效端口，库存变动后使展示缓存过期
type ProductCacheInvalidator interface {
	InvalidateProduct(ctx context.Context, handle string)
}

// InventoryLedger 库存账本服务
// 所有库存读写的唯一入口：检查走 CheckAvailable，扣减走 Decrement。
// 扣减在存储层以单条条件更新完成，校验到扣减之间不缓存库存数。
type InventoryLedger struct {
	repo        domain.ProductRepository
	publisher   domain.EventPublisher
	metrics     *metrics.Metrics
	invalidator ProductCacheInvalidator
}

// NewInventoryLedger 创建库存账本服务实例
func NewInventoryLedger(repo domain.ProductRepository, publisher domain.EventPublisher, m *metrics.Metrics) *InventoryLedger {
	return &InventoryLedger{repo: repo, publisher: publisher, metrics: m}
}

// SetCacheInvalidator 挂接商品缓存失效端口
func (s *InventoryLedger) SetCacheInvalidator(invalidator ProductCacheInvalidator) {
	s.invalidator = invalidator
}

// CheckAvailable 只读检查：商品可售且剩余库存不小于请求数量
func (s *InventoryLedger) CheckAvailable(ctx context.Context, productID uint, requestedQty int) (domain.Availability, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return product.CanFulfill(requestedQty), nil
}

// Decrement 原子扣减库存，失败时不产生部分扣减
func (s *InventoryLedger) Decrement(ctx context.Context, productID uint, qty int) error {
	err := s.repo.DecrementInventory(ctx, productID, qty)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientInventory) {
			if s.metrics != nil {
				s.metrics.RecordInventoryConflict()
			}
			if s.publisher != nil {
				if pubErr := s.publisher.Publish(ctx, "inventory.conflict", productKey(productID), domain.InventoryConflictEvent{
					ProductID: productID,
					Requested: qty,
					Timestamp: time.Now(),
				}); pubErr != nil {
					logger.Warn(ctx, "发布库存冲突事件失败", "product_id", productID, "error", pubErr)
				}
			}
		}
		return err
	}

	logger.Debug(ctx, "Inventory decremented", "product_id", productID, "quantity", qty)

	if s.invalidator != nil {
		if product, err := s.repo.GetByID(ctx, productID); err == nil {
			s.invalidator.InvalidateProduct(ctx, product.Handle)
		}
	}

	if s.publisher != nil {
		if pubErr := s.publisher.Publish(ctx, "inventory.decremented", productKey(productID), domain.InventoryDecrementedEvent{
			ProductID: productID,
			Quantity:  qty,
			Timestamp: time.Now(),
		}); pubErr != nil {
			logger.Warn(ctx, "发布库存扣减事件失败", "product_id", productID, "error", pubErr)
		}
	}
	return nil
}
