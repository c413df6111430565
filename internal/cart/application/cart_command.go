package application

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/internal/cart/domain"
	iddomain "github.com/palmbay/storefront/internal/identity/domain"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/metrics"
)

// AddLineCommand 添加商品到购物车命令
type AddLineCommand struct {
	Identity  iddomain.Identity
	ProductID uint
	VariantID string
	Quantity  int
}

// UpdateLineCommand 修改购物车行数量命令
type UpdateLineCommand struct {
	Identity iddomain.Identity
	LineID   uint
	Quantity int
}

// RemoveLineCommand 删除购物车行命令
type RemoveLineCommand struct {
	Identity iddomain.Identity
	LineID   uint
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	carts     domain.CartRepository
	products  catalogdomain.ProductRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	carts domain.CartRepository,
	products catalogdomain.ProductRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CartCommandService {
	return &CartCommandService{
		carts:     carts,
		products:  products,
		publisher: publisher,
		metrics:   m,
	}
}

// AddLine 处理添加商品到购物车。同一身份下相同 (product, variant) 的行
// 合并数量而非新增行；合并后的总量不得超过当前库存。
func (s *CartCommandService) AddLine(ctx context.Context, cmd AddLineCommand) (*domain.CartLine, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, catalogdomain.ErrProductUnavailable
	}

	// 合并校验以现有行数量加本次增量为准
	existing := 0
	if line, err := s.carts.FindLine(ctx, cmd.Identity, cmd.ProductID, cmd.VariantID); err != nil {
		if !errors.Is(err, domain.ErrLineNotFound) {
			return nil, err
		}
	} else {
		existing = line.Quantity
	}

	requested := existing + cmd.Quantity
	if !product.CanFulfill(requested).Available {
		return nil, &catalogdomain.InsufficientInventoryError{
			ProductID: product.ID,
			Requested: requested,
			Available: product.InventoryQuantity,
		}
	}

	line := domain.NewCartLine(cmd.Identity, cmd.ProductID, cmd.VariantID, cmd.Quantity)
	if err := s.carts.UpsertAdd(ctx, line); err != nil {
		return nil, err
	}

	s.recordMutation("add")
	s.publish(ctx, "cart.item.added", cmd.Identity, domain.CartItemAddedEvent{
		Identity:  cmd.Identity.Key(),
		LineID:    line.ID,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Quantity:  line.Quantity,
		Timestamp: time.Now(),
	})

	return line, nil
}

// UpdateLine 处理购物车行数量修改。数量为 0 等价于删除该行。
func (s *CartCommandService) UpdateLine(ctx context.Context, cmd UpdateLineCommand) error {
	if cmd.Quantity < 0 {
		return domain.ErrInvalidQuantity
	}

	line, err := s.carts.GetLine(ctx, cmd.Identity, cmd.LineID)
	if err != nil {
		return err
	}

	if cmd.Quantity == 0 {
		removed, err := s.carts.DeleteLine(ctx, cmd.Identity, cmd.LineID)
		if err != nil {
			return err
		}
		if removed {
			s.recordMutation("remove")
			s.publish(ctx, "cart.item.removed", cmd.Identity, domain.CartItemRemovedEvent{
				Identity:  cmd.Identity.Key(),
				LineID:    cmd.LineID,
				ProductID: line.ProductID,
				Timestamp: time.Now(),
			})
		}
		return nil
	}

	product, err := s.products.GetByID(ctx, line.ProductID)
	if err != nil {
		return err
	}
	if !product.CanFulfill(cmd.Quantity).Available {
		return &catalogdomain.InsufficientInventoryError{
			ProductID: product.ID,
			Requested: cmd.Quantity,
			Available: product.InventoryQuantity,
		}
	}

	if err := s.carts.UpdateQuantity(ctx, cmd.Identity, cmd.LineID, cmd.Quantity); err != nil {
		return err
	}

	s.recordMutation("update")
	s.publish(ctx, "cart.item.updated", cmd.Identity, domain.CartItemUpdatedEvent{
		Identity:  cmd.Identity.Key(),
		LineID:    cmd.LineID,
		ProductID: line.ProductID,
		Quantity:  cmd.Quantity,
		Timestamp: time.Now(),
	})

	return nil
}

// RemoveLine 处理购物车行删除，目标行不存在时为幂等成功。
func (s *CartCommandService) RemoveLine(ctx context.Context, cmd RemoveLineCommand) error {
	line, err := s.carts.GetLine(ctx, cmd.Identity, cmd.LineID)
	if err != nil {
		if errors.Is(err, domain.ErrLineNotFound) {
			return nil
		}
		return err
	}

	removed, err := s.carts.DeleteLine(ctx, cmd.Identity, cmd.LineID)
	if err != nil {
		return err
	}
	if removed {
		s.recordMutation("remove")
		s.publish(ctx, "cart.item.removed", cmd.Identity, domain.CartItemRemovedEvent{
			Identity:  cmd.Identity.Key(),
			LineID:    cmd.LineID,
			ProductID: line.ProductID,
			Timestamp: time.Now(),
		})
	}

	return nil
}

// Clear 清空该身份名下的全部购物车行。
func (s *CartCommandService) Clear(ctx context.Context, identity iddomain.Identity) error {
	if err := s.carts.Clear(ctx, identity); err != nil {
		return err
	}

	s.recordMutation("clear")
	s.publish(ctx, "cart.cleared", identity, domain.CartClearedEvent{
		Identity:  identity.Key(),
		Timestamp: time.Now(),
	})

	return nil
}

func (s *CartCommandService) recordMutation(operation string) {
	if s.metrics != nil {
		s.metrics.RecordCartMutation(operation)
	}
}

func (s *CartCommandService) publish(ctx context.Context, topic string, identity iddomain.Identity, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, identity.Key(), event); err != nil {
		logger.Warn(ctx, "发布购物车事件失败", "topic", topic, "error", err)
	}
}
