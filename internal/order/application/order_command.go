package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	cartdomain "github.com/palmbay/storefront/internal/cart/domain"
	catalogapp "github.com/palmbay/storefront/internal/catalog/application"
	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	iddomain "github.com/palmbay/storefront/internal/identity/domain"
	"github.com/palmbay/storefront/internal/order/domain"
	"github.com/palmbay/storefront/internal/pricing"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/metrics"
)

// PlaceOrderCommand 下单命令
type PlaceOrderCommand struct {
	UserID          uint
	PaymentMethod   string
	ShippingAddress domain.Address
	BillingAddress  domain.Address
}

// OrderCommandService 订单命令服务
type OrderCommandService struct {
	orders    domain.OrderRepository
	carts     cartdomain.CartRepository
	products  catalogdomain.ProductRepository
	inventory *catalogapp.InventoryLedger
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewOrderCommandService 创建订单命令服务实例
func NewOrderCommandService(
	orders domain.OrderRepository,
	carts cartdomain.CartRepository,
	products catalogdomain.ProductRepository,
	inventory *catalogapp.InventoryLedger,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *OrderCommandService {
	return &OrderCommandService{
		orders:    orders,
		carts:     carts,
		products:  products,
		inventory: inventory,
		publisher: publisher,
		metrics:   m,
	}
}

// PlaceOrder 由当前购物车生成订单。订单写入、逐行库存扣减和购物车
// 清空在同一个存储事务内完成，任何一行库存不足都会整体回滚，
// 购物车保持原样。
func (s *OrderCommandService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if cmd.UserID == 0 {
		return nil, iddomain.ErrAuthenticationRequired
	}
	identity := iddomain.UserIdentity(cmd.UserID)

	var order *domain.Order
	err := s.orders.Transaction(ctx, func(txCtx context.Context) error {
		lines, err := s.carts.ListByIdentity(txCtx, identity)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		items := make([]domain.OrderItem, 0, len(lines))
		priced := make([]pricing.Line, 0, len(lines))

		for _, line := range lines {
			product, err := s.products.GetByID(txCtx, line.ProductID)
			if err != nil {
				return err
			}
			if !product.Available {
				return catalogdomain.ErrProductUnavailable
			}
			if err := s.inventory.Decrement(txCtx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			items = append(items, domain.OrderItem{
				ProductID: product.ID,
				VariantID: line.VariantID,
				Title:     product.Title,
				UnitPrice: product.Price,
				Quantity:  line.Quantity,
			})
			priced = append(priced, pricing.Line{UnitPrice: product.Price, Quantity: line.Quantity})
		}

		totals := pricing.ComputeTotals(priced)
		order = &domain.Order{
			OrderID:         uuid.NewString(),
			UserID:          cmd.UserID,
			Status:          domain.OrderStatusPending,
			PaymentStatus:   domain.PaymentStatusPending,
			TotalAmount:     totals.Subtotal,
			PaymentMethod:   cmd.PaymentMethod,
			ShippingAddress: cmd.ShippingAddress,
			BillingAddress:  cmd.BillingAddress,
			Items:           items,
		}
		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}

		return s.carts.Clear(txCtx, identity)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrder()
	}
	if s.publisher != nil {
		event := domain.OrderPlacedEvent{
			OrderID:     order.OrderID,
			UserID:      order.UserID,
			TotalAmount: order.TotalAmount.StringFixed(2),
			ItemCount:   len(order.Items),
			Timestamp:   time.Now(),
		}
		if err := s.publisher.Publish(ctx, "order.placed", order.OrderID, event); err != nil {
			logger.Warn(ctx, "发布下单事件失败", "order_id", order.OrderID, "error", err)
		}
	}

	return order, nil
}
