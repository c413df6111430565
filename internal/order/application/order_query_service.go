package application

import (
	"context"

	"github.com/palmbay/storefront/internal/order/domain"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	orders domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(orders domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// ListOrders 按下单时间倒序分页查询当前用户的订单
func (s *OrderQueryService) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]*domain.Order, int64, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// GetOrder 按订单号查询当前用户的订单
func (s *OrderQueryService) GetOrder(ctx context.Context, userID uint, orderID string) (*domain.Order, error) {
	return s.orders.GetByOrderID(ctx, userID, orderID)
}
