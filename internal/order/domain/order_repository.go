package domain

import (
	"context"
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Save 保存订单及其条目
	Save(ctx context.Context, order *Order) error
	// GetByOrderID 按对外订单号读取用户自己的订单，含条目
	GetByOrderID(ctx context.Context, userID uint, orderID string) (*Order, error)
	// ListByUser 按下单时间倒序分页返回用户订单
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*Order, int64, error)
	// Transaction 在单个存储事务内执行 fn，事务句柄经 context 传递，
	// 使购物车、商品、订单仓储的写入可以共用同一事务
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
