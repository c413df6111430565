package domain

import (
	"context"

	identitydomain "github.com/palmbay/storefront/internal/identity/domain"
)

// CartRepository 购物车仓储接口，所有读写均以身份为作用域
type CartRepository interface {
	// UpsertAdd 插入新行，或对相同 (身份, product, variant) 的已有行
	// 在存储层原子累加数量，不做读改写。
	UpsertAdd(ctx context.Context, line *CartLine) error
	// GetLine 按行 ID 读取，身份不匹配时返回 ErrLineNotFound
	GetLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (*CartLine, error)
	// FindLine 按 (product, variant) 查找已有行，不存在时返回 ErrLineNotFound
	FindLine(ctx context.Context, identity identitydomain.Identity, productID uint, variantID string) (*CartLine, error)
	// UpdateQuantity 覆盖数量，qty 必须大于 0
	UpdateQuantity(ctx context.Context, identity identitydomain.Identity, lineID uint, qty int) error
	// DeleteLine 幂等删除，返回本次是否确实删除了行
	DeleteLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (bool, error)
	// ListByIdentity 按创建顺序返回该身份的全部行
	ListByIdentity(ctx context.Context, identity identitydomain.Identity) ([]*CartLine, error)
	// Clear 删除该身份的全部行
	Clear(ctx context.Context, identity identitydomain.Identity) error
}
