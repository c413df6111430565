package application

import (
	"context"
	"errors"

	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/internal/cart/domain"
	iddomain "github.com/palmbay/storefront/internal/identity/domain"
	"github.com/palmbay/storefront/internal/pricing"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	carts    domain.CartRepository
	products catalogdomain.ProductRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(
	carts domain.CartRepository,
	products catalogdomain.ProductRepository,
) *CartQueryService {
	return &CartQueryService{
		carts:    carts,
		products: products,
	}
}

// GetCart 组装购物车视图：逐行联查实时商品数据并重算小计。
// 商品已下架或被删除的行不参与展示与计价。
func (s *CartQueryService) GetCart(ctx context.Context, identity iddomain.Identity) (*domain.CartView, error) {
	lines, err := s.carts.ListByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartLineView, 0, len(lines))
	priced := make([]pricing.Line, 0, len(lines))

	for _, line := range lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalogdomain.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		items = append(items, domain.CartLineView{
			ID:        line.ID,
			Quantity:  line.Quantity,
			VariantID: line.VariantID,
			Product: domain.ProductSummary{
				ID:                product.ID,
				Title:             product.Title,
				Handle:            product.Handle,
				Price:             product.Price,
				Image:             product.FirstImage(),
				Available:         product.Available,
				InventoryQuantity: product.InventoryQuantity,
			},
		})
		priced = append(priced, pricing.Line{UnitPrice: product.Price, Quantity: line.Quantity})
	}

	totals := pricing.ComputeTotals(priced)
	return &domain.CartView{
		Items:     items,
		ItemCount: totals.ItemCount,
		Subtotal:  totals.SubtotalDisplay(),
		Total:     totals.SubtotalDisplay(),
	}, nil
}
