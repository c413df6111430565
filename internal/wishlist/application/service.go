package application

import (
	"context"
	"errors"

	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/internal/wishlist/domain"
)

// WishlistItemView 心愿单视图，附带实时商品数据
type WishlistItemView struct {
	ID        uint                   `json:"id"`
	ProductID uint                   `json:"product_id"`
	Product   *catalogdomain.Product `json:"product,omitempty"`
}

// WishlistService 心愿单应用服务
type WishlistService struct {
	items    domain.WishlistRepository
	products catalogdomain.ProductRepository
}

// NewWishlistService 创建心愿单服务实例
func NewWishlistService(items domain.WishlistRepository, products catalogdomain.ProductRepository) *WishlistService {
	return &WishlistService{items: items, products: products}
}

// Add 加入心愿单，商品必须存在
func (s *WishlistService) Add(ctx context.Context, userID, productID uint) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.items.Add(ctx, userID, productID)
}

// Remove 移除心愿单条目，条目不存在时为幂等成功
func (s *WishlistService) Remove(ctx context.Context, userID, productID uint) error {
	_, err := s.items.Remove(ctx, userID, productID)
	return err
}

// List 返回用户心愿单，商品已删除的条目不展示
func (s *WishlistService) List(ctx context.Context, userID uint) ([]WishlistItemView, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]WishlistItemView, 0, len(items))
	for _, item := range items {
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalogdomain.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, WishlistItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product:   product,
		})
	}
	return views, nil
}
