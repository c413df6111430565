package application

import (
	"context"
	"testing"
	"time"

	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/internal/wishlist/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeWishlistRepository 内存心愿单仓储，复刻唯一键幂等语义
type fakeWishlistRepository struct {
	nextID uint
	items  []*domain.WishlistItem
}

func newFakeWishlistRepository() *fakeWishlistRepository {
	return &fakeWishlistRepository{nextID: 1}
}

func (r *fakeWishlistRepository) Add(ctx context.Context, userID, productID uint) error {
	for _, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			return nil
		}
	}
	r.items = append(r.items, &domain.WishlistItem{
		ID:        r.nextID,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	})
	r.nextID++
	return nil
}

func (r *fakeWishlistRepository) Remove(ctx context.Context, userID, productID uint) (bool, error) {
	for i, item := range r.items {
		if item.UserID == userID && item.ProductID == productID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWishlistRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.WishlistItem, error) {
	var out []*domain.WishlistItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

// fakeProductRepository 只实现心愿单用到的读路径
type fakeProductRepository struct {
	products map[uint]*catalogdomain.Product
}

func newFakeProductRepository(products ...*catalogdomain.Product) *fakeProductRepository {
	r := &fakeProductRepository{products: make(map[uint]*catalogdomain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepository) Save(ctx context.Context, product *catalogdomain.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepository) GetByID(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepository) GetByHandle(ctx context.Context, handle string) (*catalogdomain.Product, error) {
	for _, p := range r.products {
		if p.Handle == handle {
			return p, nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (r *fakeProductRepository) List(ctx context.Context, filter catalogdomain.ListFilter) ([]*catalogdomain.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepository) DecrementInventory(ctx context.Context, productID uint, qty int) error {
	return nil
}

func wishlistProduct(id uint, title string) *catalogdomain.Product {
	return &catalogdomain.Product{
		Model:     gorm.Model{ID: id},
		Handle:    title,
		Title:     title,
		Price:     decimal.RequireFromString("9.99"),
		Available: true,
	}
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	items := newFakeWishlistRepository()
	svc := NewWishlistService(items, newFakeProductRepository(wishlistProduct(1, "tea")))

	require.NoError(t, svc.Add(context.Background(), 7, 1))
	// 重复加入不报错也不产生新条目
	require.NoError(t, svc.Add(context.Background(), 7, 1))

	views, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	svc := NewWishlistService(newFakeWishlistRepository(), newFakeProductRepository())

	err := svc.Add(context.Background(), 7, 99)
	assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
}

func TestWishlistRemoveIsIdempotent(t *testing.T) {
	items := newFakeWishlistRepository()
	svc := NewWishlistService(items, newFakeProductRepository(wishlistProduct(1, "tea")))

	require.NoError(t, svc.Add(context.Background(), 7, 1))
	require.NoError(t, svc.Remove(context.Background(), 7, 1))
	// 再次移除同一商品同样成功
	require.NoError(t, svc.Remove(context.Background(), 7, 1))

	views, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestWishlistListSkipsVanishedProducts(t *testing.T) {
	items := newFakeWishlistRepository()
	products := newFakeProductRepository(wishlistProduct(1, "tea"), wishlistProduct(2, "kettle"))
	svc := NewWishlistService(items, products)

	require.NoError(t, svc.Add(context.Background(), 7, 1))
	require.NoError(t, svc.Add(context.Background(), 7, 2))

	delete(products.products, 2)

	views, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, uint(1), views[0].ProductID)
	assert.Equal(t, "tea", views[0].Product.Title)
}

func TestWishlistScopedToUser(t *testing.T) {
	items := newFakeWishlistRepository()
	svc := NewWishlistService(items, newFakeProductRepository(wishlistProduct(1, "tea")))

	require.NoError(t, svc.Add(context.Background(), 7, 1))

	views, err := svc.List(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, views)
}
