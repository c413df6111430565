package application

import (
	"context"
	"sync"
	"testing"

	cartdomain "github.com/palmbay/storefront/internal/cart/domain"
	catalogapp "github.com/palmbay/storefront/internal/catalog/application"
	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	identitydomain "github.com/palmbay/storefront/internal/identity/domain"
	"github.com/palmbay/storefront/internal/order/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore 聚合内存状态，Transaction 在失败时恢复快照，模拟存储事务回滚
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint
	lines    []*cartdomain.CartLine
	products map[uint]*catalogdomain.Product
	orders   []*domain.Order
}

func newFakeStore(products ...*catalogdomain.Product) *fakeStore {
	s := &fakeStore{nextID: 1, products: make(map[uint]*catalogdomain.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) snapshot() ([]*cartdomain.CartLine, map[uint]*catalogdomain.Product, []*domain.Order) {
	lines := make([]*cartdomain.CartLine, len(s.lines))
	for i, l := range s.lines {
		copied := *l
		lines[i] = &copied
	}
	products := make(map[uint]*catalogdomain.Product, len(s.products))
	for id, p := range s.products {
		copied := *p
		products[id] = &copied
	}
	orders := make([]*domain.Order, len(s.orders))
	copy(orders, s.orders)
	return lines, products, orders
}

func sameIdentity(line *cartdomain.CartLine, identity identitydomain.Identity) bool {
	if identity.IsUser() {
		return line.UserID == identity.UserID && line.SessionID == ""
	}
	return line.UserID == 0 && line.SessionID == identity.SessionID
}

// 购物车仓储端口

type fakeCartRepo struct{ store *fakeStore }

func (r *fakeCartRepo) UpsertAdd(ctx context.Context, line *cartdomain.CartLine) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.lines {
		if sameIdentity(existing, line.Identity()) &&
			existing.ProductID == line.ProductID && existing.VariantID == line.VariantID {
			existing.Quantity += line.Quantity
			*line = *existing
			return nil
		}
	}
	line.ID = s.nextID
	s.nextID++
	copied := *line
	s.lines = append(s.lines, &copied)
	return nil
}

func (r *fakeCartRepo) GetLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (*cartdomain.CartLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, line := range r.store.lines {
		if line.ID == lineID && sameIdentity(line, identity) {
			copied := *line
			return &copied, nil
		}
	}
	return nil, cartdomain.ErrLineNotFound
}

func (r *fakeCartRepo) FindLine(ctx context.Context, identity identitydomain.Identity, productID uint, variantID string) (*cartdomain.CartLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, line := range r.store.lines {
		if sameIdentity(line, identity) && line.ProductID == productID && line.VariantID == variantID {
			copied := *line
			return &copied, nil
		}
	}
	return nil, cartdomain.ErrLineNotFound
}

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, identity identitydomain.Identity, lineID uint, qty int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, line := range r.store.lines {
		if line.ID == lineID && sameIdentity(line, identity) {
			line.Quantity = qty
			return nil
		}
	}
	return cartdomain.ErrLineNotFound
}

func (r *fakeCartRepo) DeleteLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, line := range r.store.lines {
		if line.ID == lineID && sameIdentity(line, identity) {
			r.store.lines = append(r.store.lines[:i], r.store.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCartRepo) ListByIdentity(ctx context.Context, identity identitydomain.Identity) ([]*cartdomain.CartLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*cartdomain.CartLine
	for _, line := range r.store.lines {
		if sameIdentity(line, identity) {
			copied := *line
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, identity identitydomain.Identity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*cartdomain.CartLine
	for _, line := range r.store.lines {
		if !sameIdentity(line, identity) {
			kept = append(kept, line)
		}
	}
	r.store.lines = kept
	return nil
}

// 商品仓储端口

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Save(ctx context.Context, product *catalogdomain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) GetByHandle(ctx context.Context, handle string) (*catalogdomain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.Handle == handle {
			copied := *p
			return &copied, nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (r *fakeProductRepo) List(ctx context.Context, filter catalogdomain.ListFilter) ([]*catalogdomain.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) DecrementInventory(ctx context.Context, productID uint, qty int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return catalogdomain.ErrProductNotFound
	}
	if p.InventoryQuantity < qty {
		return &catalogdomain.InsufficientInventoryError{
			ProductID: productID, Requested: qty, Available: p.InventoryQuantity,
		}
	}
	p.InventoryQuantity -= qty
	return nil
}

// 订单仓储端口

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders = append(r.store.orders, order)
	return nil
}

func (r *fakeOrderRepo) GetByOrderID(ctx context.Context, userID uint, orderID string) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.UserID == userID && o.OrderID == orderID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*domain.Order, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.mu.Lock()
	lines, products, orders := r.store.snapshot()
	r.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.store.mu.Lock()
		r.store.lines = lines
		r.store.products = products
		r.store.orders = orders
		r.store.mu.Unlock()
		return err
	}
	return nil
}

func stockedProduct(id uint, title, price string, stock int) *catalogdomain.Product {
	return &catalogdomain.Product{
		Model:             gorm.Model{ID: id},
		Handle:            title,
		Title:             title,
		Price:             decimal.RequireFromString(price),
		Available:         true,
		InventoryQuantity: stock,
	}
}

func newPlacementFixture(products ...*catalogdomain.Product) (*OrderCommandService, *fakeStore) {
	store := newFakeStore(products...)
	carts := &fakeCartRepo{store: store}
	productRepo := &fakeProductRepo{store: store}
	ledger := catalogapp.NewInventoryLedger(productRepo, nil, nil)
	svc := NewOrderCommandService(&fakeOrderRepo{store: store}, carts, productRepo, ledger, nil, nil)
	return svc, store
}

func addCartLine(t *testing.T, store *fakeStore, userID uint, productID uint, qty int) {
	t.Helper()
	repo := &fakeCartRepo{store: store}
	line := cartdomain.NewCartLine(identitydomain.UserIdentity(userID), productID, "", qty)
	require.NoError(t, repo.UpsertAdd(context.Background(), line))
}

func TestPlaceOrderHappyPath(t *testing.T) {
	svc, store := newPlacementFixture(
		stockedProduct(1, "tea", "15.00", 10),
		stockedProduct(2, "kettle", "45.00", 5),
	)
	addCartLine(t, store, 7, 1, 2)
	addCartLine(t, store, 7, 2, 1)

	shipping := domain.Address{FirstName: "Ada", Line1: "1 Main St", City: "Kingston", PostalCode: "12401", Country: "US"}
	billing := domain.Address{FirstName: "Ada", Line1: "9 Bill Rd", City: "Kingston", PostalCode: "12401", Country: "US"}

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderCommand{
		UserID:          7,
		PaymentMethod:   "card",
		ShippingAddress: shipping,
		BillingAddress:  billing,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Equal(t, shipping, order.ShippingAddress)
	assert.Equal(t, billing, order.BillingAddress)
	assert.Equal(t, "75.00", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 2)

	// 库存已扣减
	assert.Equal(t, 8, store.products[1].InventoryQuantity)
	assert.Equal(t, 4, store.products[2].InventoryQuantity)
	// 购物车已清空
	assert.Empty(t, store.lines)
	// 订单已落库，支付方式与两个地址快照一并持久化
	require.Len(t, store.orders, 1)
	assert.Equal(t, "card", store.orders[0].PaymentMethod)
	assert.Equal(t, shipping, store.orders[0].ShippingAddress)
	assert.Equal(t, billing, store.orders[0].BillingAddress)
}

func TestPlaceOrderSnapshotsPrice(t *testing.T) {
	product := stockedProduct(1, "tea", "15.00", 10)
	svc, store := newPlacementFixture(product)
	addCartLine(t, store, 7, 1, 1)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderCommand{UserID: 7})
	require.NoError(t, err)

	// 下单后改价不影响已生成订单
	store.mu.Lock()
	store.products[1].Price = decimal.RequireFromString("99.00")
	store.mu.Unlock()

	assert.Equal(t, "15.00", order.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "15.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "tea", order.Items[0].Title)
}

func TestPlaceOrderInsufficientInventoryRollsBack(t *testing.T) {
	svc, store := newPlacementFixture(
		stockedProduct(1, "tea", "15.00", 10),
		stockedProduct(2, "kettle", "45.00", 0),
	)
	addCartLine(t, store, 7, 1, 2)
	addCartLine(t, store, 7, 2, 1)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderCommand{UserID: 7})

	var insufficient *catalogdomain.InsufficientInventoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(2), insufficient.ProductID)

	// 整体回滚：第一个商品的扣减被撤销，购物车原样保留，无订单产生
	assert.Equal(t, 10, store.products[1].InventoryQuantity)
	assert.Len(t, store.lines, 2)
	assert.Empty(t, store.orders)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, _ := newPlacementFixture(stockedProduct(1, "tea", "15.00", 10))

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderCommand{UserID: 7})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestPlaceOrderRequiresUser(t *testing.T) {
	svc, _ := newPlacementFixture()

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderCommand{UserID: 0})
	assert.ErrorIs(t, err, identitydomain.ErrAuthenticationRequired)
}

func TestPlaceOrderUnavailableProduct(t *testing.T) {
	product := stockedProduct(1, "tea", "15.00", 10)
	product.Available = false
	svc, store := newPlacementFixture(product)
	addCartLine(t, store, 7, 1, 1)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderCommand{UserID: 7})
	assert.ErrorIs(t, err, catalogdomain.ErrProductUnavailable)
	assert.Len(t, store.lines, 1)
}
