package application

import (
	"context"
	"sync"

	catalogdomain "github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/internal/cart/domain"
	identitydomain "github.com/palmbay/storefront/internal/identity/domain"
)

// fakeCartRepository 内存购物车仓储，复刻唯一键合并与身份作用域语义
type fakeCartRepository struct {
	mu     sync.Mutex
	nextID uint
	lines  []*domain.CartLine
}

func newFakeCartRepository() *fakeCartRepository {
	return &fakeCartRepository{nextID: 1}
}

func sameIdentity(line *domain.CartLine, identity identitydomain.Identity) bool {
	if identity.IsUser() {
		return line.UserID == identity.UserID && line.SessionID == ""
	}
	return line.UserID == 0 && line.SessionID == identity.SessionID
}

func (r *fakeCartRepository) UpsertAdd(ctx context.Context, line *domain.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.lines {
		if sameIdentity(existing, line.Identity()) &&
			existing.ProductID == line.ProductID &&
			existing.VariantID == line.VariantID {
			existing.Quantity += line.Quantity
			*line = *existing
			return nil
		}
	}
	line.ID = r.nextID
	r.nextID++
	copied := *line
	r.lines = append(r.lines, &copied)
	return nil
}

func (r *fakeCartRepository) GetLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (*domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if line.ID == lineID && sameIdentity(line, identity) {
			copied := *line
			return &copied, nil
		}
	}
	return nil, domain.ErrLineNotFound
}

func (r *fakeCartRepository) FindLine(ctx context.Context, identity identitydomain.Identity, productID uint, variantID string) (*domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if sameIdentity(line, identity) && line.ProductID == productID && line.VariantID == variantID {
			copied := *line
			return &copied, nil
		}
	}
	return nil, domain.ErrLineNotFound
}

func (r *fakeCartRepository) UpdateQuantity(ctx context.Context, identity identitydomain.Identity, lineID uint, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if line.ID == lineID && sameIdentity(line, identity) {
			line.Quantity = qty
			return nil
		}
	}
	return domain.ErrLineNotFound
}

func (r *fakeCartRepository) DeleteLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, line := range r.lines {
		if line.ID == lineID && sameIdentity(line, identity) {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCartRepository) ListByIdentity(ctx context.Context, identity identitydomain.Identity) ([]*domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.CartLine
	for _, line := range r.lines {
		if sameIdentity(line, identity) {
			copied := *line
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeCartRepository) Clear(ctx context.Context, identity identitydomain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*domain.CartLine
	for _, line := range r.lines {
		if !sameIdentity(line, identity) {
			kept = append(kept, line)
		}
	}
	r.lines = kept
	return nil
}

// fakeProductRepository 内存商品仓储，扣减以互斥锁模拟存储层的条件更新
type fakeProductRepository struct {
	mu       sync.Mutex
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
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepository) GetByID(ctx context.Context, id uint) (*catalogdomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, catalogdomain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepository) GetByHandle(ctx context.Context, handle string) (*catalogdomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Handle == handle {
			copied := *p
			return &copied, nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (r *fakeProductRepository) List(ctx context.Context, filter catalogdomain.ListFilter) ([]*catalogdomain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*catalogdomain.Product
	for _, p := range r.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepository) DecrementInventory(ctx context.Context, productID uint, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return catalogdomain.ErrProductNotFound
	}
	if p.InventoryQuantity < qty {
		return &catalogdomain.InsufficientInventoryError{
			ProductID: productID,
			Requested: qty,
			Available: p.InventoryQuantity,
		}
	}
	p.InventoryQuantity -= qty
	return nil
}

// capturePublisher 记录发布的事件主题与载荷
type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *capturePublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) lastEvent() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

func (p *capturePublisher) published(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, t := range p.topics {
		if t == topic {
			count++
		}
	}
	return count
}
