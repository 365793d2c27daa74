package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/cart"
)

type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: make(map[string]*domain.Cart),
	}
}

func (r *CartRepository) Get(ctx context.Context, code string) (*domain.Cart, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cart.Clone(), nil
}

// AddItem runs find-or-create plus the merge-increment inside one lock
// acquisition, so concurrent adds for the same (cart, product) pair always
// land on a single line item.
func (r *CartRepository) AddItem(ctx context.Context, code, productID string, quantity int) (*domain.Cart, error) {
	_ = ctx
	if code == "" {
		return nil, fmt.Errorf("cart repository: code is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[code]
	if !ok {
		cart = domain.New(code)
	}
	if err := cart.AddItem(productID, quantity); err != nil {
		return nil, err
	}
	r.carts[code] = cart
	return cart.Clone(), nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, code, productID string) (*domain.Cart, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

func (r *CartRepository) MarkPaid(ctx context.Context, code string) (*domain.Cart, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := cart.MarkPaid(); err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}
