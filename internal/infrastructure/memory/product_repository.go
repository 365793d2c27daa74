package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	domain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/catalog"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	bySlug   map[string]string // slug -> product id
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
		bySlug:   make(map[string]string),
	}
}

// Insert reserves the product's slug atomically, mirroring the uniqueness
// constraint a relational store would enforce at write time.
func (r *ProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	_ = ctx
	if product == nil || product.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}
	if product.Slug == "" {
		return fmt.Errorf("product repository: slug is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySlug[product.Slug]; exists {
		return domain.ErrSlugTaken
	}
	r.products[product.ID] = product.Clone()
	r.bySlug[product.Slug] = product.ID
	return nil
}

func (r *ProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.bySlug[slug]
	return exists, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return product.Clone(), nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, categorySlug, productSlug string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[productSlug]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	product := r.products[id]
	if product == nil || product.CategorySlug != categorySlug {
		return nil, domain.ErrProductNotFound
	}
	return product.Clone(), nil
}

// ListAvailable returns available products, newest first. An empty
// categorySlug means all categories.
func (r *ProductRepository) ListAvailable(ctx context.Context, categorySlug string) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if !product.Available {
			continue
		}
		if categorySlug != "" && product.CategorySlug != categorySlug {
			continue
		}
		out = append(out, product.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

// SearchAvailable matches available products whose name contains query,
// case-insensitively. An empty query behaves like ListAvailable.
func (r *ProductRepository) SearchAvailable(ctx context.Context, query string) ([]*domain.Product, error) {
	_ = ctx

	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if !product.Available {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(product.Name), needle) {
			continue
		}
		out = append(out, product.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(products []*domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].Slug < products[j].Slug
	})
}
