package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/catalog"
)

type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: make(map[string]*domain.Category),
	}
}

// Insert reserves the category's slug atomically. The slug check and the
// write happen under one lock, which is what gives AssignSlug callers a
// safe retry loop on ErrSlugTaken.
func (r *CategoryRepository) Insert(ctx context.Context, category *domain.Category) error {
	_ = ctx
	if category == nil || category.Slug == "" {
		return fmt.Errorf("category repository: slug is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[category.Slug]; exists {
		return domain.ErrSlugTaken
	}
	r.categories[category.Slug] = category.Clone()
	return nil
}

func (r *CategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.categories[slug]
	return exists, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[slug]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return category.Clone(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Category, 0, len(r.categories))
	for _, category := range r.categories {
		out = append(out, category.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}
