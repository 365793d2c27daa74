package catalog

import "context"

// CategoryRepository persists categories keyed by slug. Insert is an atomic
// insert-if-absent: it must return ErrSlugTaken when the slug is already
// reserved, even under concurrent writers.
type CategoryRepository interface {
	Insert(ctx context.Context, category *Category) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

// ProductRepository persists products with the same insert-if-absent slug
// constraint as CategoryRepository.
type ProductRepository interface {
	Insert(ctx context.Context, product *Product) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Get(ctx context.Context, id string) (*Product, error)
	FindBySlug(ctx context.Context, categorySlug, productSlug string) (*Product, error)
	ListAvailable(ctx context.Context, categorySlug string) ([]*Product, error)
	SearchAvailable(ctx context.Context, query string) ([]*Product, error)
}
