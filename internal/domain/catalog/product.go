package catalog

import (
	"strings"
	"time"
)

// Product is a catalog entry priced in minor currency units. The cart
// context reads ID, Price and Available; everything else is catalog-owned.
type Product struct {
	ID           string
	Name         string
	Slug         string
	Description  string
	Price        int64
	ImagePath    string
	Stock        int
	Available    bool
	Colors       []string
	Sizes        []string
	CategorySlug string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewProduct(id, name, slug, description string, price int64, stock int, categorySlug string) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now().UTC()
	return &Product{
		ID:           id,
		Name:         name,
		Slug:         slug,
		Description:  description,
		Price:        price,
		Stock:        stock,
		Available:    true,
		CategorySlug: categorySlug,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Colors = append([]string(nil), p.Colors...)
	clone.Sizes = append([]string(nil), p.Sizes...)
	return &clone
}
