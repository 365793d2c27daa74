package catalog

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName        = errors.New("catalog: name must not be empty")
	ErrUnusableName     = errors.New("catalog: name has no slug-safe characters")
	ErrCategoryNotFound = errors.New("catalog: category not found")
	ErrProductNotFound  = errors.New("catalog: product not found")
	ErrSlugTaken        = errors.New("catalog: slug already taken")
	ErrInvalidPrice     = errors.New("catalog: price must be zero or greater")
	ErrInvalidStock     = errors.New("catalog: stock must be zero or greater")
)

// Category groups products under a unique, URL-safe slug.
type Category struct {
	Name        string
	Slug        string
	Description string
	ImagePath   string
}

func NewCategory(name, slug, description, imagePath string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	return &Category{
		Name:        name,
		Slug:        slug,
		Description: description,
		ImagePath:   imagePath,
	}, nil
}

func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
