package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application"
	domain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/catalog"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

const (
	catalogService = "catalog-service"

	useCaseSlugAssign     = "catalog.slug.assign"
	useCaseCategoryCreate = "catalog.category.create"
	useCaseCategoryList   = "catalog.category.list"
	useCaseProductCreate  = "catalog.product.create"
	useCaseProductList    = "catalog.product.list"
	useCaseProductSearch  = "catalog.product.search"
	useCaseProductDetail  = "catalog.product.detail"

	// slugRetryLimit bounds the reserve-retry loop when concurrent creates
	// race on the same base slug.
	slugRetryLimit = 5
)

var (
	// ErrSlugConflict reports an exhausted slug reservation retry budget.
	ErrSlugConflict = errors.New("catalog: slug reservation conflict")
	// ErrUnknownEntryKind rejects slug assignment for kinds the catalog
	// does not track.
	ErrUnknownEntryKind = errors.New("catalog: unknown entry kind")
)

// EntryKind selects which slug namespace an assignment runs against.
type EntryKind string

const (
	KindCategory EntryKind = "category"
	KindProduct  EntryKind = "product"
)

// Service owns catalog entry creation (slug assignment included) and the
// read paths around it.
type Service struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	ids        IDGenerator
	tel        observability.Observability

	log         observability.Logger
	slugRetries observability.Counter
}

func NewService(
	categories domain.CategoryRepository,
	products domain.ProductRepository,
	ids IDGenerator,
	tel observability.Observability,
) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		categories:  categories,
		products:    products,
		ids:         ids,
		tel:         tel,
		log:         tel.Logger().With(observability.F("service", catalogService)),
		slugRetries: tel.Metrics().Counter(observability.MSlugRetries),
	}
}

// AssignSlug derives the slug the given name would receive against the
// current slug set of the kind. It has no side effects; the returned
// candidate is only reserved once the corresponding create persists it.
func (s *Service) AssignSlug(ctx context.Context, kind EntryKind, name string) (_ string, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseSlugAssign,
		attribute.String("slug.kind", string(kind)),
	)
	defer func() { done(err) }()

	var lookup func(ctx context.Context, slug string) (bool, error)
	switch kind {
	case KindCategory:
		lookup = s.categories.SlugExists
	case KindProduct:
		lookup = s.products.SlugExists
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEntryKind, kind)
		return "", err
	}

	slug, assignErr := s.resolveSlug(ctx, "", name, lookup)
	if assignErr != nil {
		err = assignErr
		return "", err
	}
	return slug, nil
}

type CreateCategoryInput struct {
	Name        string
	Slug        string // optional; bypasses slug generation when set
	Description string
	ImagePath   string
}

// CreateCategory assigns a slug to the category and persists it. Slug
// reservation is insert-if-absent at the repository; on a collision the
// slug is regenerated against the updated view, up to slugRetryLimit times.
func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (_ *domain.Category, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseCategoryCreate,
		attribute.String("category.name", input.Name),
	)
	defer func() { done(err) }()

	for attempt := 0; attempt < slugRetryLimit; attempt++ {
		slug, assignErr := s.resolveSlug(ctx, input.Slug, input.Name, s.categories.SlugExists)
		if assignErr != nil {
			err = assignErr
			return nil, err
		}

		entity, newErr := domain.NewCategory(input.Name, slug, input.Description, input.ImagePath)
		if newErr != nil {
			err = newErr
			return nil, err
		}

		insertErr := s.categories.Insert(ctx, entity)
		if insertErr == nil {
			return entity, nil
		}
		if errors.Is(insertErr, domain.ErrSlugTaken) {
			if input.Slug != "" {
				// Explicit slugs are used as-is; a collision is final.
				err = fmt.Errorf("%w: %q", domain.ErrSlugTaken, input.Slug)
				return nil, err
			}
			s.slugRetries.Add(1, observability.L("kind", "category"))
			continue
		}
		err = fmt.Errorf("catalog: insert category: %w", insertErr)
		return nil, err
	}

	err = ErrSlugConflict
	return nil, err
}

func (s *Service) ListCategories(ctx context.Context) (_ []*domain.Category, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseCategoryList)
	defer func() { done(err) }()

	return s.categories.List(ctx)
}

type CreateProductInput struct {
	Name         string
	Slug         string // optional; bypasses slug generation when set
	Description  string
	Price        int64
	ImagePath    string
	Stock        int
	Colors       []string
	Sizes        []string
	CategorySlug string
}

// CreateProduct validates the owning category, assigns a slug with the same
// bounded-retry reservation as CreateCategory, and persists the product.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (_ *domain.Product, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseProductCreate,
		attribute.String("product.name", input.Name),
		attribute.String("product.category_slug", input.CategorySlug),
	)
	defer func() { done(err) }()

	if _, findErr := s.categories.FindBySlug(ctx, input.CategorySlug); findErr != nil {
		err = findErr
		return nil, err
	}

	for attempt := 0; attempt < slugRetryLimit; attempt++ {
		slug, assignErr := s.resolveSlug(ctx, input.Slug, input.Name, s.products.SlugExists)
		if assignErr != nil {
			err = assignErr
			return nil, err
		}

		entity, newErr := domain.NewProduct(
			s.ids.NewID(), input.Name, slug, input.Description,
			input.Price, input.Stock, input.CategorySlug,
		)
		if newErr != nil {
			err = newErr
			return nil, err
		}
		entity.ImagePath = input.ImagePath
		entity.Colors = append([]string(nil), input.Colors...)
		entity.Sizes = append([]string(nil), input.Sizes...)

		insertErr := s.products.Insert(ctx, entity)
		if insertErr == nil {
			return entity, nil
		}
		if errors.Is(insertErr, domain.ErrSlugTaken) {
			if input.Slug != "" {
				err = fmt.Errorf("%w: %q", domain.ErrSlugTaken, input.Slug)
				return nil, err
			}
			s.slugRetries.Add(1, observability.L("kind", "product"))
			continue
		}
		err = fmt.Errorf("catalog: insert product: %w", insertErr)
		return nil, err
	}

	err = ErrSlugConflict
	return nil, err
}

// ListProducts returns available products, optionally filtered by category
// slug (empty means all), newest first.
func (s *Service) ListProducts(ctx context.Context, categorySlug string) (_ []*domain.Product, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseProductList,
		attribute.String("product.category_slug", categorySlug),
	)
	defer func() { done(err) }()

	return s.products.ListAvailable(ctx, categorySlug)
}

// SearchProducts matches available products by case-insensitive name
// substring.
func (s *Service) SearchProducts(ctx context.Context, query string) (_ []*domain.Product, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseProductSearch)
	defer func() { done(err) }()

	return s.products.SearchAvailable(ctx, query)
}

type ProductDetail struct {
	Product *domain.Product
	// Similar holds other available products from the same category.
	Similar []*domain.Product
}

func (s *Service) ProductDetails(ctx context.Context, categorySlug, productSlug string) (_ *ProductDetail, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseProductDetail,
		attribute.String("product.slug", productSlug),
		attribute.String("product.category_slug", categorySlug),
	)
	defer func() { done(err) }()

	product, findErr := s.products.FindBySlug(ctx, categorySlug, productSlug)
	if findErr != nil {
		err = findErr
		return nil, err
	}

	peers, listErr := s.products.ListAvailable(ctx, categorySlug)
	if listErr != nil {
		err = listErr
		return nil, err
	}
	similar := make([]*domain.Product, 0, len(peers))
	for _, peer := range peers {
		if peer.ID == product.ID {
			continue
		}
		similar = append(similar, peer)
	}

	return &ProductDetail{Product: product, Similar: similar}, nil
}

// resolveSlug returns the explicit slug untouched, or derives one from name
// against the repository's current slug view.
func (s *Service) resolveSlug(
	ctx context.Context,
	explicit, name string,
	slugExists func(ctx context.Context, slug string) (bool, error),
) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	var lookupErr error
	slug, err := domain.AssignSlug(name, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		exists, checkErr := slugExists(ctx, candidate)
		if checkErr != nil {
			lookupErr = checkErr
			return false
		}
		return exists
	})
	if lookupErr != nil {
		return "", fmt.Errorf("catalog: slug lookup: %w", lookupErr)
	}
	return slug, err
}
