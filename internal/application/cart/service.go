package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/application"
	catalogdomain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/catalog"
	domain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/cart"
	"github.com/EmmanuelOnyekachi21/MyShopAPI/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cartService = "cart-service"

	useCaseAddItem    = "cart.item.add"
	useCaseRemoveItem = "cart.item.remove"
	useCaseItemExists = "cart.item.exists"
	useCaseSummary    = "cart.summary"
	useCaseDetails    = "cart.details"
	useCaseMarkPaid   = "cart.mark_paid"
)

// ErrCartCodeRequired rejects mutations that carry no cart code at all.
var ErrCartCodeRequired = errors.New("cart: cart code is required")

// Service derives cart aggregates (item counts, monetary totals) and
// governs line-item mutations. Totals are never cached: every read sums
// live line items against current product prices.
type Service struct {
	carts    domain.Repository
	products ProductReader
	tel      observability.Observability
	log      observability.Logger
}

func NewService(carts domain.Repository, products ProductReader, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		carts:    carts,
		products: products,
		tel:      tel,
		log:      tel.Logger().With(observability.F("service", cartService)),
	}
}

// LineItemView is a line item annotated with its own quantity × unit price.
type LineItemView struct {
	Product   *catalogdomain.Product
	Quantity  int
	ItemPrice int64
}

type CartView struct {
	CartCode   string
	Paid       bool
	Items      []LineItemView
	TotalPrice int64
}

type SummaryView struct {
	CartCode   string
	ItemCount  int
	TotalPrice int64
}

type AddItemInput struct {
	CartCode  string
	ProductID string
	Quantity  int // defaults to 1 when zero
}

// AddItem resolves the product, lazily creates the cart for an unknown
// code, and merges the quantity into the product's line item. At most one
// line item per (cart, product) survives concurrent adds; the repository
// runs find-or-create-then-increment atomically.
func (s *Service) AddItem(ctx context.Context, input AddItemInput) (_ *LineItemView, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseAddItem,
		attribute.String("cart.code", input.CartCode),
		attribute.String("cart.product_id", input.ProductID),
	)
	defer func() { done(err) }()

	if input.CartCode == "" {
		err = ErrCartCodeRequired
		return nil, err
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product, lookupErr := s.availableProduct(ctx, input.ProductID)
	if lookupErr != nil {
		err = lookupErr
		return nil, err
	}

	updated, addErr := s.carts.AddItem(ctx, input.CartCode, product.ID, quantity)
	if addErr != nil {
		err = addErr
		return nil, err
	}

	item, ok := updated.Item(product.ID)
	if !ok {
		err = fmt.Errorf("cart: line item missing after add: %w", domain.ErrItemNotFound)
		return nil, err
	}
	return &LineItemView{
		Product:   product,
		Quantity:  item.Quantity,
		ItemPrice: int64(item.Quantity) * product.Price,
	}, nil
}

// RemoveItem deletes the whole line item for the product and returns the
// remaining cart.
func (s *Service) RemoveItem(ctx context.Context, cartCode, productID string) (_ *CartView, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseRemoveItem,
		attribute.String("cart.code", cartCode),
		attribute.String("cart.product_id", productID),
	)
	defer func() { done(err) }()

	updated, removeErr := s.carts.RemoveItem(ctx, cartCode, productID)
	if removeErr != nil {
		err = removeErr
		return nil, err
	}
	return s.viewOf(ctx, updated)
}

// ItemExists is a pure existence check. An unknown cart answers false, not
// an error.
func (s *Service) ItemExists(ctx context.Context, cartCode, productID string) (_ bool, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseItemExists,
		attribute.String("cart.code", cartCode),
	)
	defer func() { done(err) }()

	current, getErr := s.carts.Get(ctx, cartCode)
	if errors.Is(getErr, domain.ErrNotFound) {
		return false, nil
	}
	if getErr != nil {
		err = getErr
		return false, err
	}
	_, ok := current.Item(productID)
	return ok, nil
}

// Summary recomputes the cart aggregate from live line items and current
// product prices.
func (s *Service) Summary(ctx context.Context, cartCode string) (_ *SummaryView, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseSummary,
		attribute.String("cart.code", cartCode),
	)
	defer func() { done(err) }()

	current, getErr := s.carts.Get(ctx, cartCode)
	if getErr != nil {
		err = getErr
		return nil, err
	}

	total, totalErr := s.totalOf(ctx, current)
	if totalErr != nil {
		err = totalErr
		return nil, err
	}
	return &SummaryView{
		CartCode:   current.Code,
		ItemCount:  current.ItemCount(),
		TotalPrice: total,
	}, nil
}

// Details returns every line item annotated with its own price plus the
// same total Summary reports.
func (s *Service) Details(ctx context.Context, cartCode string) (_ *CartView, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseDetails,
		attribute.String("cart.code", cartCode),
	)
	defer func() { done(err) }()

	current, getErr := s.carts.Get(ctx, cartCode)
	if getErr != nil {
		err = getErr
		return nil, err
	}
	return s.viewOf(ctx, current)
}

// MarkPaid transitions the cart to paid exactly once; a second call fails.
func (s *Service) MarkPaid(ctx context.Context, cartCode string) (_ *CartView, err error) {
	ctx, done := application.Observe(ctx, s.tel, s.log, useCaseMarkPaid,
		attribute.String("cart.code", cartCode),
	)
	defer func() { done(err) }()

	updated, payErr := s.carts.MarkPaid(ctx, cartCode)
	if payErr != nil {
		err = payErr
		return nil, err
	}
	return s.viewOf(ctx, updated)
}

// availableProduct maps both "absent" and "unavailable" to not-found, per
// the add-to-cart contract.
func (s *Service) availableProduct(ctx context.Context, productID string) (*catalogdomain.Product, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, fmt.Errorf("%w: %q is unavailable", catalogdomain.ErrProductNotFound, productID)
	}
	return product, nil
}

func (s *Service) viewOf(ctx context.Context, c *domain.Cart) (*CartView, error) {
	view := &CartView{
		CartCode: c.Code,
		Paid:     c.Paid,
		Items:    make([]LineItemView, 0, len(c.Items)),
	}
	for _, item := range c.Items {
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("cart: resolve line item product %q: %w", item.ProductID, err)
		}
		itemPrice := int64(item.Quantity) * product.Price
		view.Items = append(view.Items, LineItemView{
			Product:   product,
			Quantity:  item.Quantity,
			ItemPrice: itemPrice,
		})
		view.TotalPrice += itemPrice
	}
	return view, nil
}

func (s *Service) totalOf(ctx context.Context, c *domain.Cart) (int64, error) {
	var total int64
	for _, item := range c.Items {
		product, err := s.products.Get(ctx, item.ProductID)
		if err != nil {
			return 0, fmt.Errorf("cart: resolve line item product %q: %w", item.ProductID, err)
		}
		total += int64(item.Quantity) * product.Price
	}
	return total, nil
}
