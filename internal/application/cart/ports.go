package cart

import (
	"context"

	catalogdomain "github.com/EmmanuelOnyekachi21/MyShopAPI/internal/domain/catalog"
)

// ProductReader is the narrow catalog view the cart context depends on:
// id, current price and availability, nothing else.
type ProductReader interface {
	Get(ctx context.Context, id string) (*catalogdomain.Product, error)
}
