package cart

import "context"

// Repository persists carts keyed by their opaque code.
//
// AddItem, RemoveItem and MarkPaid are single atomic sequences: the
// implementation must apply find-or-create plus the entity mutation inside
// one critical section, so two concurrent adds for the same product can
// never both observe "no existing line item". AddItem creates the cart
// lazily when code is unknown.
type Repository interface {
	Get(ctx context.Context, code string) (*Cart, error)
	AddItem(ctx context.Context, code, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, code, productID string) (*Cart, error)
	MarkPaid(ctx context.Context, code string) (*Cart, error)
}
