package cart

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("cart: not found")
	ErrItemNotFound    = errors.New("cart: line item not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
	ErrCartPaid        = errors.New("cart: cart already paid")
)

// LineItem pairs a product reference with a positive quantity. A cart holds
// at most one line item per product; repeated adds merge into the quantity.
type LineItem struct {
	ProductID string
	Quantity  int
}

// Cart is a mutable collection of line items identified by an opaque code.
// It transitions from unpaid to paid exactly once; every mutation is
// rejected afterwards.
type Cart struct {
	Code      string
	Paid      bool
	Items     []LineItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(code string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem merges quantity into the existing line item for productID, or
// appends a new line item when none exists.
func (c *Cart) AddItem(productID string, quantity int) error {
	if c.Paid {
		return ErrCartPaid
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.touch()
			return nil
		}
	}
	c.Items = append(c.Items, LineItem{ProductID: productID, Quantity: quantity})
	c.touch()
	return nil
}

// RemoveItem deletes the whole line item for productID.
func (c *Cart) RemoveItem(productID string) error {
	if c.Paid {
		return ErrCartPaid
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// Item reports the line item for productID, if present.
func (c *Cart) Item(productID string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// ItemCount sums quantities over all line items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// MarkPaid transitions the cart to its terminal paid state.
func (c *Cart) MarkPaid() error {
	if c.Paid {
		return ErrCartPaid
	}
	c.Paid = true
	c.touch()
	return nil
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = append([]LineItem(nil), c.Items...)
	return &clone
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
