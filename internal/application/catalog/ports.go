package catalog

// IDGenerator issues identifiers for newly created products.
type IDGenerator interface {
	NewID() string
}
