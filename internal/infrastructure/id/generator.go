package id

import "github.com/google/uuid"

// UUIDGenerator issues random UUID strings for entity identifiers and cart codes.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
