package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers for job runs and similar references.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered UUIDv7 values.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// StaticGenerator returns the same value on every call. Useful in tests.
type StaticGenerator string

func (g StaticGenerator) NewID() (string, error) {
	return string(g), nil
}
