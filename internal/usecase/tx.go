package usecase

import "context"

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noopTransactor struct{}

func (noopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewNoopTransactor runs fn directly. Only for stores without transactions.
func NewNoopTransactor() Transactor {
	return noopTransactor{}
}
