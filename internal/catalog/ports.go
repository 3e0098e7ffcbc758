package catalog

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=catalog

// Repository is the contract for title storage. CheckoutCopy and ReturnCopy
// are the only mutation paths for the copy counts; both must adjust the count
// and the derived status in one atomic write.
type Repository interface {
	Create(ctx context.Context, t *Title) error
	GetByISBN(ctx context.Context, isbn string) (Title, error)
	List(ctx context.Context, limit, offset int) ([]Title, int, error)
	ListAvailable(ctx context.Context, limit, offset int) ([]Title, int, error)

	// CheckoutCopy decrements the available count iff the title is Available
	// with at least one free copy, returning ErrUnavailable otherwise.
	CheckoutCopy(ctx context.Context, isbn string) error

	// ReturnCopy increments the available count. An increment that would
	// exceed total copies fails with ErrInventoryIntegrity.
	ReturnCopy(ctx context.Context, isbn string) error
}
