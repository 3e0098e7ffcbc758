package lending

import (
	"context"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=lending

// Repository is the contract for lending-record storage. Create must reject
// a second open record for the same (patron, title) with
// ErrDuplicateOpenLoan; the Postgres implementation backs this with a
// partial unique index so the guarantee holds across processes.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (Record, error)

	// FindOpen returns the unique open record for (patron, title), or
	// ErrNoActiveLoan.
	FindOpen(ctx context.Context, patronID, titleISBN string) (Record, error)

	Update(ctx context.Context, rec *Record) error
	ListByPatron(ctx context.Context, patronID string) ([]Record, error)

	// ListUnpaid returns the patron's records with an unpaid penalty > 0.
	ListUnpaid(ctx context.Context, patronID string) ([]Record, error)

	// SumUnpaid is the exact-decimal total of the patron's unpaid penalties.
	SumUnpaid(ctx context.Context, patronID string) (decimal.Decimal, error)
}

// Inventory is the slice of the catalog the ledger drives. Satisfied by
// catalog.Service.
type Inventory interface {
	IsAvailable(ctx context.Context, isbn string) (bool, error)
	CheckoutCopy(ctx context.Context, isbn string) error
	ReturnCopy(ctx context.Context, isbn string) error
}

// Patrons is the patron-account view the engine consumes. Satisfied by
// patron.Service.
type Patrons interface {
	Exists(ctx context.Context, patronID string) (bool, error)
	CanBorrow(ctx context.Context, patronID string) (bool, error)
}
