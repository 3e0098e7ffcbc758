package patron

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository is the contract for patron storage.
type Repository interface {
	Create(ctx context.Context, p *Patron) error
	GetByID(ctx context.Context, id string) (Patron, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// PenaltySummer reports a patron's unpaid penalty total. Satisfied by the
// lending repository; declared here so this package never imports the
// ledger.
type PenaltySummer interface {
	SumUnpaid(ctx context.Context, patronID string) (decimal.Decimal, error)
}
