package patron

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no patron exists for the given id.
var ErrNotFound = errors.New("patron not found")

// MaxUnpaidPenalties is the borrowing ceiling: a patron whose unpaid
// penalties reach this total may not check out more books.
var MaxUnpaidPenalties = decimal.RequireFromString("60.00")

// Patron is the member view the lending engine consumes. Account
// management (registration, authentication, profiles) lives outside this
// system.
type Patron struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	DateOfMembership time.Time `json:"date_of_membership"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
