package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no title exists for the given ISBN.
var ErrNotFound = errors.New("title not found")

// ErrUnavailable is returned when a checkout is attempted against a title
// with no free copies.
var ErrUnavailable = errors.New("title not available")

// ErrInventoryIntegrity marks a broken inventory invariant (for example a
// count that would exceed total copies). It signals storage or concurrency
// failure, not a normal business rejection, and callers must surface it
// separately from domain errors.
var ErrInventoryIntegrity = errors.New("inventory integrity violation")

// Status is the availability state of a title. CheckedOut and Available are
// derived purely from the available-copy count; Maintenance and Reserved are
// set by library staff and never produced by the derivation rule.
type Status string

const (
	StatusAvailable   Status = "A"
	StatusMaintenance Status = "M"
	StatusReserved    Status = "R"
	StatusCheckedOut  Status = "C"
)

// Title is a catalogued work with N circulating copies, distinct from any
// one physical copy.
type Title struct {
	ID              string    `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre,omitempty"`
	PublishDate     string    `json:"publish_date,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DeriveStatus recomputes the status for an available-copy count. Staff-set
// states survive as long as the count stays above zero.
func DeriveStatus(current Status, availableCopies int) Status {
	if availableCopies == 0 {
		return StatusCheckedOut
	}
	if current == StatusMaintenance || current == StatusReserved {
		return current
	}
	return StatusAvailable
}

// CountsValid reports whether the inventory counts satisfy
// 0 <= available <= total.
func CountsValid(totalCopies, availableCopies int) bool {
	return totalCopies >= 0 && availableCopies >= 0 && availableCopies <= totalCopies
}
