package lending

import (
	"errors"

	"circulation/internal/catalog"
)

// ErrUnavailable is the catalog's out-of-stock rejection, re-exported so
// ledger callers handle one error vocabulary.
var ErrUnavailable = catalog.ErrUnavailable

// Domain errors: each is a legitimate business rejection the caller can act
// on. Checked with errors.Is.
var (
	// ErrNotFound is returned when a lending record or patron does not exist.
	ErrNotFound = errors.New("lending record not found")

	// ErrNoActiveLoan is returned when a return is requested but the patron
	// has no open loan for the title.
	ErrNoActiveLoan = errors.New("no active loan for patron and title")

	// ErrDuplicateOpenLoan is returned when a checkout would create a second
	// open loan for the same (patron, title).
	ErrDuplicateOpenLoan = errors.New("patron already has this title checked out")

	// ErrPenaltyLimitExceeded is returned when a patron's unpaid penalties
	// put them over the borrowing ceiling.
	ErrPenaltyLimitExceeded = errors.New("unpaid penalties exceed borrowing limit")

	// ErrAlreadyPaid is returned when a settled penalty is paid again.
	ErrAlreadyPaid = errors.New("penalty already paid")

	// ErrNoPenaltyDue is returned when a payment is attempted against a
	// record with no penalty.
	ErrNoPenaltyDue = errors.New("no penalty due")
)

// ErrLedgerIntegrity marks state the rules can never produce, such as a
// failed compensation after a partial checkout. It signals storage or
// concurrency-control failure and must be surfaced apart from the domain
// errors above.
var ErrLedgerIntegrity = errors.New("ledger integrity violation")
