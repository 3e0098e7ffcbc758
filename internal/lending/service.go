package lending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the lending transaction engine. It owns the borrowing records
// and drives the catalog's copy counts; no other component mutates either.
//
// Checkout is the critical section: for a given title the availability
// check, duplicate-open check, count decrement and record insert run under a
// per-title lock, so two simultaneous checkouts of the last copy can never
// both succeed in one process. The storage layer repeats the guard (atomic
// conditional decrement, partial unique open-loan index) for the
// cross-process case.
type Service struct {
	repo    Repository
	catalog Inventory
	patrons Patrons
	policy  Policy

	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock; tests use it to pin "today". The clock
// is consulted on every call, never captured at construction.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, catalog Inventory, patrons Patrons, policy Policy, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		patrons: patrons,
		policy:  policy,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) lockTitle(isbn string) func() {
	s.mu.Lock()
	mu, ok := s.locks[isbn]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[isbn] = mu
	}
	s.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// Checkout lends one copy of the title to the patron. Check order: patron
// exists, patron under the penalty ceiling, title available, no duplicate
// open loan; then the count decrement and record creation run as one unit,
// with a failed insert rolling the decrement back.
func (s *Service) Checkout(ctx context.Context, patronID, titleISBN string) (Record, error) {
	exists, err := s.patrons.Exists(ctx, patronID)
	if err != nil {
		return Record{}, err
	}
	if !exists {
		return Record{}, fmt.Errorf("patron %s: %w", patronID, ErrNotFound)
	}

	canBorrow, err := s.patrons.CanBorrow(ctx, patronID)
	if err != nil {
		return Record{}, err
	}
	if !canBorrow {
		return Record{}, ErrPenaltyLimitExceeded
	}

	unlock := s.lockTitle(titleISBN)
	defer unlock()

	available, err := s.catalog.IsAvailable(ctx, titleISBN)
	if err != nil {
		return Record{}, err
	}
	if !available {
		return Record{}, ErrUnavailable
	}

	_, err = s.repo.FindOpen(ctx, patronID, titleISBN)
	if err == nil {
		return Record{}, ErrDuplicateOpenLoan
	}
	if !errors.Is(err, ErrNoActiveLoan) {
		return Record{}, err
	}

	if err := s.catalog.CheckoutCopy(ctx, titleISBN); err != nil {
		return Record{}, err
	}

	now := s.now()
	rec := &Record{
		ID:            uuid.New().String(),
		PatronID:      patronID,
		TitleISBN:     titleISBN,
		CheckoutDate:  now,
		DueDate:       s.policy.DueDate(now),
		PenaltyAmount: decimal.Zero,
		PenaltyPaid:   false,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if rbErr := s.catalog.ReturnCopy(ctx, titleISBN); rbErr != nil {
			return Record{}, fmt.Errorf("%w: record create failed (%v), count rollback failed (%v)",
				ErrLedgerIntegrity, err, rbErr)
		}
		return Record{}, err
	}
	return *rec, nil
}

// Return closes the open loan for (patron, title): sets the return date,
// freezes the overdue day count, applies the capped penalty, and puts the
// copy back on the shelf.
func (s *Service) Return(ctx context.Context, patronID, titleISBN string) (Record, error) {
	unlock := s.lockTitle(titleISBN)
	defer unlock()

	rec, err := s.repo.FindOpen(ctx, patronID, titleISBN)
	if err != nil {
		return Record{}, err
	}

	now := s.now()
	days := daysLate(rec.DueDate, now)
	rec.ReturnDate = &now
	rec.DaysOverdue = days
	rec.PenaltyAmount = s.policy.Penalty(days)

	if err := s.repo.Update(ctx, &rec); err != nil {
		return Record{}, err
	}
	if err := s.catalog.ReturnCopy(ctx, titleISBN); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// PayPenalty settles the penalty on a closed record. The already-paid check
// precedes any mutation, so a double payment is a rejection, not a silent
// no-op.
func (s *Service) PayPenalty(ctx context.Context, recordID string) error {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.PenaltyPaid {
		return ErrAlreadyPaid
	}
	if !rec.PenaltyAmount.IsPositive() {
		return ErrNoPenaltyDue
	}

	rec.PenaltyPaid = true
	return s.repo.Update(ctx, &rec)
}

// UnpaidPenalties returns the patron's records carrying an unsettled penalty
// together with their exact-decimal total (zero if none).
func (s *Service) UnpaidPenalties(ctx context.Context, patronID string) ([]Record, decimal.Decimal, error) {
	records, err := s.repo.ListUnpaid(ctx, patronID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.PenaltyAmount)
	}
	return records, total, nil
}

// Get returns one lending record by id.
func (s *Service) Get(ctx context.Context, recordID string) (Record, error) {
	return s.repo.GetByID(ctx, recordID)
}

// ListByPatron returns all of a patron's lending records, open and closed.
func (s *Service) ListByPatron(ctx context.Context, patronID string) ([]Record, error) {
	return s.repo.ListByPatron(ctx, patronID)
}
