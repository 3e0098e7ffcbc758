package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service owns the title inventory. It has no dependency on the lending
// ledger; the ledger drives count changes through CheckoutCopy/ReturnCopy.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add registers a new title. Inventory counts are validated up front so a
// title can never enter the system already violating the count invariant.
func (s *Service) Add(ctx context.Context, t Title) (Title, error) {
	if !CountsValid(t.TotalCopies, t.AvailableCopies) {
		return Title{}, fmt.Errorf("%w: available %d exceeds total %d",
			ErrInventoryIntegrity, t.AvailableCopies, t.TotalCopies)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = DeriveStatus(StatusAvailable, t.AvailableCopies)
	}
	if err := s.repo.Create(ctx, &t); err != nil {
		return Title{}, err
	}
	return t, nil
}

func (s *Service) GetByISBN(ctx context.Context, isbn string) (Title, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Title, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListAvailable returns titles that can be checked out right now.
func (s *Service) ListAvailable(ctx context.Context, limit, offset int) ([]Title, int, error) {
	return s.repo.ListAvailable(ctx, limit, offset)
}

// IsAvailable reports whether the title has a free copy to lend.
func (s *Service) IsAvailable(ctx context.Context, isbn string) (bool, error) {
	t, err := s.repo.GetByISBN(ctx, isbn)
	if err != nil {
		return false, err
	}
	return t.Status == StatusAvailable && t.AvailableCopies > 0, nil
}

// CheckoutCopy takes one copy off the shelf.
func (s *Service) CheckoutCopy(ctx context.Context, isbn string) error {
	return s.repo.CheckoutCopy(ctx, isbn)
}

// ReturnCopy puts one copy back on the shelf.
func (s *Service) ReturnCopy(ctx context.Context, isbn string) error {
	return s.repo.ReturnCopy(ctx, isbn)
}
