package patron

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes the patron capabilities the engine needs: existence and
// the unpaid-penalty borrowing gate.
type Service struct {
	repo      Repository
	penalties PenaltySummer
}

func NewService(repo Repository, penalties PenaltySummer) *Service {
	return &Service{repo: repo, penalties: penalties}
}

func (s *Service) Register(ctx context.Context, p Patron) (Patron, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return Patron{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Patron, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// CanBorrow is true while the patron's unpaid penalty total stays below
// MaxUnpaidPenalties. The total is summed live from the ledger on every
// call.
func (s *Service) CanBorrow(ctx context.Context, id string) (bool, error) {
	total, err := s.penalties.SumUnpaid(ctx, id)
	if err != nil {
		return false, err
	}
	return total.LessThan(MaxUnpaidPenalties), nil
}
