package patron

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests.
type MemoryRepo struct {
	mu      sync.Mutex
	patrons map[string]Patron
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{patrons: make(map[string]Patron)}
}

func (r *MemoryRepo) Create(_ context.Context, p *Patron) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.patrons[p.ID]; exists {
		return fmt.Errorf("patron %s already exists", p.ID)
	}
	now := time.Now()
	p.DateOfMembership = now
	p.CreatedAt = now
	p.UpdatedAt = now
	r.patrons[p.ID] = *p
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Patron, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patrons[id]
	if !ok {
		return Patron{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.patrons[id]
	return ok, nil
}
