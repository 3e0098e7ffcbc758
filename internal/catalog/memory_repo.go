package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository used by tests and by the service
// tests in the lending package. It enforces the same count invariants as the
// Postgres implementation.
type MemoryRepo struct {
	mu     sync.Mutex
	titles map[string]Title // keyed by ISBN
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{titles: make(map[string]Title)}
}

func (r *MemoryRepo) Create(_ context.Context, t *Title) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.titles[t.ISBN]; exists {
		return fmt.Errorf("title %s already exists", t.ISBN)
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.titles[t.ISBN] = *t
	return nil
}

func (r *MemoryRepo) GetByISBN(_ context.Context, isbn string) (Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[isbn]
	if !ok {
		return Title{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) List(_ context.Context, limit, offset int) ([]Title, int, error) {
	return r.list(func(Title) bool { return true }, limit, offset)
}

func (r *MemoryRepo) ListAvailable(_ context.Context, limit, offset int) ([]Title, int, error) {
	return r.list(func(t Title) bool {
		return t.Status == StatusAvailable && t.AvailableCopies > 0
	}, limit, offset)
}

func (r *MemoryRepo) list(match func(Title) bool, limit, offset int) ([]Title, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []Title
	for _, t := range r.titles {
		if match(t) {
			all = append(all, t)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].AvailableCopies != all[j].AvailableCopies {
			return all[i].AvailableCopies < all[j].AvailableCopies
		}
		return all[i].Title < all[j].Title
	})

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *MemoryRepo) CheckoutCopy(_ context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[isbn]
	if !ok {
		return ErrNotFound
	}
	if t.Status != StatusAvailable || t.AvailableCopies == 0 {
		return ErrUnavailable
	}
	t.AvailableCopies--
	t.Status = DeriveStatus(t.Status, t.AvailableCopies)
	t.UpdatedAt = time.Now()
	r.titles[isbn] = t
	return nil
}

func (r *MemoryRepo) ReturnCopy(_ context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[isbn]
	if !ok {
		return ErrNotFound
	}
	if t.AvailableCopies >= t.TotalCopies {
		return fmt.Errorf("%w: return would exceed %d total copies of %s",
			ErrInventoryIntegrity, t.TotalCopies, isbn)
	}
	t.AvailableCopies++
	t.Status = DeriveStatus(t.Status, t.AvailableCopies)
	t.UpdatedAt = time.Now()
	r.titles[isbn] = t
	return nil
}
