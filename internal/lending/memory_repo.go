package lending

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryRepo is an in-memory Repository for tests. It emulates the partial
// unique open-loan index: Create rejects a second open record for the same
// (patron, title).
type MemoryRepo struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{records: make(map[string]Record)}
}

func (r *MemoryRepo) Create(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.PatronID == rec.PatronID && existing.TitleISBN == rec.TitleISBN && existing.IsOpen() {
			return ErrDuplicateOpenLoan
		}
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.records[rec.ID] = *rec
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *MemoryRepo) FindOpen(_ context.Context, patronID, titleISBN string) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.PatronID == patronID && rec.TitleISBN == titleISBN && rec.IsOpen() {
			return rec, nil
		}
	}
	return Record{}, ErrNoActiveLoan
}

func (r *MemoryRepo) Update(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.ID]; !ok {
		return ErrNotFound
	}
	rec.UpdatedAt = time.Now()
	r.records[rec.ID] = *rec
	return nil
}

func (r *MemoryRepo) ListByPatron(_ context.Context, patronID string) ([]Record, error) {
	return r.listWhere(func(rec Record) bool {
		return rec.PatronID == patronID
	})
}

func (r *MemoryRepo) ListUnpaid(_ context.Context, patronID string) ([]Record, error) {
	return r.listWhere(func(rec Record) bool {
		return rec.PatronID == patronID && !rec.PenaltyPaid && rec.PenaltyAmount.IsPositive()
	})
}

func (r *MemoryRepo) listWhere(match func(Record) bool) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Record
	for _, rec := range r.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckoutDate.Before(out[j].CheckoutDate)
	})
	return out, nil
}

func (r *MemoryRepo) SumUnpaid(ctx context.Context, patronID string) (decimal.Decimal, error) {
	records, err := r.ListUnpaid(ctx, patronID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.PenaltyAmount)
	}
	return total, nil
}
