package patron

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// stubSummer returns a fixed unpaid-penalty total.
type stubSummer struct {
	total decimal.Decimal
	err   error
}

func (s stubSummer) SumUnpaid(context.Context, string) (decimal.Decimal, error) {
	return s.total, s.err
}

func TestService_Register(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubSummer{total: decimal.Zero})

	p, err := svc.Register(context.Background(), Patron{
		Name:  "Amina Wanjiru",
		Email: "amina.wanjiru@example.com",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	exists, err := svc.Exists(context.Background(), p.ID)
	assert.NoError(t, err)
	assert.True(t, exists)

	got, err := svc.Get(context.Background(), p.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Amina Wanjiru", got.Name)
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubSummer{total: decimal.Zero})

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CanBorrow(t *testing.T) {
	tests := []struct {
		name  string
		total string
		want  bool
	}{
		{"no unpaid penalties", "0", true},
		{"well under the ceiling", "39.50", true},
		{"one cent under", "59.99", true},
		{"exactly at the ceiling", "60.00", false},
		{"over the ceiling", "75.00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(NewMemoryRepo(), stubSummer{
				total: decimal.RequireFromString(tt.total),
			})

			can, err := svc.CanBorrow(context.Background(), "patron-1")

			assert.NoError(t, err)
			assert.Equal(t, tt.want, can)
		})
	}
}

func TestService_CanBorrow_SummerError(t *testing.T) {
	svc := NewService(NewMemoryRepo(), stubSummer{err: assert.AnError})

	_, err := svc.CanBorrow(context.Background(), "patron-1")

	assert.ErrorIs(t, err, assert.AnError)
}
