package lending

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysLate(t *testing.T) {
	due := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before due", due.AddDate(0, 0, -2), 0},
		{"on the due day", due, 0},
		{"later the same day", due.Add(10 * time.Hour), 0},
		{"next morning", due.AddDate(0, 0, 1).Add(-8 * time.Hour), 1},
		{"one day", due.AddDate(0, 0, 1), 1},
		{"a week", due.AddDate(0, 0, 7), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysLate(due, tt.now))
		})
	}
}

func TestRecord_OverdueDays(t *testing.T) {
	due := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("open loan tracks the clock", func(t *testing.T) {
		rec := Record{DueDate: due, PenaltyAmount: decimal.Zero}

		assert.Equal(t, 0, rec.OverdueDays(due))
		assert.Equal(t, 3, rec.OverdueDays(due.AddDate(0, 0, 3)))
		assert.True(t, rec.IsOverdue(due.AddDate(0, 0, 3)))
		assert.False(t, rec.IsOverdue(due))
	})

	t.Run("closed loan stays frozen", func(t *testing.T) {
		returned := due.AddDate(0, 0, 5)
		rec := Record{
			DueDate:     due,
			ReturnDate:  &returned,
			DaysOverdue: 5,
		}

		// The clock keeps moving after the return; the record does not.
		assert.Equal(t, 5, rec.OverdueDays(due.AddDate(0, 0, 30)))
		assert.False(t, rec.IsOverdue(due.AddDate(0, 0, 30)))
		assert.False(t, rec.IsOpen())
	})
}
