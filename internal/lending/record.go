package lending

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one checkout-to-return cycle for one patron and one title. A
// record is Open until its return date is set; after that the only permitted
// mutation is settling the penalty.
type Record struct {
	ID            string          `json:"id"`
	PatronID      string          `json:"patron_id"`
	TitleISBN     string          `json:"title_isbn"`
	CheckoutDate  time.Time       `json:"checkout_date"`
	DueDate       time.Time       `json:"due_date"`
	ReturnDate    *time.Time      `json:"return_date,omitempty"`
	DaysOverdue   int             `json:"days_overdue"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	PenaltyPaid   bool            `json:"penalty_paid"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsOpen reports whether the book is still out.
func (r *Record) IsOpen() bool {
	return r.ReturnDate == nil
}

// IsOverdue reports whether the loan is open past its due date.
func (r *Record) IsOverdue(now time.Time) bool {
	return r.IsOpen() && daysLate(r.DueDate, now) > 0
}

// OverdueDays is the whole days past due. While the loan is open it follows
// the clock; once returned it stays frozen at the value captured at return
// time.
func (r *Record) OverdueDays(now time.Time) int {
	if !r.IsOpen() {
		return r.DaysOverdue
	}
	return daysLate(r.DueDate, now)
}

// daysLate counts whole calendar days between the due date and now,
// never negative. Both instants are collapsed to UTC dates first so the
// time of day a return happens cannot change the day count.
func daysLate(due, now time.Time) int {
	dueDay := civilDay(due)
	nowDay := civilDay(now)
	days := int(nowDay.Sub(dueDay).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func civilDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
