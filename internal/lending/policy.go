package lending

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the loan-period and penalty constants. These are
// configuration injected into the ledger, never hard-coded in the rules:
// the system's history carries two divergent sets (14/1.00/40.00 and
// 90/2.00/60.00) and deployments pick one via environment.
type Policy struct {
	LoanPeriodDays int
	DailyRate      decimal.Decimal
	MaxPenalty     decimal.Decimal
}

// DefaultPolicy is the 14-day loan with 1.00/day capped at 40.00.
func DefaultPolicy() Policy {
	return Policy{
		LoanPeriodDays: 14,
		DailyRate:      decimal.RequireFromString("1.00"),
		MaxPenalty:     decimal.RequireFromString("40.00"),
	}
}

// PolicyFromEnv reads LOAN_PERIOD_DAYS, PENALTY_DAILY_RATE and PENALTY_MAX,
// falling back to DefaultPolicy for anything unset or unparsable.
func PolicyFromEnv() Policy {
	p := DefaultPolicy()

	if v := os.Getenv("LOAN_PERIOD_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			p.LoanPeriodDays = days
		}
	}
	if v := os.Getenv("PENALTY_DAILY_RATE"); v != "" {
		if rate, err := decimal.NewFromString(v); err == nil && rate.IsPositive() {
			p.DailyRate = rate
		}
	}
	if v := os.Getenv("PENALTY_MAX"); v != "" {
		if cap, err := decimal.NewFromString(v); err == nil && cap.IsPositive() {
			p.MaxPenalty = cap
		}
	}
	return p
}

// DueDate computes the due date for a checkout instant.
func (p Policy) DueDate(checkout time.Time) time.Time {
	return checkout.AddDate(0, 0, p.LoanPeriodDays)
}

// Penalty is the charge for a number of overdue days: days * rate, clamped
// to the cap, exact decimal arithmetic throughout.
func (p Policy) Penalty(daysOverdue int) decimal.Decimal {
	if daysOverdue <= 0 {
		return decimal.Zero
	}
	amount := p.DailyRate.Mul(decimal.NewFromInt(int64(daysOverdue)))
	if amount.GreaterThan(p.MaxPenalty) {
		return p.MaxPenalty
	}
	return amount
}
