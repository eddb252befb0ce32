package library

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan terms. Fees accrue at a cheap daily rate for the first week overdue,
// then at double rate, capped per book.
const (
	LoanPeriodDays = 14
	BorrowLimit    = 5
	tierOneDays    = 7
)

var (
	tierOneRate = decimal.RequireFromString("0.50")
	tierTwoRate = decimal.RequireFromString("1.00")

	// MaxLateFee is the per-book cap. Refunds above it are rejected outright.
	MaxLateFee = decimal.RequireFromString("15.00")
)

// DaysOverdue returns the number of whole days by which ref exceeds dueDate,
// floored at zero. Partial days do not count: a book returned 23 hours past
// its due date is not overdue.
func DaysOverdue(dueDate, ref time.Time) int {
	days := int(ref.Sub(dueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// FeeForDaysOverdue computes the late fee for a loan that is days whole days
// overdue: $0.50/day for the first 7 days, $1.00/day after that, capped at
// MaxLateFee. The result is rounded to cents.
func FeeForDaysOverdue(days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	tierOne := days
	if tierOne > tierOneDays {
		tierOne = tierOneDays
	}
	tierTwo := days - tierOneDays
	if tierTwo < 0 {
		tierTwo = 0
	}

	fee := tierOneRate.Mul(decimal.NewFromInt(int64(tierOne))).
		Add(tierTwoRate.Mul(decimal.NewFromInt(int64(tierTwo))))
	if fee.GreaterThan(MaxLateFee) {
		fee = MaxLateFee
	}
	return fee.Round(2)
}

// AssessLateFee combines DaysOverdue and FeeForDaysOverdue for a due date and
// a reference instant (now, or the moment of return).
func AssessLateFee(dueDate, ref time.Time) (decimal.Decimal, int) {
	days := DaysOverdue(dueDate, ref)
	return FeeForDaysOverdue(days), days
}
