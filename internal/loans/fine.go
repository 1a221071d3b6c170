package loans

import (
	"time"

	"github.com/shopspring/decimal"

	"libris-backend/internal/platform/clock"
)

// OverdueDays is the number of whole calendar days on is past due, never negative.
func OverdueDays(due, on time.Time) int {
	d := clock.DaysBetween(due, on)
	if d < 0 {
		return 0
	}
	return d
}

// ComputeFine returns OverdueDays(due, returned) × rate rounded to cents.
func ComputeFine(due, returned time.Time, rate decimal.Decimal) decimal.Decimal {
	days := OverdueDays(due, returned)
	if days == 0 {
		return decimal.Zero
	}
	return rate.Mul(decimal.NewFromInt(int64(days))).Round(2)
}
