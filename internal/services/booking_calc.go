package services

import (
	"github.com/shopspring/decimal"

	"caretrack/internal/models"
)

var (
	hundred     = decimal.NewFromInt(100)
	hoursPerDay = decimal.NewFromInt(24)
)

// DeriveGST computes the tax and total for a base amount.
//
// Exclusive mode adds tax on top: tax = base * pct / 100, total = base + tax.
// Inclusive mode back-calculates tax already embedded in the quoted figure:
// tax = base * pct / (100 + pct), total stays equal to base. Changing only
// the rate on an inclusive amount therefore changes the tax/base split, not
// the customer-facing total.
//
// Amounts are rounded half-up to 2 decimal places. A negative base is
// treated as zero; callers default absent numerics to zero before calling.
func DeriveGST(base, pct decimal.Decimal, gstType string) (tax, total decimal.Decimal) {
	if base.IsNegative() {
		base = decimal.Zero
	}
	if gstType == models.GSTInclusive {
		if pct.IsZero() {
			return decimal.Zero, base.Round(2)
		}
		tax = base.Mul(pct).Div(hundred.Add(pct)).Round(2)
		return tax, base.Round(2)
	}
	tax = base.Mul(pct).Div(hundred).Round(2)
	return tax, base.Add(tax).Round(2)
}

// ProratedServiceCharge scales a per-shift charge over the shifts covered by
// the booking's date range. Both endpoints are billable, so a one-day range
// counts as one day. Shift lengths that do not divide 24 evenly yield a
// fractional shifts-per-day (5-hour shifts bill 4.8 shifts a day); the
// fraction is kept as-is because rounding it would change invoiced amounts.
func ProratedServiceCharge(b *models.Booking) decimal.Decimal {
	days := int64(b.EndDate.Sub(*b.StartDate).Hours()/24) + 1
	shiftsPerDay := hoursPerDay.Div(decimal.NewFromInt(int64(*b.ShiftHours)))
	totalShifts := decimal.NewFromInt(days).Mul(shiftsPerDay)
	return b.ServiceCharge.Mul(totalShifts)
}

// RecalculateBooking re-derives GSTValue, TotalAmount and PendingAmount from
// the booking's charge fields and AmountPaid. It is the only code path
// allowed to write those three fields and must run after every mutation
// that touches a charge field or the paid total. Calling it twice in a row
// yields the same result.
func RecalculateBooking(b *models.Booking) {
	base := b.ServiceCharge
	if b.IsRecurring() {
		base = ProratedServiceCharge(b)
	}
	baseAmount := base.Add(b.OtherExpanse).Round(2)
	pct := decimal.NewFromInt(int64(b.GSTPercentage))
	b.GSTValue, b.TotalAmount = DeriveGST(baseAmount, pct, b.GSTType)
	b.PendingAmount = b.TotalAmount.Sub(b.AmountPaid)
}

// DeriveTDS computes the tax-deducted-at-source split for a finance payment:
// the withheld amount and the net that reaches the payee.
func DeriveTDS(amount, pct decimal.Decimal) (tdsAmount, netAmount decimal.Decimal) {
	if pct.IsZero() {
		return decimal.Zero, amount.Round(2)
	}
	tdsAmount = amount.Mul(pct).Div(hundred).Round(2)
	return tdsAmount, amount.Sub(tdsAmount).Round(2)
}
