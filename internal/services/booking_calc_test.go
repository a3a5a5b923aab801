package services

import (
	"testing"
	"time"

	"caretrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestDeriveGST_Exclusive(t *testing.T) {
	tax, total := DeriveGST(dec("1000"), dec("18"), models.GSTExclusive)
	assert.True(t, tax.Equal(dec("180")), "tax = %s", tax)
	assert.True(t, total.Equal(dec("1180")), "total = %s", total)
}

func TestDeriveGST_InclusiveKeepsTotal(t *testing.T) {
	tax, total := DeriveGST(dec("1180"), dec("18"), models.GSTInclusive)
	assert.True(t, tax.Equal(dec("180")), "tax = %s", tax)
	assert.True(t, total.Equal(dec("1180")), "total = %s", total)
}

func TestDeriveGST_ZeroPercent(t *testing.T) {
	tax, total := DeriveGST(dec("500"), decimal.Zero, models.GSTExclusive)
	assert.True(t, tax.IsZero())
	assert.True(t, total.Equal(dec("500")))

	tax, total = DeriveGST(dec("500"), decimal.Zero, models.GSTInclusive)
	assert.True(t, tax.IsZero())
	assert.True(t, total.Equal(dec("500")))
}

func TestDeriveGST_NegativeBaseTreatedAsZero(t *testing.T) {
	tax, total := DeriveGST(dec("-100"), dec("18"), models.GSTExclusive)
	assert.True(t, tax.IsZero())
	assert.True(t, total.IsZero())
}

func TestDeriveGST_Rounding(t *testing.T) {
	// 99.99 * 18% = 17.9982, rounds to 18.00
	tax, total := DeriveGST(dec("99.99"), dec("18"), models.GSTExclusive)
	assert.True(t, tax.Equal(dec("18.00")), "tax = %s", tax)
	assert.True(t, total.Equal(dec("117.99")), "total = %s", total)
}

func recurringBooking(start, end string, shiftHours int, charge string) *models.Booking {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return &models.Booking{
		ChargeType:    models.ChargeTypeRecurring,
		StartDate:     &s,
		EndDate:       &e,
		ShiftHours:    &shiftHours,
		ServiceCharge: dec(charge),
	}
}

func TestProratedServiceCharge_InclusiveDays(t *testing.T) {
	// 1st..3rd is three billable days at one 24h shift a day.
	b := recurringBooking("2025-03-01", "2025-03-03", 24, "1000")
	got := ProratedServiceCharge(b)
	assert.True(t, got.Equal(dec("3000")), "got %s", got)
}

func TestProratedServiceCharge_SingleDay(t *testing.T) {
	b := recurringBooking("2025-03-01", "2025-03-01", 12, "500")
	// One day, two 12h shifts.
	got := ProratedServiceCharge(b)
	assert.True(t, got.Equal(dec("1000")), "got %s", got)
}

func TestProratedServiceCharge_FractionalShifts(t *testing.T) {
	// 5h shifts give 4.8 shifts a day; the fraction is billed, not rounded.
	b := recurringBooking("2025-03-01", "2025-03-02", 5, "100")
	got := ProratedServiceCharge(b)
	assert.True(t, got.Equal(dec("960")), "got %s", got)
}

func TestRecalculateBooking_Fixed(t *testing.T) {
	b := &models.Booking{
		ChargeType:    models.ChargeTypeFixed,
		ServiceCharge: dec("1000"),
		OtherExpanse:  dec("200"),
		GSTType:       models.GSTExclusive,
		GSTPercentage: 18,
		AmountPaid:    dec("400"),
	}
	RecalculateBooking(b)
	assert.True(t, b.GSTValue.Equal(dec("216")), "gst = %s", b.GSTValue)
	assert.True(t, b.TotalAmount.Equal(dec("1416")), "total = %s", b.TotalAmount)
	assert.True(t, b.PendingAmount.Equal(dec("1016")), "pending = %s", b.PendingAmount)
}

func TestRecalculateBooking_Recurring(t *testing.T) {
	b := recurringBooking("2025-03-01", "2025-03-02", 12, "500")
	b.GSTType = models.GSTExclusive
	b.GSTPercentage = 0
	RecalculateBooking(b)
	// 2 days * 2 shifts * 500
	assert.True(t, b.TotalAmount.Equal(dec("2000")), "total = %s", b.TotalAmount)
	assert.True(t, b.PendingAmount.Equal(dec("2000")))
}

func TestRecalculateBooking_Idempotent(t *testing.T) {
	b := &models.Booking{
		ChargeType:    models.ChargeTypeFixed,
		ServiceCharge: dec("999.99"),
		GSTType:       models.GSTInclusive,
		GSTPercentage: 18,
		AmountPaid:    dec("100"),
	}
	RecalculateBooking(b)
	first := *b
	RecalculateBooking(b)
	assert.True(t, b.GSTValue.Equal(first.GSTValue))
	assert.True(t, b.TotalAmount.Equal(first.TotalAmount))
	assert.True(t, b.PendingAmount.Equal(first.PendingAmount))
}

func TestDeriveTDS(t *testing.T) {
	tds, net := DeriveTDS(dec("10000"), dec("10"))
	assert.True(t, tds.Equal(dec("1000")), "tds = %s", tds)
	assert.True(t, net.Equal(dec("9000")), "net = %s", net)
}

func TestDeriveTDS_ZeroPercent(t *testing.T) {
	tds, net := DeriveTDS(dec("750.50"), decimal.Zero)
	assert.True(t, tds.IsZero())
	assert.True(t, net.Equal(dec("750.50")))
}
