package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_EmptyStartsAtOne(t *testing.T) {
	assert.Equal(t, "BOOK-001", Next(BookingPrefix, EntityWidth, nil))
}

func TestNext_MaxPlusOne(t *testing.T) {
	codes := []string{"BOOK-001", "BOOK-002", "BOOK-003"}
	assert.Equal(t, "BOOK-004", Next(BookingPrefix, EntityWidth, codes))
}

func TestNext_GapsAreNotReused(t *testing.T) {
	codes := []string{"BOOK-001", "BOOK-003"}
	assert.Equal(t, "BOOK-004", Next(BookingPrefix, EntityWidth, codes))
}

func TestNext_IgnoresForeignAndMalformedCodes(t *testing.T) {
	codes := []string{"CUST-009", "BOOK-ABC", "BOOK-002", "BOOK--1"}
	assert.Equal(t, "BOOK-003", Next(BookingPrefix, EntityWidth, codes))
}

func TestNext_GrowsBeyondPadding(t *testing.T) {
	codes := []string{"BOOK-999"}
	assert.Equal(t, "BOOK-1000", Next(BookingPrefix, EntityWidth, codes))
}

func TestNext_FinanceWidth(t *testing.T) {
	prefix := YearPrefix(InvoiceKind, 2025)
	assert.Equal(t, "INV-2025-0001", Next(prefix, FinanceWidth, nil))

	codes := []string{"INV-2025-0001", "INV-2024-0099"}
	assert.Equal(t, "INV-2025-0002", Next(prefix, FinanceWidth, codes))
}

func TestYearPrefix(t *testing.T) {
	assert.Equal(t, "INV-2025-", YearPrefix(InvoiceKind, 2025))
	assert.Equal(t, "PAY-2024-", YearPrefix(PaymentInKind, 2024))
	assert.Equal(t, "PMT-2024-", YearPrefix(PaymentOutKind, 2024))
	assert.Equal(t, "BILL-2026-", YearPrefix(BillKind, 2026))
}
