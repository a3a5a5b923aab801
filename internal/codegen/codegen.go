// Package codegen produces the human-readable sequential identifiers used
// across the application (BOOK-001, CUST-002, INV-2025-0001, ...).
//
// Codes are derived by scanning existing identifiers for the prefix, taking
// the highest numeric suffix and adding one. Gaps left by failed inserts are
// never reused. The scan-then-insert pattern can race under concurrent
// creates; callers catch the resulting unique-constraint violation and
// retry with a fresh code a bounded number of times.
package codegen

import (
	"fmt"
	"strconv"
	"strings"
)

// Widths for zero padding. Entity codes use 3 digits; finance document
// numbers scoped to a calendar year use 4.
const (
	EntityWidth  = 3
	FinanceWidth = 4
)

// Entity code prefixes.
const (
	BookingPrefix  = "BOOK-"
	CustomerPrefix = "CUST-"
	EmployeePrefix = "EMP-"
	ExpensePrefix  = "EXP-"
	PartnerPrefix  = "CP-"
	CampPrefix     = "CAMP-"
	B2CLeadPrefix  = "B2C-"
	B2BLeadPrefix  = "B2B-"
)

// Year-scoped finance document kinds, used with YearPrefix.
const (
	InvoiceKind    = "INV"
	BillKind       = "BILL"
	PaymentInKind  = "PAY"
	PaymentOutKind = "PMT"
)

// Next returns the next code for prefix given all existing codes with that
// prefix. Codes whose suffix does not parse as a number are skipped, the
// same way the legacy data was treated.
func Next(prefix string, width int, existing []string) string {
	max := 0
	for _, code := range existing {
		n, ok := suffixNumber(code, prefix)
		if ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, max+1)
}

// YearPrefix builds the prefix for year-scoped finance documents,
// e.g. YearPrefix("INV", 2025) == "INV-2025-".
func YearPrefix(kind string, year int) string {
	return fmt.Sprintf("%s-%d-", kind, year)
}

func suffixNumber(code, prefix string) (int, bool) {
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(code, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
