package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Charge types. Recurring bookings prorate the service charge over the
// covered shifts; fixed bookings charge it once.
const (
	ChargeTypeFixed     = "Fixed charge"
	ChargeTypeRecurring = "Recurring charge"
)

// GST modes. Exclusive adds tax on top of the base amount; inclusive treats
// the base amount as already containing tax.
const (
	GSTExclusive = "exclusive"
	GSTInclusive = "inclusive"
)

// Booking represents one service engagement for a customer.
//
// GSTValue, TotalAmount, AmountPaid and PendingAmount are derived fields.
// They must only ever be written by the booking service's recalculation
// path; handlers and repositories treat them as read-only.
type Booking struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	BookingCode      string          `json:"booking_code" db:"booking_code"`
	CustomerID       *uuid.UUID      `json:"customer_id" db:"customer_id"`
	CustomerName     string          `json:"customer_name" db:"customer_name"`
	CustomerMob      string          `json:"customer_mob" db:"customer_mob"`
	Services         string          `json:"services" db:"services"`
	ChargeType       string          `json:"charge_type" db:"charge_type"`
	StartDate        *time.Time      `json:"start_date" db:"start_date"`
	EndDate          *time.Time      `json:"end_date" db:"end_date"`
	ShiftHours       *int            `json:"shift_hours" db:"shift_hours"`
	ServiceCharge    decimal.Decimal `json:"service_charge" db:"service_charge"`
	OtherExpanse     decimal.Decimal `json:"other_expanse" db:"other_expanse"`
	GSTType          string          `json:"gst_type" db:"gst_type"`
	GSTPercentage    int             `json:"gst_percentage" db:"gst_percentage"`
	GSTValue         decimal.Decimal `json:"gst_value" db:"gst_value"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	AmountPaid       decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	PendingAmount    decimal.Decimal `json:"pending_amount" db:"pending_amount"`
	LastPaymentDate  *time.Time      `json:"last_payment_date" db:"last_payment_date"`
	EmployeeAssigned *uuid.UUID      `json:"employee_assigned_id" db:"employee_assigned_id"`
	CreatedBy        *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy        *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// IsRecurring reports whether the booking has all inputs needed for
// shift proration. A recurring booking missing any of them is charged
// like a fixed one; route validation rejects that combination upfront.
func (b *Booking) IsRecurring() bool {
	return b.ChargeType == ChargeTypeRecurring &&
		b.StartDate != nil && b.EndDate != nil &&
		b.ShiftHours != nil && *b.ShiftHours > 0
}
