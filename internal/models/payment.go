package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted on booking and finance payment records.
var PaymentMethods = []string{"Cash", "Online Transfer", "Cheque", "Card", "UPI", "Other"}

// Payment is one discrete payment applied to a booking. A booking's
// AmountPaid equals the sum of its payments at all times.
type Payment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	BookingID uuid.UUID       `json:"booking_id" db:"booking_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"date"`
	Method    *string         `json:"method" db:"method"`
	Notes     *string         `json:"notes" db:"notes"`
	CreatedBy *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
