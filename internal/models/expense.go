package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ExpenseCode   string          `json:"expense_code" db:"expense_code"`
	Date          time.Time       `json:"date" db:"date"`
	BookingID     *uuid.UUID      `json:"booking_id" db:"booking_id"`
	OtherID       *string         `json:"other_id" db:"other_id"`
	Category      string          `json:"category" db:"category"`
	SubCategory   *string         `json:"sub_category" db:"sub_category"`
	ExpenseAmount decimal.Decimal `json:"expense_amount" db:"expense_amount"`
	CreatedBy     *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy     *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
