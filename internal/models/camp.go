package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Camp is one patient entry at a health camp.
type Camp struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	CampID            string          `json:"camp_id" db:"camp_id"`
	StaffID           *uuid.UUID      `json:"staff_id" db:"staff_id"`
	CampDate          time.Time       `json:"camp_date" db:"camp_date"`
	CampLocation      string          `json:"camp_location" db:"camp_location"`
	ReferredBy        *string         `json:"referred_by" db:"referred_by"`
	PatientName       string          `json:"patient_name" db:"patient_name"`
	Age               *int            `json:"age" db:"age"`
	Gender            *string         `json:"gender" db:"gender"`
	TestDone          *string         `json:"test_done" db:"test_done"`
	Package           *string         `json:"package" db:"package"`
	DiagnosticPartner *string         `json:"diagnostic_partner" db:"diagnostic_partner"`
	PhoneNo           *string         `json:"phone_no" db:"phone_no"`
	Payment           decimal.Decimal `json:"payment" db:"payment"`
	CreatedBy         *uuid.UUID      `json:"created_by" db:"created_by"`
	UpdatedBy         *uuid.UUID      `json:"updated_by" db:"updated_by"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}
