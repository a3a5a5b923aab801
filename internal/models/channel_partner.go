package models

import (
	"time"

	"github.com/google/uuid"
)

// ChannelPartner is a referral partner who brings in customers.
type ChannelPartner struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	PartnerCode string     `json:"partner_code" db:"partner_code"`
	Name        string     `json:"name" db:"name"`
	ContactNo   string     `json:"contact_no" db:"contact_no"`
	Email       *string    `json:"email" db:"email"`
	CreatedDate time.Time  `json:"created_date" db:"created_date"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedBy   *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy   *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
