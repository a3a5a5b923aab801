package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	CustomerCode     string     `json:"customer_code" db:"customer_code"`
	CustomerName     string     `json:"customer_name" db:"customer_name"`
	ContactNo        string     `json:"contact_no" db:"contact_no"`
	Email            *string    `json:"email" db:"email"`
	Services         *string    `json:"services" db:"services"`
	ChannelPartnerID *uuid.UUID `json:"channel_partner_id" db:"channel_partner_id"`
	CreatedBy        *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy        *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
