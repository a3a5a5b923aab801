package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is a grouped key/value option used to populate form dropdowns
// (expense categories, services, sources, and so on). Group+Key is unique.
type Setting struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Group     string     `json:"group" db:"setting_group"`
	Key       string     `json:"key" db:"setting_key"`
	Value     string     `json:"value" db:"setting_value"`
	SortOrder int        `json:"sort_order" db:"sort_order"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedBy *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
