package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

// AuditLog records one mutation against a business entity. ChangedFields
// holds a JSON object of field -> new value.
type AuditLog struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Entity        string    `json:"entity" db:"entity"`
	EntityID      string    `json:"entity_id" db:"entity_id"`
	Action        string    `json:"action" db:"action"`
	ChangedFields *string   `json:"changed_fields" db:"changed_fields"`
	ActorID       uuid.UUID `json:"actor_id" db:"actor_id"`
	At            time.Time `json:"at" db:"at"`
}
