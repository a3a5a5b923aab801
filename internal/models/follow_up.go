package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow-up outcomes.
const (
	OutcomeCalled     = "CALLED"
	OutcomeWhatsapp   = "WHATSAPP"
	OutcomeEmail      = "EMAIL"
	OutcomeMeeting    = "MEETING"
	OutcomeScheduled  = "SCHEDULED"
	OutcomeNoResponse = "NO_RESPONSE"
	OutcomeOther      = "OTHER"
)

var FollowUpOutcomes = []string{
	OutcomeCalled, OutcomeWhatsapp, OutcomeEmail, OutcomeMeeting,
	OutcomeScheduled, OutcomeNoResponse, OutcomeOther,
}

// FollowUp records one contact attempt against a lead. Exactly one of
// B2CLeadID / B2BLeadID is set; the database enforces this with a check
// constraint.
type FollowUp struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	LeadType       string     `json:"lead_type" db:"lead_type"` // B2C or B2B
	B2CLeadID      *string    `json:"b2c_lead_id" db:"b2c_lead_id"`
	B2BLeadID      *uuid.UUID `json:"b2b_lead_id" db:"b2b_lead_id"`
	FollowUpOn     time.Time  `json:"follow_up_on" db:"follow_up_on"`
	Notes          *string    `json:"notes" db:"notes"`
	Outcome        string     `json:"outcome" db:"outcome"`
	NextFollowUpOn *time.Time `json:"next_follow_up_on" db:"next_follow_up_on"`
	OwnerID        uuid.UUID  `json:"owner_id" db:"owner_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidOutcome reports whether o is a known follow-up outcome.
func ValidOutcome(o string) bool {
	for _, v := range FollowUpOutcomes {
		if v == o {
			return true
		}
	}
	return false
}
