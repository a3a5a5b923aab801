package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses shared by B2C and B2B leads.
const (
	LeadStatusNew       = "NEW"
	LeadStatusFollowUp  = "FOLLOW_UP"
	LeadStatusProspect  = "PROSPECT"
	LeadStatusConverted = "CONVERTED"
	LeadStatusLost      = "LOST"
)

var LeadStatuses = []string{
	LeadStatusNew, LeadStatusFollowUp, LeadStatusProspect,
	LeadStatusConverted, LeadStatusLost,
}

// B2CLead is an individual-customer enquiry. EnquiryID (B2C-xxx) is the
// primary business key.
type B2CLead struct {
	EnquiryID    string     `json:"enquiry_id" db:"enquiry_id"`
	CustomerName string     `json:"customer_name" db:"customer_name"`
	ContactNo    string     `json:"contact_no" db:"contact_no"`
	Email        *string    `json:"email" db:"email"`
	EnquiryDate  time.Time  `json:"enquiry_date" db:"enquiry_date"`
	Source       *string    `json:"source" db:"source"`
	Services     *string    `json:"services" db:"services"`
	ReferredBy   *string    `json:"referred_by" db:"referred_by"`
	Status       string     `json:"status" db:"status"`
	Comment      *string    `json:"comment" db:"comment"`
	CustomerID   *uuid.UUID `json:"customer_id" db:"customer_id"`
	CreatedBy    *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy    *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// B2BLead is an organization enquiry.
type B2BLead struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	SrNo                string     `json:"sr_no" db:"sr_no"`
	Spoc                *string    `json:"spoc" db:"spoc"`
	Date                *time.Time `json:"date" db:"date"`
	OrganizationName    string     `json:"organization_name" db:"organization_name"`
	OrganizationEmail   *string    `json:"organization_email" db:"organization_email"`
	Location            *string    `json:"location" db:"location"`
	TypeOfLeads         *string    `json:"type_of_leads" db:"type_of_leads"`
	OrgPocNameAndRole   *string    `json:"org_poc_name_and_role" db:"org_poc_name_and_role"`
	EmployeeSize        *string    `json:"employee_size" db:"employee_size"`
	WellnessProgram     *string    `json:"employee_wellness_program" db:"employee_wellness_program"`
	WellnessBudget      *string    `json:"budget_of_wellness_program" db:"budget_of_wellness_program"`
	LastWellnessActivity *string   `json:"last_wellness_activity_done" db:"last_wellness_activity_done"`
	Status              string     `json:"status" db:"status"`
	CreatedBy           *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy           *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}
