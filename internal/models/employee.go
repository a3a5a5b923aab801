package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Employee holds the HR record for field and office staff. PhotoKey and
// DocumentKey are MinIO object keys, not URLs; presigned links are issued
// on demand.
type Employee struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	EmployeeCode     string     `json:"employee_code" db:"employee_code"`
	EmployType       *string    `json:"employ_type" db:"employ_type"`
	Name             string     `json:"name" db:"name"`
	ContactNo        string     `json:"contact_no" db:"contact_no"`
	WhatsappNo       *string    `json:"whatsapp_no" db:"whatsapp_no"`
	Email            *string    `json:"email" db:"email"`
	DOB              *time.Time `json:"dob" db:"dob"`
	Gender           *string    `json:"gender" db:"gender"`
	Degree           *string    `json:"degree" db:"degree"`
	Designation      *string    `json:"designation" db:"designation"`
	TotalExperience  *string    `json:"total_experience" db:"total_experience"`
	SkillSet         *string    `json:"skill_set" db:"skill_set"`
	TemporaryAddress *string    `json:"temporary_address" db:"temporary_address"`
	PermanentAddress *string    `json:"permanent_address" db:"permanent_address"`
	AadharNo         *string    `json:"aadhar_no" db:"aadhar_no"`
	PhotoKey         *string    `json:"photo_key" db:"photo_key"`
	DocumentKey      *string    `json:"document_key" db:"document_key"`
	BankName         *string    `json:"bank_name" db:"bank_name"`
	BranchName       *string    `json:"branch_name" db:"branch_name"`
	AccountNo        *string    `json:"account_no" db:"account_no"`
	IFSCCode         *string    `json:"ifsc_code" db:"ifsc_code"`
	CreatedBy        *uuid.UUID `json:"created_by" db:"created_by"`
	UpdatedBy        *uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
