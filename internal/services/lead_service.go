package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"caretrack/internal/codegen"
	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus  = errors.New("unknown lead status")
	ErrLeadConverted  = errors.New("lead is already converted")
	ErrMissingColumns = errors.New("csv is missing required columns")
)

// ImportResult summarises one CSV import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type LeadService interface {
	CreateB2C(ctx context.Context, lead *models.B2CLead) error
	GetB2C(ctx context.Context, enquiryID string) (*models.B2CLead, error)
	UpdateB2C(ctx context.Context, lead *models.B2CLead) error
	DeleteB2C(ctx context.Context, enquiryID string) error
	ListB2C(ctx context.Context, status string, limit, offset int) ([]*models.B2CLead, error)
	ImportB2CCSV(ctx context.Context, r io.Reader, actorID *uuid.UUID) (*ImportResult, error)
	ExportB2CCSV(ctx context.Context, w io.Writer) error

	CreateB2B(ctx context.Context, lead *models.B2BLead) error
	GetB2B(ctx context.Context, id uuid.UUID) (*models.B2BLead, error)
	UpdateB2B(ctx context.Context, lead *models.B2BLead) error
	DeleteB2B(ctx context.Context, id uuid.UUID) error
	ListB2B(ctx context.Context, status string, limit, offset int) ([]*models.B2BLead, error)
	ExportB2BCSV(ctx context.Context, w io.Writer) error
}

type leadService struct {
	b2cRepo repositories.B2CLeadRepository
	b2bRepo repositories.B2BLeadRepository
}

func NewLeadService(b2cRepo repositories.B2CLeadRepository, b2bRepo repositories.B2BLeadRepository) LeadService {
	return &leadService{b2cRepo: b2cRepo, b2bRepo: b2bRepo}
}

func validStatus(status string) bool {
	for _, s := range models.LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *leadService) CreateB2C(ctx context.Context, lead *models.B2CLead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if !validStatus(lead.Status) {
		return ErrInvalidStatus
	}
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.b2cRepo.ListCodes(ctx, codegen.B2CLeadPrefix)
		if err != nil {
			return err
		}
		lead.EnquiryID = codegen.Next(codegen.B2CLeadPrefix, codegen.EntityWidth, codes)
		err = s.b2cRepo.Create(ctx, lead)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *leadService) GetB2C(ctx context.Context, enquiryID string) (*models.B2CLead, error) {
	return s.b2cRepo.GetByEnquiryID(ctx, enquiryID)
}

func (s *leadService) UpdateB2C(ctx context.Context, lead *models.B2CLead) error {
	if !validStatus(lead.Status) {
		return ErrInvalidStatus
	}
	existing, err := s.b2cRepo.GetByEnquiryID(ctx, lead.EnquiryID)
	if err != nil {
		return err
	}
	// A converted lead stays converted; edits may not regress the status
	// or detach the customer link.
	if existing.Status == models.LeadStatusConverted {
		lead.Status = models.LeadStatusConverted
		lead.CustomerID = existing.CustomerID
	}
	return s.b2cRepo.Update(ctx, lead)
}

func (s *leadService) DeleteB2C(ctx context.Context, enquiryID string) error {
	existing, err := s.b2cRepo.GetByEnquiryID(ctx, enquiryID)
	if err != nil {
		return err
	}
	if existing.Status == models.LeadStatusConverted {
		return ErrLeadConverted
	}
	return s.b2cRepo.Delete(ctx, enquiryID)
}

func (s *leadService) ListB2C(ctx context.Context, status string, limit, offset int) ([]*models.B2CLead, error) {
	return s.b2cRepo.List(ctx, status, limit, offset)
}

var b2cCSVHeader = []string{"enquiry_id", "customer_name", "contact_no", "email", "enquiry_date",
	"source", "services", "referred_by", "status", "comment"}

// ImportB2CCSV ingests leads from a CSV export. Rows missing a name or
// contact number are skipped and reported, not fatal. Enquiry IDs are
// always regenerated; IDs in the file are ignored.
func (s *leadService) ImportB2CCSV(ctx context.Context, r io.Reader, actorID *uuid.UUID) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["customer_name"]; !ok {
		return nil, ErrMissingColumns
	}
	if _, ok := col["contact_no"]; !ok {
		return nil, ErrMissingColumns
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		name := field(record, "customer_name")
		contact := field(record, "contact_no")
		if name == "" || contact == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: customer_name and contact_no are required", line))
			continue
		}
		lead := &models.B2CLead{
			CustomerName: name,
			ContactNo:    contact,
			Email:        common.StringPtr(field(record, "email")),
			EnquiryDate:  time.Now(),
			Source:       common.StringPtr(field(record, "source")),
			Services:     common.StringPtr(field(record, "services")),
			ReferredBy:   common.StringPtr(field(record, "referred_by")),
			Status:       models.LeadStatusNew,
			Comment:      common.StringPtr(field(record, "comment")),
			CreatedBy:    actorID,
			UpdatedBy:    actorID,
		}
		if d, err := common.ParseDate(field(record, "enquiry_date"), "enquiry_date"); err == nil && d != nil {
			lead.EnquiryDate = *d
		}
		if st := strings.ToUpper(field(record, "status")); st != "" && validStatus(st) {
			lead.Status = st
		}
		if err := s.CreateB2C(ctx, lead); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *leadService) ExportB2CCSV(ctx context.Context, w io.Writer) error {
	leads, err := s.b2cRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(b2cCSVHeader); err != nil {
		return err
	}
	for _, l := range leads {
		record := []string{
			l.EnquiryID,
			l.CustomerName,
			l.ContactNo,
			common.SafeString(l.Email),
			l.EnquiryDate.Format("2006-01-02"),
			common.SafeString(l.Source),
			common.SafeString(l.Services),
			common.SafeString(l.ReferredBy),
			l.Status,
			common.SafeString(l.Comment),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *leadService) CreateB2B(ctx context.Context, lead *models.B2BLead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if !validStatus(lead.Status) {
		return ErrInvalidStatus
	}
	lead.ID = uuid.New()
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.b2bRepo.ListCodes(ctx, codegen.B2BLeadPrefix)
		if err != nil {
			return err
		}
		lead.SrNo = codegen.Next(codegen.B2BLeadPrefix, codegen.EntityWidth, codes)
		err = s.b2bRepo.Create(ctx, lead)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *leadService) GetB2B(ctx context.Context, id uuid.UUID) (*models.B2BLead, error) {
	return s.b2bRepo.GetByID(ctx, id)
}

func (s *leadService) UpdateB2B(ctx context.Context, lead *models.B2BLead) error {
	if !validStatus(lead.Status) {
		return ErrInvalidStatus
	}
	return s.b2bRepo.Update(ctx, lead)
}

func (s *leadService) DeleteB2B(ctx context.Context, id uuid.UUID) error {
	existing, err := s.b2bRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status == models.LeadStatusConverted {
		return ErrLeadConverted
	}
	return s.b2bRepo.Delete(ctx, id)
}

func (s *leadService) ListB2B(ctx context.Context, status string, limit, offset int) ([]*models.B2BLead, error) {
	return s.b2bRepo.List(ctx, status, limit, offset)
}

var b2bCSVHeader = []string{"sr_no", "organization_name", "spoc", "date", "organization_email",
	"location", "type_of_leads", "org_poc_name_and_role", "employee_size",
	"employee_wellness_program", "budget_of_wellness_program", "last_wellness_activity_done", "status"}

func (s *leadService) ExportB2BCSV(ctx context.Context, w io.Writer) error {
	leads, err := s.b2bRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(b2bCSVHeader); err != nil {
		return err
	}
	for _, l := range leads {
		date := ""
		if l.Date != nil {
			date = l.Date.Format("2006-01-02")
		}
		record := []string{
			l.SrNo,
			l.OrganizationName,
			common.SafeString(l.Spoc),
			date,
			common.SafeString(l.OrganizationEmail),
			common.SafeString(l.Location),
			common.SafeString(l.TypeOfLeads),
			common.SafeString(l.OrgPocNameAndRole),
			common.SafeString(l.EmployeeSize),
			common.SafeString(l.WellnessProgram),
			common.SafeString(l.WellnessBudget),
			common.SafeString(l.LastWellnessActivity),
			l.Status,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
