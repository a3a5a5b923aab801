package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"caretrack/internal/codegen"
	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CampService interface {
	Create(ctx context.Context, camp *models.Camp) error
	Get(ctx context.Context, id uuid.UUID) (*models.Camp, error)
	Update(ctx context.Context, camp *models.Camp) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Camp, error)
	ExportCSV(ctx context.Context, from, to time.Time, w io.Writer) error
	CollectionTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type campService struct {
	repo repositories.CampRepository
}

func NewCampService(repo repositories.CampRepository) CampService {
	return &campService{repo: repo}
}

func (s *campService) Create(ctx context.Context, camp *models.Camp) error {
	camp.ID = uuid.New()
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.repo.ListCodes(ctx, codegen.CampPrefix)
		if err != nil {
			return err
		}
		camp.CampID = codegen.Next(codegen.CampPrefix, codegen.EntityWidth, codes)
		err = s.repo.Create(ctx, camp)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *campService) Get(ctx context.Context, id uuid.UUID) (*models.Camp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *campService) Update(ctx context.Context, camp *models.Camp) error {
	existing, err := s.repo.GetByID(ctx, camp.ID)
	if err != nil {
		return err
	}
	camp.CampID = existing.CampID
	return s.repo.Update(ctx, camp)
}

func (s *campService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *campService) List(ctx context.Context, limit, offset int) ([]*models.Camp, error) {
	return s.repo.List(ctx, limit, offset)
}

var campCSVHeader = []string{"camp_id", "camp_date", "camp_location", "referred_by", "patient_name",
	"age", "gender", "test_done", "package", "diagnostic_partner", "phone_no", "payment"}

func (s *campService) ExportCSV(ctx context.Context, from, to time.Time, w io.Writer) error {
	camps, err := s.repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(campCSVHeader); err != nil {
		return err
	}
	for _, c := range camps {
		age := ""
		if c.Age != nil {
			age = strconv.Itoa(*c.Age)
		}
		record := []string{
			c.CampID,
			c.CampDate.Format("2006-01-02"),
			c.CampLocation,
			common.SafeString(c.ReferredBy),
			c.PatientName,
			age,
			common.SafeString(c.Gender),
			common.SafeString(c.TestDone),
			common.SafeString(c.Package),
			common.SafeString(c.DiagnosticPartner),
			common.SafeString(c.PhoneNo),
			c.Payment.StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *campService) CollectionTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.repo.SumPayments(ctx, from, to)
}
