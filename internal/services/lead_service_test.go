package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockB2CLeadRepository struct {
	mock.Mock
}

func (m *MockB2CLeadRepository) WithTx(tx repositories.Database) repositories.B2CLeadRepository {
	return m
}

func (m *MockB2CLeadRepository) Create(ctx context.Context, lead *models.B2CLead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockB2CLeadRepository) GetByEnquiryID(ctx context.Context, enquiryID string) (*models.B2CLead, error) {
	args := m.Called(ctx, enquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.B2CLead), args.Error(1)
}

func (m *MockB2CLeadRepository) Update(ctx context.Context, lead *models.B2CLead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockB2CLeadRepository) Delete(ctx context.Context, enquiryID string) error {
	args := m.Called(ctx, enquiryID)
	return args.Error(0)
}

func (m *MockB2CLeadRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.B2CLead, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.B2CLead), args.Error(1)
}

func (m *MockB2CLeadRepository) ListAll(ctx context.Context) ([]*models.B2CLead, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.B2CLead), args.Error(1)
}

func (m *MockB2CLeadRepository) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockB2CLeadRepository) MarkConverted(ctx context.Context, enquiryID string, customerID uuid.UUID) error {
	args := m.Called(ctx, enquiryID, customerID)
	return args.Error(0)
}

func newLeadServiceWithMock() (*MockB2CLeadRepository, LeadService) {
	repo := new(MockB2CLeadRepository)
	return repo, NewLeadService(repo, nil)
}

func TestImportB2CCSV_RequiredColumnsMissing(t *testing.T) {
	_, svc := newLeadServiceWithMock()

	csv := "enquiry_id,email\nX,foo@example.com\n"
	_, err := svc.ImportB2CCSV(context.Background(), strings.NewReader(csv), nil)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestImportB2CCSV_SkipsIncompleteRowsAndRegeneratesIDs(t *testing.T) {
	repo, svc := newLeadServiceWithMock()
	ctx := context.Background()

	repo.On("ListCodes", ctx, "B2C-").Return([]string{"B2C-004"}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.B2CLead")).Return(nil)

	csv := strings.Join([]string{
		"enquiry_id,customer_name,contact_no,email,source,status",
		"OLD-999,Asha Rao,9876543210,asha@example.com,Google,CONVERTED",
		",Missing Contact,,none@example.com,,",
		"OLD-998,Ravi Kumar,9123456780,,,nonsense_status",
	}, "\n")

	result, err := svc.ImportB2CCSV(ctx, strings.NewReader(csv), nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)

	for _, call := range repo.Calls {
		if call.Method != "Create" {
			continue
		}
		lead := call.Arguments.Get(1).(*models.B2CLead)
		// IDs come from the generator, never from the file.
		assert.True(t, strings.HasPrefix(lead.EnquiryID, "B2C-"))
		assert.NotEqual(t, "OLD-999", lead.EnquiryID)
		assert.NotEqual(t, "OLD-998", lead.EnquiryID)
	}
}

func TestImportB2CCSV_UnknownStatusDefaultsToNew(t *testing.T) {
	repo, svc := newLeadServiceWithMock()
	ctx := context.Background()

	var created *models.B2CLead
	repo.On("ListCodes", ctx, "B2C-").Return([]string{}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.B2CLead")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.B2CLead) }).
		Return(nil)

	csv := "customer_name,contact_no,status\nRavi Kumar,9123456780,whatever\n"
	result, err := svc.ImportB2CCSV(ctx, strings.NewReader(csv), nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, models.LeadStatusNew, created.Status)
}

func TestExportB2CCSV_WritesHeaderAndRows(t *testing.T) {
	repo, svc := newLeadServiceWithMock()
	ctx := context.Background()

	email := "asha@example.com"
	leads := []*models.B2CLead{
		{
			EnquiryID:    "B2C-001",
			CustomerName: "Asha Rao",
			ContactNo:    "9876543210",
			Email:        &email,
			EnquiryDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:       models.LeadStatusNew,
		},
	}
	repo.On("ListAll", ctx).Return(leads, nil)

	var buf bytes.Buffer
	err := svc.ExportB2CCSV(ctx, &buf)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.Join(b2cCSVHeader, ","), lines[0])
	assert.Contains(t, lines[1], "B2C-001")
	assert.Contains(t, lines[1], "Asha Rao")
	assert.Contains(t, lines[1], "2025-03-01")
}

func TestUpdateB2C_ConvertedLeadStaysConverted(t *testing.T) {
	repo, svc := newLeadServiceWithMock()
	ctx := context.Background()

	customerID := uuid.New()
	existing := &models.B2CLead{
		EnquiryID:  "B2C-001",
		Status:     models.LeadStatusConverted,
		CustomerID: &customerID,
	}
	repo.On("GetByEnquiryID", ctx, "B2C-001").Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*models.B2CLead")).Return(nil)

	edit := &models.B2CLead{
		EnquiryID:    "B2C-001",
		CustomerName: "Asha Rao",
		ContactNo:    "9876543210",
		Status:       models.LeadStatusNew, // attempted regression
	}
	err := svc.UpdateB2C(ctx, edit)
	assert.NoError(t, err)
	assert.Equal(t, models.LeadStatusConverted, edit.Status)
	assert.Equal(t, &customerID, edit.CustomerID)
}

func TestDeleteB2C_RefusesConvertedLead(t *testing.T) {
	repo, svc := newLeadServiceWithMock()
	ctx := context.Background()

	existing := &models.B2CLead{EnquiryID: "B2C-001", Status: models.LeadStatusConverted}
	repo.On("GetByEnquiryID", ctx, "B2C-001").Return(existing, nil)

	err := svc.DeleteB2C(ctx, "B2C-001")
	assert.ErrorIs(t, err, ErrLeadConverted)
	repo.AssertNotCalled(t, "Delete", ctx, "B2C-001")
}
