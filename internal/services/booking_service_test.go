package services

import (
	"context"
	"testing"
	"time"

	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// fakeTx satisfies pgx.Tx for service tests. Only Commit and Rollback are
// ever reached because the mocked repositories return themselves from
// WithTx.
type fakeTx struct{ pgx.Tx }

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakePool struct{}

func (fakePool) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) WithTx(tx repositories.Database) repositories.BookingRepository {
	return m
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) WithTx(tx repositories.Database) repositories.PaymentRepository {
	return m
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumByBooking(ctx context.Context, bookingID uuid.UUID) (decimal.Decimal, *time.Time, error) {
	args := m.Called(ctx, bookingID)
	var last *time.Time
	if args.Get(1) != nil {
		last = args.Get(1).(*time.Time)
	}
	return args.Get(0).(decimal.Decimal), last, args.Error(2)
}

type BookingServiceTestSuite struct {
	suite.Suite
	bookingRepo *MockBookingRepository
	paymentRepo *MockPaymentRepository
	service     BookingService
	ctx         context.Context
}

func (suite *BookingServiceTestSuite) SetupTest() {
	suite.bookingRepo = new(MockBookingRepository)
	suite.paymentRepo = new(MockPaymentRepository)
	suite.service = NewBookingService(fakePool{}, suite.bookingRepo, suite.paymentRepo)
	suite.ctx = context.Background()
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func (suite *BookingServiceTestSuite) TestCreate_DerivesAmountsAndCode() {
	booking := &models.Booking{
		CustomerName:  "Asha Rao",
		ChargeType:    models.ChargeTypeFixed,
		ServiceCharge: dec("1000"),
		GSTType:       models.GSTExclusive,
		GSTPercentage: 18,
	}

	suite.bookingRepo.On("ListCodes", suite.ctx, "BOOK-").Return([]string{"BOOK-007"}, nil)
	suite.bookingRepo.On("Create", suite.ctx, booking).Return(nil)

	err := suite.service.Create(suite.ctx, booking)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "BOOK-008", booking.BookingCode)
	assert.True(suite.T(), booking.AmountPaid.IsZero())
	assert.True(suite.T(), booking.TotalAmount.Equal(dec("1180")))
	assert.True(suite.T(), booking.PendingAmount.Equal(dec("1180")))
	suite.paymentRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *BookingServiceTestSuite) TestCreate_RecordsInitialPayment() {
	now := time.Now()
	booking := &models.Booking{
		CustomerName:  "Asha Rao",
		ChargeType:    models.ChargeTypeFixed,
		ServiceCharge: dec("1000"),
		GSTType:       models.GSTExclusive,
		GSTPercentage: 18,
		AmountPaid:    dec("400"), // collected up front
	}

	var recorded *models.Payment
	suite.bookingRepo.On("ListCodes", suite.ctx, "BOOK-").Return([]string{}, nil)
	suite.bookingRepo.On("Create", suite.ctx, booking).Return(nil)
	suite.paymentRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Payment")).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*models.Payment) }).
		Return(nil)
	suite.paymentRepo.On("SumByBooking", suite.ctx, mock.AnythingOfType("uuid.UUID")).Return(dec("400"), &now, nil)
	suite.bookingRepo.On("Update", suite.ctx, booking).Return(nil)

	err := suite.service.Create(suite.ctx, booking)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), recorded)
	assert.Equal(suite.T(), booking.ID, recorded.BookingID)
	assert.True(suite.T(), recorded.Amount.Equal(dec("400")))
	assert.False(suite.T(), recorded.Date.IsZero())
	assert.Nil(suite.T(), recorded.Method)
	assert.NotNil(suite.T(), recorded.Notes)
	assert.True(suite.T(), booking.AmountPaid.Equal(dec("400")))
	assert.True(suite.T(), booking.PendingAmount.Equal(dec("780")))
	assert.Equal(suite.T(), &now, booking.LastPaymentDate)
}

func (suite *BookingServiceTestSuite) TestCreate_RejectsNegativeInitialPayment() {
	booking := &models.Booking{
		CustomerName: "Asha Rao",
		ChargeType:   models.ChargeTypeFixed,
		GSTType:      models.GSTExclusive,
		AmountPaid:   dec("-1"),
	}
	err := suite.service.Create(suite.ctx, booking)
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
}

func (suite *BookingServiceTestSuite) TestCreate_RetriesOnDuplicateCode() {
	booking := &models.Booking{
		CustomerName: "Asha Rao",
		ChargeType:   models.ChargeTypeFixed,
		GSTType:      models.GSTExclusive,
	}
	dup := &pgconn.PgError{Code: "23505"}

	suite.bookingRepo.On("ListCodes", suite.ctx, "BOOK-").Return([]string{}, nil)
	suite.bookingRepo.On("Create", suite.ctx, booking).Return(dup).Once()
	suite.bookingRepo.On("Create", suite.ctx, booking).Return(nil).Once()

	err := suite.service.Create(suite.ctx, booking)
	assert.NoError(suite.T(), err)
	suite.bookingRepo.AssertNumberOfCalls(suite.T(), "Create", 2)
}

func (suite *BookingServiceTestSuite) TestCreate_ExhaustsRetries() {
	booking := &models.Booking{
		CustomerName: "Asha Rao",
		ChargeType:   models.ChargeTypeFixed,
		GSTType:      models.GSTExclusive,
	}
	dup := &pgconn.PgError{Code: "23505"}

	suite.bookingRepo.On("ListCodes", suite.ctx, "BOOK-").Return([]string{}, nil)
	suite.bookingRepo.On("Create", suite.ctx, booking).Return(dup)

	err := suite.service.Create(suite.ctx, booking)
	assert.ErrorIs(suite.T(), err, ErrCodeExhausted)
}

func (suite *BookingServiceTestSuite) TestCreate_RecurringNeedsDates() {
	booking := &models.Booking{
		CustomerName: "Asha Rao",
		ChargeType:   models.ChargeTypeRecurring,
	}
	err := suite.service.Create(suite.ctx, booking)
	assert.ErrorIs(suite.T(), err, ErrBookingDates)
}

func (suite *BookingServiceTestSuite) TestCreate_RecurringRejectsBadShiftHours() {
	start := time.Now()
	end := start.AddDate(0, 0, 5)
	shift := 30
	booking := &models.Booking{
		CustomerName: "Asha Rao",
		ChargeType:   models.ChargeTypeRecurring,
		StartDate:    &start,
		EndDate:      &end,
		ShiftHours:   &shift,
	}
	err := suite.service.Create(suite.ctx, booking)
	assert.ErrorIs(suite.T(), err, ErrShiftHours)
}

func (suite *BookingServiceTestSuite) TestAddPayment_ReconcilesFromLedgerSum() {
	bookingID := uuid.New()
	now := time.Now()
	booking := &models.Booking{
		ID:          bookingID,
		TotalAmount: dec("1180"),
		AmountPaid:  dec("200"),
	}
	payment := &models.Payment{BookingID: bookingID, Amount: dec("300"), Date: now}

	suite.bookingRepo.On("GetByID", suite.ctx, bookingID).Return(booking, nil)
	suite.paymentRepo.On("Create", suite.ctx, payment).Return(nil)
	// The stored 200 plus the new 300: the ledger is the source of truth.
	suite.paymentRepo.On("SumByBooking", suite.ctx, bookingID).Return(dec("500"), &now, nil)
	suite.bookingRepo.On("Update", suite.ctx, booking).Return(nil)

	got, err := suite.service.AddPayment(suite.ctx, payment)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), got.AmountPaid.Equal(dec("500")))
	assert.True(suite.T(), got.PendingAmount.Equal(dec("680")))
	assert.Equal(suite.T(), &now, got.LastPaymentDate)
}

func (suite *BookingServiceTestSuite) TestAddPayment_RejectsNonPositiveAmount() {
	payment := &models.Payment{BookingID: uuid.New(), Amount: decimal.Zero}
	_, err := suite.service.AddPayment(suite.ctx, payment)
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)
}

func (suite *BookingServiceTestSuite) TestUpdatePayment_MoveReconcilesBothBookings() {
	sourceID := uuid.New()
	targetID := uuid.New()
	now := time.Now()

	existing := &models.Payment{ID: uuid.New(), BookingID: sourceID, Amount: dec("300")}
	moved := &models.Payment{ID: existing.ID, BookingID: targetID, Amount: dec("300"), Date: now}

	source := &models.Booking{ID: sourceID, TotalAmount: dec("1000")}
	target := &models.Booking{ID: targetID, TotalAmount: dec("2000")}

	suite.paymentRepo.On("GetByID", suite.ctx, existing.ID).Return(existing, nil)
	suite.bookingRepo.On("GetByID", suite.ctx, targetID).Return(target, nil)
	suite.bookingRepo.On("GetByID", suite.ctx, sourceID).Return(source, nil)
	suite.paymentRepo.On("Update", suite.ctx, moved).Return(nil)
	suite.paymentRepo.On("SumByBooking", suite.ctx, targetID).Return(dec("300"), &now, nil)
	suite.paymentRepo.On("SumByBooking", suite.ctx, sourceID).Return(decimal.Zero, nil, nil)
	suite.bookingRepo.On("Update", suite.ctx, target).Return(nil)
	suite.bookingRepo.On("Update", suite.ctx, source).Return(nil)

	got, err := suite.service.UpdatePayment(suite.ctx, moved)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), got.AmountPaid.Equal(dec("300")))
	assert.True(suite.T(), source.AmountPaid.IsZero())
	assert.True(suite.T(), source.PendingAmount.Equal(dec("1000")))
	assert.Nil(suite.T(), source.LastPaymentDate)
}

func (suite *BookingServiceTestSuite) TestAuditPayments_RepairsDrift() {
	cleanID := uuid.New()
	driftedID := uuid.New()
	now := time.Now()

	clean := &models.Booking{ID: cleanID, TotalAmount: dec("1000"), AmountPaid: dec("400")}
	drifted := &models.Booking{ID: driftedID, TotalAmount: dec("1000"), AmountPaid: dec("999")}

	suite.bookingRepo.On("ListIDs", suite.ctx).Return([]uuid.UUID{cleanID, driftedID}, nil)
	suite.bookingRepo.On("GetByID", suite.ctx, cleanID).Return(clean, nil)
	suite.bookingRepo.On("GetByID", suite.ctx, driftedID).Return(drifted, nil)
	suite.paymentRepo.On("SumByBooking", suite.ctx, cleanID).Return(dec("400"), &now, nil)
	suite.paymentRepo.On("SumByBooking", suite.ctx, driftedID).Return(dec("600"), &now, nil)
	suite.bookingRepo.On("Update", suite.ctx, drifted).Return(nil)

	drifts, err := AuditPayments(suite.ctx, suite.bookingRepo, suite.paymentRepo)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), drifts, 1)
	assert.Equal(suite.T(), driftedID, drifts[0].BookingID)
	assert.True(suite.T(), drifts[0].Stored.Equal(dec("999")))
	assert.True(suite.T(), drifts[0].Computed.Equal(dec("600")))
	assert.True(suite.T(), drifted.AmountPaid.Equal(dec("600")))
	assert.True(suite.T(), drifted.PendingAmount.Equal(dec("400")))
	suite.bookingRepo.AssertNotCalled(suite.T(), "Update", suite.ctx, clean)
}
