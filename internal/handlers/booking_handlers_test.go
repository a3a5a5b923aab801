package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) GetByCode(ctx context.Context, code string) (*models.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) Update(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingService) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) AddPayment(ctx context.Context, payment *models.Payment) (*models.Booking, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) UpdatePayment(ctx context.Context, payment *models.Payment) (*models.Booking, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) ListPayments(ctx context.Context, bookingID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

// BookingHandlersTestSuite drives the handlers through registered echo
// routes so path parameter wiring is covered, not just the handler bodies.
type BookingHandlersTestSuite struct {
	suite.Suite
	bookingService *MockBookingService
	echo           *echo.Echo
}

func (suite *BookingHandlersTestSuite) SetupTest() {
	suite.bookingService = new(MockBookingService)
	h := NewBookingHandlers(suite.bookingService, nil)

	suite.echo = echo.New()
	suite.echo.POST("/v1/bookings", h.CreateBooking)
	suite.echo.GET("/v1/bookings/code/:code", h.GetBookingByCode)
	suite.echo.POST("/v1/bookings/:id/payments", h.AddPayment)
	suite.echo.PUT("/v1/bookings/:id/payments/:paymentID", h.UpdatePayment)
}

func TestBookingHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlersTestSuite))
}

func (suite *BookingHandlersTestSuite) jsonRequest(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *BookingHandlersTestSuite) TestUpdatePayment_RouteParamsReachService() {
	bookingID := uuid.New()
	paymentID := uuid.New()
	booking := &models.Booking{ID: bookingID}

	var got *models.Payment
	suite.bookingService.On("UpdatePayment", mock.Anything, mock.AnythingOfType("*models.Payment")).
		Run(func(args mock.Arguments) { got = args.Get(1).(*models.Payment) }).
		Return(booking, nil)

	rec := suite.jsonRequest(http.MethodPut,
		"/v1/bookings/"+bookingID.String()+"/payments/"+paymentID.String(),
		`{"amount":"250","date":"2025-03-01"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(suite.T(), got)
	assert.Equal(suite.T(), paymentID, got.ID)
	assert.Equal(suite.T(), bookingID, got.BookingID)
	assert.True(suite.T(), got.Amount.Equal(decimal.NewFromInt(250)))
}

func (suite *BookingHandlersTestSuite) TestUpdatePayment_BodyBookingIDMovesPayment() {
	sourceID := uuid.New()
	targetID := uuid.New()
	paymentID := uuid.New()
	booking := &models.Booking{ID: targetID}

	var got *models.Payment
	suite.bookingService.On("UpdatePayment", mock.Anything, mock.AnythingOfType("*models.Payment")).
		Run(func(args mock.Arguments) { got = args.Get(1).(*models.Payment) }).
		Return(booking, nil)

	rec := suite.jsonRequest(http.MethodPut,
		"/v1/bookings/"+sourceID.String()+"/payments/"+paymentID.String(),
		`{"amount":"250","date":"2025-03-01","booking_id":"`+targetID.String()+`"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), targetID, got.BookingID)
}

func (suite *BookingHandlersTestSuite) TestAddPayment_MissingDateDefaultsToNow() {
	bookingID := uuid.New()
	booking := &models.Booking{ID: bookingID}

	var got *models.Payment
	suite.bookingService.On("AddPayment", mock.Anything, mock.AnythingOfType("*models.Payment")).
		Run(func(args mock.Arguments) { got = args.Get(1).(*models.Payment) }).
		Return(booking, nil)

	rec := suite.jsonRequest(http.MethodPost,
		"/v1/bookings/"+bookingID.String()+"/payments", `{"amount":"100"}`)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)
	assert.WithinDuration(suite.T(), time.Now(), got.Date, time.Minute)
}

func (suite *BookingHandlersTestSuite) TestCreateBooking_ForwardsUpfrontPayment() {
	var got *models.Booking
	suite.bookingService.On("Create", mock.Anything, mock.AnythingOfType("*models.Booking")).
		Run(func(args mock.Arguments) { got = args.Get(1).(*models.Booking) }).
		Return(nil)

	rec := suite.jsonRequest(http.MethodPost, "/v1/bookings",
		`{"customer_name":"Asha Rao","charge_type":"Fixed charge","service_charge":"1000","amount_paid":"400"}`)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(suite.T(), got.AmountPaid.Equal(decimal.NewFromInt(400)))
}

func (suite *BookingHandlersTestSuite) TestGetBookingByCode() {
	booking := &models.Booking{ID: uuid.New(), BookingCode: "BOOK-042"}
	suite.bookingService.On("GetByCode", mock.Anything, "BOOK-042").Return(booking, nil)

	rec := suite.jsonRequest(http.MethodGet, "/v1/bookings/code/BOOK-042", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "BOOK-042")
}
