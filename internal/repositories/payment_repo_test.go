package repositories

import (
	"context"
	"testing"
	"time"

	"caretrack/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PaymentRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      PaymentRepository
	bookingID uuid.UUID
	context   context.Context
}

func (suite *PaymentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPaymentRepo(mock)
	suite.bookingID = uuid.New()
	suite.context = context.Background()
}

func (suite *PaymentRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPaymentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepoTestSuite))
}

func (suite *PaymentRepoTestSuite) TestCreate_Success() {
	method := "UPI"
	payment := &models.Payment{
		ID:        uuid.New(),
		BookingID: suite.bookingID,
		Amount:    decimal.NewFromInt(500),
		Date:      time.Now(),
		Method:    &method,
	}

	suite.mock.ExpectExec(`INSERT INTO payments`).
		WithArgs(payment.ID, payment.BookingID, payment.Amount, payment.Date,
			payment.Method, payment.Notes, payment.CreatedBy, payment.UpdatedBy).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, payment)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestSumByBooking_WithPayments() {
	last := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\), MAX\(date\) FROM payments WHERE booking_id = \$1`).
		WithArgs(suite.bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce", "max"}).
			AddRow(decimal.NewFromInt(1500), &last))

	sum, lastDate, err := suite.repo.SumByBooking(suite.context, suite.bookingID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sum.Equal(decimal.NewFromInt(1500)))
	assert.NotNil(suite.T(), lastDate)
	assert.True(suite.T(), lastDate.Equal(last))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestSumByBooking_NoPayments() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\), MAX\(date\) FROM payments WHERE booking_id = \$1`).
		WithArgs(suite.bookingID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce", "max"}).
			AddRow(decimal.Zero, (*time.Time)(nil)))

	sum, lastDate, err := suite.repo.SumByBooking(suite.context, suite.bookingID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sum.IsZero())
	assert.Nil(suite.T(), lastDate)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestListByBooking_OrdersByDate() {
	now := time.Now()
	earlier := now.Add(-24 * time.Hour)
	method := "Cash"

	rows := pgxmock.NewRows([]string{"id", "booking_id", "amount", "date", "method", "notes",
		"created_by", "updated_by", "created_at", "updated_at"}).
		AddRow(uuid.New(), suite.bookingID, decimal.NewFromInt(200), earlier, &method, (*string)(nil),
			(*uuid.UUID)(nil), (*uuid.UUID)(nil), earlier, earlier).
		AddRow(uuid.New(), suite.bookingID, decimal.NewFromInt(300), now, &method, (*string)(nil),
			(*uuid.UUID)(nil), (*uuid.UUID)(nil), now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM payments WHERE booking_id = \$1 ORDER BY date ASC, created_at ASC`).
		WithArgs(suite.bookingID).
		WillReturnRows(rows)

	payments, err := suite.repo.ListByBooking(suite.context, suite.bookingID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), payments, 2)
	assert.True(suite.T(), payments[0].Amount.Equal(decimal.NewFromInt(200)))
	assert.True(suite.T(), payments[1].Amount.Equal(decimal.NewFromInt(300)))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
