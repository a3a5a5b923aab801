package services

import (
	"context"
	"testing"

	"caretrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newFinanceServiceForValidation() FinanceService {
	// Validation failures short-circuit before any repository or
	// transaction is touched.
	return NewFinanceService(nil, nil, nil, nil, nil, nil, nil, nil)
}

func TestCreatePaymentReceived_RejectsNonPositiveAmount(t *testing.T) {
	svc := newFinanceServiceForValidation()
	p := &models.PaymentReceived{CustomerName: "Asha Rao", Amount: decimal.Zero}

	err := svc.CreatePaymentReceived(context.Background(), p)
	assert.ErrorIs(t, err, ErrAmountRequired)
}

func TestCreatePaymentReceived_RejectsTDSOutOfRange(t *testing.T) {
	svc := newFinanceServiceForValidation()

	p := &models.PaymentReceived{
		CustomerName:  "Asha Rao",
		Amount:        decimal.NewFromInt(1000),
		TDSPercentage: decimal.NewFromInt(101),
	}
	err := svc.CreatePaymentReceived(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidTDS)

	p.TDSPercentage = decimal.NewFromInt(-1)
	err = svc.CreatePaymentReceived(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidTDS)
}

func TestCreatePaymentMade_RejectsTDSOutOfRange(t *testing.T) {
	svc := newFinanceServiceForValidation()

	p := &models.PaymentMade{
		PayeeName:     "Vendor Ltd",
		Amount:        decimal.NewFromInt(1000),
		TDSPercentage: decimal.NewFromInt(150),
	}
	err := svc.CreatePaymentMade(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidTDS)
}

func TestCreateAccount_RejectsUnknownType(t *testing.T) {
	svc := newFinanceServiceForValidation()

	account := &models.ChartOfAccount{
		AccountCode: "1001",
		AccountName: "Petty Cash",
		AccountType: "Imaginary",
	}
	err := svc.CreateAccount(context.Background(), account)
	assert.ErrorIs(t, err, ErrInvalidAccountType)
}

func TestValidAccountType(t *testing.T) {
	for _, typ := range models.AccountTypes {
		assert.True(t, models.ValidAccountType(typ))
	}
	assert.False(t, models.ValidAccountType("asset")) // case sensitive
}
