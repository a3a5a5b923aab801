package services

import (
	"context"
	"errors"
	"time"

	"caretrack/internal/codegen"
	"caretrack/internal/models"
	"caretrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrExpenseAmount = errors.New("expense amount must be greater than zero")

type ExpenseService interface {
	Create(ctx context.Context, expense *models.Expense) error
	Get(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repositories.ExpenseFilter) ([]*models.Expense, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.Expense, error)
	CategoryTotals(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
}

type expenseService struct {
	repo        repositories.ExpenseRepository
	bookingRepo repositories.BookingRepository
}

func NewExpenseService(repo repositories.ExpenseRepository, bookingRepo repositories.BookingRepository) ExpenseService {
	return &expenseService{repo: repo, bookingRepo: bookingRepo}
}

func (s *expenseService) Create(ctx context.Context, expense *models.Expense) error {
	if !expense.ExpenseAmount.IsPositive() {
		return ErrExpenseAmount
	}
	if expense.BookingID != nil {
		if _, err := s.bookingRepo.GetByID(ctx, *expense.BookingID); err != nil {
			return err
		}
	}
	expense.ID = uuid.New()
	for attempt := 0; attempt < codeRetries; attempt++ {
		codes, err := s.repo.ListCodes(ctx, codegen.ExpensePrefix)
		if err != nil {
			return err
		}
		expense.ExpenseCode = codegen.Next(codegen.ExpensePrefix, codegen.EntityWidth, codes)
		err = s.repo.Create(ctx, expense)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
	}
	return ErrCodeExhausted
}

func (s *expenseService) Get(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *expenseService) Update(ctx context.Context, expense *models.Expense) error {
	if !expense.ExpenseAmount.IsPositive() {
		return ErrExpenseAmount
	}
	existing, err := s.repo.GetByID(ctx, expense.ID)
	if err != nil {
		return err
	}
	expense.ExpenseCode = existing.ExpenseCode
	if expense.BookingID != nil {
		if _, err := s.bookingRepo.GetByID(ctx, *expense.BookingID); err != nil {
			return err
		}
	}
	return s.repo.Update(ctx, expense)
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *expenseService) List(ctx context.Context, filter repositories.ExpenseFilter) ([]*models.Expense, error) {
	return s.repo.List(ctx, filter)
}

func (s *expenseService) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.Expense, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *expenseService) CategoryTotals(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	return s.repo.SumByCategory(ctx, from, to)
}
