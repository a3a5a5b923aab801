package repositories

import (
	"context"
	"fmt"
	"time"

	"caretrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseFilter narrows expense listings. Zero values mean "no filter".
type ExpenseFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ExpenseFilter) ([]*models.Expense, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.Expense, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
	SumByCategory(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
}

type expenseRepo struct {
	db Database
}

func NewExpenseRepo(db Database) ExpenseRepository {
	return &expenseRepo{db: db}
}

const expenseColumns = `id, expense_code, date, booking_id, other_id, category, sub_category,
	expense_amount, created_by, updated_by, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	e := &models.Expense{}
	err := row.Scan(&e.ID, &e.ExpenseCode, &e.Date, &e.BookingID, &e.OtherID, &e.Category,
		&e.SubCategory, &e.ExpenseAmount, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, expense_code, date, booking_id, other_id, category, sub_category,
			expense_amount, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, expense.ID, expense.ExpenseCode, expense.Date,
		expense.BookingID, expense.OtherID, expense.Category, expense.SubCategory,
		expense.ExpenseAmount, expense.CreatedBy, expense.UpdatedBy)
	return err
}

func (r *expenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	return scanExpense(r.db.QueryRow(ctx, query, id))
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET date = $1, booking_id = $2, other_id = $3, category = $4, sub_category = $5,
			expense_amount = $6, updated_by = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, expense.Date, expense.BookingID, expense.OtherID,
		expense.Category, expense.SubCategory, expense.ExpenseAmount, expense.UpdatedBy, expense.ID)
	return err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return err
}

func (r *expenseRepo) List(ctx context.Context, filter ExpenseFilter) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE 1=1`
	args := []any{}
	n := 0
	next := func() string {
		n++
		return fmt.Sprintf("$%d", n)
	}
	if filter.Category != "" {
		query += ` AND category = ` + next()
		args = append(args, filter.Category)
	}
	if filter.From != nil {
		query += ` AND date >= ` + next()
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += ` AND date <= ` + next()
		args = append(args, *filter.To)
	}
	query += ` ORDER BY date DESC LIMIT ` + next()
	args = append(args, filter.Limit)
	query += ` OFFSET ` + next()
	args = append(args, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *expenseRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE booking_id = $1 ORDER BY date DESC`
	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *expenseRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT expense_code FROM expenses WHERE expense_code LIKE $1`, prefix)
}

// SumByCategory aggregates spend per category inside a date range for the
// dashboard.
func (r *expenseRepo) SumByCategory(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, COALESCE(SUM(expense_amount), 0)
		FROM expenses
		WHERE date >= $1 AND date <= $2
		GROUP BY category
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var category string
		var sum decimal.Decimal
		if err := rows.Scan(&category, &sum); err != nil {
			return nil, err
		}
		totals[category] = sum
	}
	return totals, rows.Err()
}
