package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.ChartOfAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ChartOfAccount, error)
	Update(ctx context.Context, account *models.ChartOfAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.ChartOfAccount, error)
}

type accountRepo struct {
	db Database
}

func NewAccountRepo(db Database) AccountRepository {
	return &accountRepo{db: db}
}

const accountColumns = `id, account_code, account_name, account_type, description, created_by,
	updated_by, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.ChartOfAccount, error) {
	a := &models.ChartOfAccount{}
	err := row.Scan(&a.ID, &a.AccountCode, &a.AccountName, &a.AccountType, &a.Description,
		&a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepo) Create(ctx context.Context, account *models.ChartOfAccount) error {
	query := `
		INSERT INTO chart_of_accounts (id, account_code, account_name, account_type, description,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, account.ID, account.AccountCode, account.AccountName,
		account.AccountType, account.Description, account.CreatedBy, account.UpdatedBy)
	return err
}

func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ChartOfAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepo) Update(ctx context.Context, account *models.ChartOfAccount) error {
	query := `
		UPDATE chart_of_accounts
		SET account_code = $1, account_name = $2, account_type = $3, description = $4,
			updated_by = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, account.AccountCode, account.AccountName,
		account.AccountType, account.Description, account.UpdatedBy, account.ID)
	return err
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chart_of_accounts WHERE id = $1`, id)
	return err
}

func (r *accountRepo) List(ctx context.Context) ([]*models.ChartOfAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM chart_of_accounts ORDER BY account_code ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.ChartOfAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
