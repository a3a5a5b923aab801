package repositories

import (
	"context"

	"caretrack/internal/models"

	"github.com/google/uuid"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Employee, error)
	ListCodes(ctx context.Context, prefix string) ([]string, error)
}

type employeeRepo struct {
	db Database
}

func NewEmployeeRepo(db Database) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, employee_code, employ_type, name, contact_no, whatsapp_no, email,
	dob, gender, degree, designation, total_experience, skill_set, temporary_address,
	permanent_address, aadhar_no, photo_key, document_key, bank_name, branch_name, account_no,
	ifsc_code, created_by, updated_by, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	e := &models.Employee{}
	err := row.Scan(&e.ID, &e.EmployeeCode, &e.EmployType, &e.Name, &e.ContactNo, &e.WhatsappNo,
		&e.Email, &e.DOB, &e.Gender, &e.Degree, &e.Designation, &e.TotalExperience, &e.SkillSet,
		&e.TemporaryAddress, &e.PermanentAddress, &e.AadharNo, &e.PhotoKey, &e.DocumentKey,
		&e.BankName, &e.BranchName, &e.AccountNo, &e.IFSCCode, &e.CreatedBy, &e.UpdatedBy,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, employee_code, employ_type, name, contact_no, whatsapp_no, email,
			dob, gender, degree, designation, total_experience, skill_set, temporary_address,
			permanent_address, aadhar_no, photo_key, document_key, bank_name, branch_name,
			account_no, ifsc_code, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, employee.ID, employee.EmployeeCode, employee.EmployType,
		employee.Name, employee.ContactNo, employee.WhatsappNo, employee.Email, employee.DOB,
		employee.Gender, employee.Degree, employee.Designation, employee.TotalExperience,
		employee.SkillSet, employee.TemporaryAddress, employee.PermanentAddress, employee.AadharNo,
		employee.PhotoKey, employee.DocumentKey, employee.BankName, employee.BranchName,
		employee.AccountNo, employee.IFSCCode, employee.CreatedBy, employee.UpdatedBy)
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return scanEmployee(r.db.QueryRow(ctx, query, id))
}

func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET employ_type = $1, name = $2, contact_no = $3, whatsapp_no = $4, email = $5, dob = $6,
			gender = $7, degree = $8, designation = $9, total_experience = $10, skill_set = $11,
			temporary_address = $12, permanent_address = $13, aadhar_no = $14, photo_key = $15,
			document_key = $16, bank_name = $17, branch_name = $18, account_no = $19,
			ifsc_code = $20, updated_by = $21, updated_at = NOW()
		WHERE id = $22
	`
	_, err := r.db.Exec(ctx, query, employee.EmployType, employee.Name, employee.ContactNo,
		employee.WhatsappNo, employee.Email, employee.DOB, employee.Gender, employee.Degree,
		employee.Designation, employee.TotalExperience, employee.SkillSet, employee.TemporaryAddress,
		employee.PermanentAddress, employee.AadharNo, employee.PhotoKey, employee.DocumentKey,
		employee.BankName, employee.BranchName, employee.AccountNo, employee.IFSCCode,
		employee.UpdatedBy, employee.ID)
	return err
}

func (r *employeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return err
}

func (r *employeeRepo) List(ctx context.Context, limit, offset int) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepo) ListCodes(ctx context.Context, prefix string) ([]string, error) {
	return listCodes(ctx, r.db, `SELECT employee_code FROM employees WHERE employee_code LIKE $1`, prefix)
}
