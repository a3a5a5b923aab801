package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"caretrack/internal/common"
	"caretrack/internal/models"
	"caretrack/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

const presignExpiry = 15 * time.Minute

// EmployeeHandlers handles employee records and their stored files.
type EmployeeHandlers struct {
	employeeService services.EmployeeService
	minioService    services.MinioService
	bucket          string
}

func NewEmployeeHandlers(employeeService services.EmployeeService, minioService services.MinioService, bucket string) *EmployeeHandlers {
	return &EmployeeHandlers{employeeService: employeeService, minioService: minioService, bucket: bucket}
}

type employeeRequest struct {
	EmployType       *string `json:"employ_type"`
	Name             string  `json:"name"`
	ContactNo        string  `json:"contact_no"`
	WhatsappNo       *string `json:"whatsapp_no"`
	Email            *string `json:"email"`
	DOB              string  `json:"dob"`
	Gender           *string `json:"gender"`
	Degree           *string `json:"degree"`
	Designation      *string `json:"designation"`
	TotalExperience  *string `json:"total_experience"`
	SkillSet         *string `json:"skill_set"`
	TemporaryAddress *string `json:"temporary_address"`
	PermanentAddress *string `json:"permanent_address"`
	AadharNo         *string `json:"aadhar_no"`
	BankName         *string `json:"bank_name"`
	BranchName       *string `json:"branch_name"`
	AccountNo        *string `json:"account_no"`
	IFSCCode         *string `json:"ifsc_code"`
}

func employeeFromRequest(c echo.Context, req *employeeRequest) (*models.Employee, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.ContactNo, "contact_no"); err != nil {
		return nil, err
	}
	dob, err := common.ParseDate(req.DOB, "dob")
	if err != nil {
		return nil, err
	}
	employee := &models.Employee{
		EmployType:       req.EmployType,
		Name:             req.Name,
		ContactNo:        req.ContactNo,
		WhatsappNo:       req.WhatsappNo,
		Email:            req.Email,
		DOB:              dob,
		Gender:           req.Gender,
		Degree:           req.Degree,
		Designation:      req.Designation,
		TotalExperience:  req.TotalExperience,
		SkillSet:         req.SkillSet,
		TemporaryAddress: req.TemporaryAddress,
		PermanentAddress: req.PermanentAddress,
		AadharNo:         req.AadharNo,
		BankName:         req.BankName,
		BranchName:       req.BranchName,
		AccountNo:        req.AccountNo,
		IFSCCode:         req.IFSCCode,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok {
		employee.UpdatedBy = &userID
	}
	return employee, nil
}

// CreateEmployee handles POST /employees
func (h *EmployeeHandlers) CreateEmployee(c echo.Context) error {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	employee, err := employeeFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	employee.CreatedBy = employee.UpdatedBy
	if err := h.employeeService.Create(c.Request().Context(), employee); err != nil {
		if errors.Is(err, services.ErrCodeExhausted) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil))
		}
		return common.SendServerError(c, "Failed to create employee")
	}
	return c.JSON(http.StatusCreated, employee)
}

// GetEmployee handles GET /employees/:id
func (h *EmployeeHandlers) GetEmployee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid employee id")
	}
	employee, err := h.employeeService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Employee")
		}
		return common.SendServerError(c, "Failed to load employee")
	}
	return c.JSON(http.StatusOK, employee)
}

// UpdateEmployee handles PUT /employees/:id
func (h *EmployeeHandlers) UpdateEmployee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid employee id")
	}
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	employee, err := employeeFromRequest(c, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	employee.ID = id
	if err := h.employeeService.Update(c.Request().Context(), employee); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Employee")
		}
		return common.SendServerError(c, "Failed to update employee")
	}
	return c.JSON(http.StatusOK, employee)
}

// DeleteEmployee handles DELETE /employees/:id
func (h *EmployeeHandlers) DeleteEmployee(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid employee id")
	}
	if err := h.employeeService.Delete(c.Request().Context(), id); err != nil {
		return common.SendServerError(c, "Failed to delete employee")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEmployees handles GET /employees
func (h *EmployeeHandlers) ListEmployees(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	employees, err := h.employeeService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list employees")
	}
	return c.JSON(http.StatusOK, employees)
}

// UploadFile handles POST /employees/:id/files/:kind with a multipart file.
// kind is "photo" or "document". The object key is stored on the employee.
func (h *EmployeeHandlers) UploadFile(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid employee id")
	}
	kind := c.Param("kind")
	if kind != "photo" && kind != "document" {
		return common.SendValidationError(c, "kind", "must be photo or document")
	}
	employee, err := h.employeeService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Employee")
		}
		return common.SendServerError(c, "Failed to load employee")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer file.Close()

	objectName := fmt.Sprintf("employees/%s/%s%s", id, kind, filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.minioService.Upload(ctx, h.bucket, objectName, contentType, file, fileHeader.Size); err != nil {
		return common.SendServerError(c, "Upload failed")
	}

	if kind == "photo" {
		employee.PhotoKey = &objectName
	} else {
		employee.DocumentKey = &objectName
	}
	if err := h.employeeService.Update(ctx, employee); err != nil {
		return common.SendServerError(c, "Failed to save file reference")
	}
	return c.JSON(http.StatusOK, map[string]string{"key": objectName})
}

// FileURL handles GET /employees/:id/files/:kind and returns a short-lived
// presigned URL.
func (h *EmployeeHandlers) FileURL(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "invalid employee id")
	}
	employee, err := h.employeeService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Employee")
		}
		return common.SendServerError(c, "Failed to load employee")
	}

	var key *string
	switch c.Param("kind") {
	case "photo":
		key = employee.PhotoKey
	case "document":
		key = employee.DocumentKey
	default:
		return common.SendValidationError(c, "kind", "must be photo or document")
	}
	if key == nil {
		return common.SendNotFoundError(c, "File")
	}
	url, err := h.minioService.GetPresignedURL(ctx, h.bucket, *key, presignExpiry)
	if err != nil {
		return common.SendServerError(c, "Failed to sign url")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
