package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/storage"
	apperrors "github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

const profileImageField = "profileImage"

var errInvalidForm = apperrors.NewValidationError("invalid form data", nil)

var knownFields = map[string]struct{}{
	"name":            {},
	"email":           {},
	"phone":           {},
	"department":      {},
	"salary":          {},
	profileImageField: {},
}

// EmployeeService is the behaviour the employee endpoints depend on.
type EmployeeService interface {
	CreateEmployee(ctx context.Context, draft domain.EmployeeDraft, image *storage.Upload) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch domain.EmployeePatch, image *storage.Upload) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, criteria domain.ListCriteria) (domain.EmployeePage, error)
}

// EmployeeHandler exposes employee CRUD over HTTP.
type EmployeeHandler struct {
	service EmployeeService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(service EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Create POST /api/employees.
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	form, err := readEmployeeForm(c)
	if err != nil {
		return err
	}
	defer form.close()

	draft := domain.EmployeeDraft{
		Name:         form.values["name"],
		Email:        form.values["email"],
		Phone:        form.values["phone"],
		Department:   form.values["department"],
		Salary:       form.values["salary"],
		ProfileImage: form.values[profileImageField],
	}
	emp, err := h.service.CreateEmployee(c.UserContext(), draft, form.image)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{
		Message: "Employee Created",
		Success: true,
		Data:    dto.NewEmployeeResponse(emp),
	})
}

// List GET /api/employees.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	criteria := domain.ListCriteria{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       parseInt(c.Query("page"), domain.DefaultPage),
		PageSize:   parseInt(c.Query("limit"), domain.DefaultPageSize),
	}
	page, err := h.service.ListEmployees(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{
		Message: "Employees retrieved successfully",
		Success: true,
		Data:    dto.NewEmployeeListResponse(page),
	})
}

// Get GET /api/employees/:id.
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	emp, err := h.service.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{
		Message: "Employee Details",
		Success: true,
		Data:    dto.NewEmployeeResponse(emp),
	})
}

// Update PUT /api/employees/:id.
func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	form, err := readEmployeeForm(c)
	if err != nil {
		return err
	}
	defer form.close()

	patch := domain.EmployeePatch{
		Name:         form.field("name"),
		Email:        form.field("email"),
		Phone:        form.field("phone"),
		Department:   form.field("department"),
		Salary:       form.field("salary"),
		ProfileImage: form.field(profileImageField),
	}
	emp, err := h.service.UpdateEmployee(c.UserContext(), c.Params("id"), patch, form.image)
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{
		Message: "Employee Updated Successfully",
		Success: true,
		Data:    dto.NewEmployeeResponse(emp),
	})
}

// Delete DELETE /api/employees/:id.
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteEmployee(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.Envelope{
		Message: "Employee Deleted Successfully",
		Success: true,
	})
}

// employeeForm holds the submitted text fields and the optional image file.
type employeeForm struct {
	values map[string]string
	image  *storage.Upload
	file   multipart.File
}

func (f *employeeForm) field(name string) *string {
	v, ok := f.values[name]
	if !ok {
		return nil
	}
	return &v
}

func (f *employeeForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

// readEmployeeForm accepts multipart bodies, falling back to url-encoded fields when the
// request is not multipart.
func readEmployeeForm(c *fiber.Ctx) (*employeeForm, error) {
	form := &employeeForm{values: map[string]string{}}

	mf, err := c.MultipartForm()
	switch {
	case errors.Is(err, fasthttp.ErrNoMultipartForm):
		if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationForm) {
			return nil, errInvalidForm
		}
		var unknown string
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			name := string(key)
			if _, ok := knownFields[name]; !ok && unknown == "" {
				unknown = name
			}
			if _, seen := form.values[name]; !seen {
				form.values[name] = string(value)
			}
		})
		if unknown != "" {
			return nil, unknownField(unknown)
		}
		return form, nil
	case err != nil:
		return nil, errInvalidForm
	}

	for name, values := range mf.Value {
		if _, ok := knownFields[name]; !ok {
			return nil, unknownField(name)
		}
		if len(values) > 0 {
			form.values[name] = values[0]
		}
	}
	for name, files := range mf.File {
		if name != profileImageField {
			return nil, unknownField(name)
		}
		if len(files) == 0 {
			continue
		}
		fh := files[0]
		file, err := fh.Open()
		if err != nil {
			return nil, errInvalidForm
		}
		form.file = file
		form.image = &storage.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        file,
		}
		// the uploaded file wins over a text reference
		delete(form.values, profileImageField)
	}
	return form, nil
}

func unknownField(name string) error {
	return apperrors.NewValidationError("unknown field: "+name, map[string]any{"field": name})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
