package dto

import (
	"time"

	"github.com/spec-kit/employee-directory/internal/domain"
)

// Envelope is the body shape of every API response.
type Envelope struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Data    interface{}    `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// EmployeeResponse is the wire form of an employee record.
type EmployeeResponse struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Department   string    `json:"department"`
	Salary       float64   `json:"salary"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Pagination describes where a listing page sits in the full result.
type Pagination struct {
	TotalEmployees int64 `json:"totalEmployees"`
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	PageSize       int   `json:"pageSize"`
}

// EmployeeListResponse is the data payload of GET /api/employees.
type EmployeeListResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	Pagination Pagination         `json:"pagination"`
}

// DepartmentsResponse lists suggested departments and the filter sentinel.
type DepartmentsResponse struct {
	Departments []string `json:"departments"`
	FilterAll   string   `json:"filterAll"`
}

// NewEmployeeResponse maps a domain record.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone,
		Department:   e.Department,
		Salary:       e.Salary.InexactFloat64(),
		ProfileImage: e.ProfileImage,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// NewEmployeeListResponse maps a listing page.
func NewEmployeeListResponse(page domain.EmployeePage) EmployeeListResponse {
	items := make([]EmployeeResponse, 0, len(page.Employees))
	for i := range page.Employees {
		items = append(items, NewEmployeeResponse(&page.Employees[i]))
	}
	return EmployeeListResponse{
		Employees: items,
		Pagination: Pagination{
			TotalEmployees: page.TotalCount,
			CurrentPage:    page.CurrentPage,
			TotalPages:     page.TotalPages,
			PageSize:       page.PageSize,
		},
	}
}
