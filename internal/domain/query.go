package domain

import "strings"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// AllDepartments is the filter sentinel meaning "no department restriction".
	AllDepartments = "All"
)

// ListCriteria selects a page of employees.
type ListCriteria struct {
	Search     string
	Department string
	Page       int
	PageSize   int
}

// Normalize applies defaults and bounds.
func (c ListCriteria) Normalize() ListCriteria {
	c.Search = strings.TrimSpace(c.Search)
	c.Department = strings.TrimSpace(c.Department)
	if c.Department == AllDepartments {
		c.Department = ""
	}
	if c.Page < 1 {
		c.Page = DefaultPage
	}
	if c.PageSize < 1 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > MaxPageSize {
		c.PageSize = MaxPageSize
	}
	return c
}

// Offset is the number of matching records preceding the requested page. Only call it once
// PastEnd has ruled out pages whose offset would not fit in an int.
func (c ListCriteria) Offset() int {
	return (c.Page - 1) * c.PageSize
}

// PastEnd reports whether the requested page starts after the last of total records.
func (c ListCriteria) PastEnd(total int64) bool {
	if total <= 0 {
		return true
	}
	return int64(c.Page-1) >= totalPages(total, c.PageSize)
}

func totalPages(total int64, pageSize int) int64 {
	if total <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}

// EmployeePage is one page of a listing plus its pagination metadata.
type EmployeePage struct {
	Employees   []Employee
	TotalCount  int64
	CurrentPage int
	TotalPages  int
	PageSize    int
}

// NewEmployeePage assembles a page for normalized criteria.
func NewEmployeePage(employees []Employee, total int64, c ListCriteria) EmployeePage {
	if employees == nil {
		employees = []Employee{}
	}
	return EmployeePage{
		Employees:   employees,
		TotalCount:  total,
		CurrentPage: c.Page,
		TotalPages:  int(totalPages(total, c.PageSize)),
		PageSize:    c.PageSize,
	}
}
