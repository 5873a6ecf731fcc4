package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-directory/internal/api/dto"
	"github.com/spec-kit/employee-directory/internal/catalog"
)

// DepartmentHandler serves the suggested department list.
type DepartmentHandler struct {
	catalog *catalog.Departments
}

func NewDepartmentHandler(c *catalog.Departments) *DepartmentHandler {
	return &DepartmentHandler{catalog: c}
}

// List GET /api/departments.
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.Envelope{
		Message: "Departments retrieved successfully",
		Success: true,
		Data: dto.DepartmentsResponse{
			Departments: h.catalog.Names,
			FilterAll:   h.catalog.FilterAll,
		},
	})
}
