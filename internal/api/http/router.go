package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-directory/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Employees   *handlers.EmployeeHandler
	Departments *handlers.DepartmentHandler
	// UploadsDir is served under /uploads when images are stored locally.
	UploadsDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	api := app.Group("/api")
	api.Get("/departments", cfg.Departments.List)

	employees := api.Group("/employees")
	employees.Get("/", cfg.Employees.List)
	employees.Post("/", cfg.Employees.Create)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Put("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)
}
