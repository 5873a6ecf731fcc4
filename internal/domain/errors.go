package domain

import "github.com/spec-kit/employee-directory/pkg/util/errorutil"

var (
	ErrFieldsRequired   = errorutil.NewValidationError("all fields required", nil)
	ErrInvalidEmail     = errorutil.NewValidationError("invalid email format", nil)
	ErrInvalidPhone     = errorutil.NewValidationError("phone must be 10 digits", nil)
	ErrInvalidSalary    = errorutil.NewValidationError("salary must be a non-negative number", nil)
	ErrSalaryOutOfRange = errorutil.NewValidationError("salary must be below 1000000000000 with at most 2 decimal places", nil)
	ErrNothingToUpdate  = errorutil.NewValidationError("no fields to update", nil)
	ErrUnsupportedImage = errorutil.NewValidationError("unsupported image format", nil)
	ErrEmployeeNotFound = errorutil.NewNotFound("Employee", nil)
)

// Fields guarded by unique constraints.
const (
	FieldEmail = "email"
	FieldPhone = "phone"
)
