package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	imagePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)
)

// Validate checks the draft and returns the normalized record it describes.
// Identifier and timestamps are left for the store.
func (d EmployeeDraft) Validate() (*Employee, error) {
	name := strings.TrimSpace(d.Name)
	email := strings.TrimSpace(d.Email)
	phone := strings.TrimSpace(d.Phone)
	department := strings.TrimSpace(d.Department)
	salaryText := strings.TrimSpace(d.Salary)

	if name == "" || email == "" || phone == "" || department == "" || salaryText == "" {
		return nil, ErrFieldsRequired
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	salary, err := parseSalary(salaryText)
	if err != nil {
		return nil, err
	}

	emp := &Employee{
		Name:       name,
		Email:      email,
		Phone:      phone,
		Department: department,
		Salary:     salary,
	}
	if ref := strings.TrimSpace(d.ProfileImage); ref != "" {
		if !IsImageReference(ref) {
			return nil, ErrUnsupportedImage
		}
		emp.ProfileImage = &ref
	}
	return emp, nil
}

// Salaries are stored as NUMERIC(14,2).
const (
	maxSalaryText   = 32
	salaryScale     = 2
	salaryIntDigits = 12
)

var maxSalary = decimal.New(1, salaryIntDigits)

// parseSalary accepts non-negative amounts the salary column holds exactly. Exponent and
// length are bounded before any comparison so rescaling stays cheap.
func parseSalary(text string) (decimal.Decimal, error) {
	if len(text) > maxSalaryText {
		return decimal.Decimal{}, ErrSalaryOutOfRange
	}
	salary, err := decimal.NewFromString(text)
	if err != nil || salary.IsNegative() {
		return decimal.Decimal{}, ErrInvalidSalary
	}
	if salary.IsZero() {
		return decimal.Zero, nil
	}
	exp := salary.Exponent()
	if exp > salaryIntDigits || exp < -(maxSalaryText+salaryScale) {
		return decimal.Decimal{}, ErrSalaryOutOfRange
	}
	if !salary.Equal(salary.Truncate(salaryScale)) || !salary.LessThan(maxSalary) {
		return decimal.Decimal{}, ErrSalaryOutOfRange
	}
	return salary, nil
}

// IsImageReference reports whether ref ends in a recognized image extension.
func IsImageReference(ref string) bool {
	return imagePattern.MatchString(ref)
}
