package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the persisted directory record.
type Employee struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Department   string
	Salary       decimal.Decimal
	ProfileImage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmployeeDraft is a candidate record as submitted, before validation.
type EmployeeDraft struct {
	Name         string
	Email        string
	Phone        string
	Department   string
	Salary       string
	ProfileImage string
}

// EmployeePatch carries the fields supplied on update. Nil means "keep the stored value".
type EmployeePatch struct {
	Name         *string
	Email        *string
	Phone        *string
	Department   *string
	Salary       *string
	ProfileImage *string
}

// DraftFrom renders a stored employee back into draft form so a patch can be merged onto it.
func DraftFrom(e *Employee) EmployeeDraft {
	d := EmployeeDraft{
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Department: e.Department,
		Salary:     e.Salary.String(),
	}
	if e.ProfileImage != nil {
		d.ProfileImage = *e.ProfileImage
	}
	return d
}

// Apply overlays the supplied fields onto d.
func (p EmployeePatch) Apply(d EmployeeDraft) EmployeeDraft {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.Department != nil {
		d.Department = *p.Department
	}
	if p.Salary != nil {
		d.Salary = *p.Salary
	}
	if p.ProfileImage != nil {
		d.ProfileImage = *p.ProfileImage
	}
	return d
}

// IsEmpty reports whether no field was supplied.
func (p EmployeePatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.Department == nil && p.Salary == nil && p.ProfileImage == nil
}

// NextUpdatedAt returns now, or the smallest representable instant after prev when the
// clock has not advanced past it. Postgres keeps microsecond precision.
func NextUpdatedAt(prev, now time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if !next.After(prev) {
		next = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return next
}
