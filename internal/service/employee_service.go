package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/events"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/storage"
)

// ImageAttacher stores an uploaded image and returns its reference URL.
type ImageAttacher interface {
	Attach(ctx context.Context, upload storage.Upload) (string, error)
}

// EmployeeService coordinates validation, image attachment and persistence.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	images     ImageAttacher
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// EmployeeDependencies bundles collaborators for the employee service.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Images       ImageAttacher
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Clock        func() time.Time
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	svc := &EmployeeService{
		employees:  deps.EmployeeRepo,
		images:     deps.Images,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// CreateEmployee validates the draft, stores the optional image, then inserts the record.
// The image is only uploaded once every other field has passed validation.
func (s *EmployeeService) CreateEmployee(ctx context.Context, draft domain.EmployeeDraft, image *storage.Upload) (*domain.Employee, error) {
	if image != nil {
		draft.ProfileImage = ""
		ref, err := s.attach(ctx, draft, image)
		if err != nil {
			return nil, err
		}
		draft.ProfileImage = ref
	}

	emp, err := draft.Validate()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	emp.CreatedAt = now
	emp.UpdatedAt = now

	created, err := s.employees.Create(ctx, emp)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEmployeeCreated, created.ID, changedPayload(created, nil))
	return created, nil
}

// GetEmployee returns a single record.
func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// UpdateEmployee merges the patch onto the stored record, re-validates the result and
// writes it with a refreshed updatedAt.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, patch domain.EmployeePatch, image *storage.Upload) (*domain.Employee, error) {
	existing, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() && image == nil {
		return nil, domain.ErrNothingToUpdate
	}

	merged := patch.Apply(domain.DraftFrom(existing))
	if image != nil {
		merged.ProfileImage = ""
		ref, err := s.attach(ctx, merged, image)
		if err != nil {
			return nil, err
		}
		merged.ProfileImage = ref
	}

	emp, err := merged.Validate()
	if err != nil {
		return nil, err
	}
	emp.ID = existing.ID
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = domain.NextUpdatedAt(existing.UpdatedAt, s.now())

	updated, err := s.employees.Update(ctx, emp)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventEmployeeUpdated, updated.ID, changedPayload(updated, existing))
	return updated, nil
}

// DeleteEmployee removes the record permanently.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventEmployeeDeleted, id, nil)
	return nil
}

// ListEmployees returns one page of employees matching the criteria.
func (s *EmployeeService) ListEmployees(ctx context.Context, criteria domain.ListCriteria) (domain.EmployeePage, error) {
	criteria = criteria.Normalize()
	employees, total, err := s.employees.List(ctx, criteria)
	if err != nil {
		return domain.EmployeePage{}, err
	}
	return domain.NewEmployeePage(employees, total, criteria), nil
}

func (s *EmployeeService) attach(ctx context.Context, draft domain.EmployeeDraft, image *storage.Upload) (string, error) {
	if _, err := draft.Validate(); err != nil {
		return "", err
	}
	return s.images.Attach(ctx, *image)
}

func (s *EmployeeService) publish(ctx context.Context, eventType events.EventType, employeeID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EmployeeID: employeeID,
		Timestamp:  s.now().UTC(),
		Payload:    payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(eventType)),
			zap.String("employee_id", employeeID),
			zap.Error(err))
	}
}

func changedPayload(current, previous *domain.Employee) events.EmployeeChangedPayload {
	payload := events.EmployeeChangedPayload{
		Name:       current.Name,
		Email:      current.Email,
		Department: current.Department,
	}
	if previous == nil {
		return payload
	}
	if current.Name != previous.Name {
		payload.ChangedFields = append(payload.ChangedFields, "name")
	}
	if current.Email != previous.Email {
		payload.ChangedFields = append(payload.ChangedFields, "email")
	}
	if current.Phone != previous.Phone {
		payload.ChangedFields = append(payload.ChangedFields, "phone")
	}
	if current.Department != previous.Department {
		payload.ChangedFields = append(payload.ChangedFields, "department")
	}
	if !current.Salary.Equal(previous.Salary) {
		payload.ChangedFields = append(payload.ChangedFields, "salary")
	}
	if derefString(current.ProfileImage) != derefString(previous.ProfileImage) {
		payload.ChangedFields = append(payload.ChangedFields, "profileImage")
	}
	return payload
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
