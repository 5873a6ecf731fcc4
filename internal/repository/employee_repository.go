package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/pkg/util/errorutil"
)

const uniqueViolationCode = "23505"

const employeeColumns = `id, name, email, phone, department, salary, profile_image, created_at, updated_at`

// EmployeeRepository encapsulates employee persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context, criteria domain.ListCriteria) ([]domain.Employee, int64, error)
}

type employeeRepository struct {
	pool Queryer
}

// NewEmployeeRepository returns a Postgres-backed implementation.
func NewEmployeeRepository(pool Queryer) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

// Create inserts the employee. Email and phone uniqueness is decided by the table's
// unique constraints within the INSERT itself.
func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
        INSERT INTO employees (` + employeeColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING ` + employeeColumns

	row := r.pool.QueryRow(ctx, query,
		id,
		e.Name,
		e.Email,
		e.Phone,
		e.Department,
		e.Salary,
		e.ProfileImage,
		e.CreatedAt,
		e.UpdatedAt,
	)
	created, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return created, nil
}

func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	if !validID(e.ID) {
		return nil, domain.ErrEmployeeNotFound
	}
	query := `
        UPDATE employees SET name=$1, email=$2, phone=$3, department=$4, salary=$5,
            profile_image=$6, updated_at=$7
        WHERE id=$8
        RETURNING ` + employeeColumns

	row := r.pool.QueryRow(ctx, query,
		e.Name,
		e.Email,
		e.Phone,
		e.Department,
		e.Salary,
		e.ProfileImage,
		e.UpdatedAt,
		e.ID,
	)
	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return updated, nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrEmployeeNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if !validID(id) {
		return nil, domain.ErrEmployeeNotFound
	}
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	found, err := scanEmployee(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translatePgError(err)
	}
	return found, nil
}

// List returns the requested page and the number of records matching the criteria.
// criteria must already be normalized.
func (r *employeeRepository) List(ctx context.Context, criteria domain.ListCriteria) ([]domain.Employee, int64, error) {
	where, args := buildEmployeeFilter(criteria)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	if criteria.PastEnd(total) {
		return []domain.Employee{}, total, nil
	}
	offset := criteria.Offset()

	args = append(args, criteria.PageSize)
	limitPlaceholder := len(args)
	args = append(args, offset)
	offsetPlaceholder := len(args)

	query := fmt.Sprintf(`SELECT %s FROM employees%s ORDER BY updated_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		employeeColumns, where, limitPlaceholder, offsetPlaceholder)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0, criteria.PageSize)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	return employees, total, nil
}

func buildEmployeeFilter(criteria domain.ListCriteria) (string, []any) {
	clauses := []string{}
	args := []any{}

	if criteria.Search != "" {
		args = append(args, "%"+escapeLike(criteria.Search)+"%")
		clauses = append(clauses, fmt.Sprintf(`name ILIKE $%d ESCAPE '\'`, len(args)))
	}
	if criteria.Department != "" && criteria.Department != domain.AllDepartments {
		args = append(args, criteria.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var (
		emp          domain.Employee
		profileImage sql.NullString
	)
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.Phone,
		&emp.Department,
		&emp.Salary,
		&profileImage,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if profileImage.Valid {
		ref := profileImage.String
		emp.ProfileImage = &ref
	}
	return &emp, nil
}

func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrEmployeeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if field := constraintField(pgErr); field != "" {
			return errorutil.NewConflict(field)
		}
	}
	return err
}

func constraintField(pgErr *pgconn.PgError) string {
	source := pgErr.ConstraintName
	if source == "" {
		source = pgErr.Detail
	}
	switch {
	case strings.Contains(source, domain.FieldEmail):
		return domain.FieldEmail
	case strings.Contains(source, domain.FieldPhone):
		return domain.FieldPhone
	default:
		return ""
	}
}
