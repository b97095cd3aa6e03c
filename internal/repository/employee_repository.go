package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vertitrack/internal/domain"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
}

type employeeRepository struct {
	db *sqlx.DB
}

func NewEmployeeRepository(db *sqlx.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	if employee.Status == "" {
		employee.Status = "ACTIVE"
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO employees (id, employee_code, first_name, last_name, designation, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		employee.ID, employee.EmployeeCode, employee.FirstName, employee.LastName,
		employee.Designation, employee.Status, employee.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var employee domain.Employee
	query := r.db.Rebind(`
		SELECT id, employee_code, first_name, last_name, designation, status, created_at
		FROM employees WHERE id = ?`)

	err := r.db.GetContext(ctx, &employee, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting employee %s: %w", id, err)
	}
	return &employee, nil
}
