package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vertitrack/internal/domain"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record *domain.Attendance) error
	FindAbsentOn(ctx context.Context, date time.Time) ([]domain.Attendance, error)
}

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *domain.Attendance) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO attendance (id, employee_id, attendance_date, status, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.EmployeeID, domain.DateOf(record.AttendanceDate),
		record.Status, record.Remarks, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating attendance record: %w", err)
	}
	return nil
}

func (r *attendanceRepository) FindAbsentOn(ctx context.Context, date time.Time) ([]domain.Attendance, error) {
	query := r.db.Rebind(`
		SELECT id, employee_id, attendance_date, status, remarks, created_at
		FROM attendance
		WHERE attendance_date = ? AND status = ?
		ORDER BY employee_id`)

	records := []domain.Attendance{}
	if err := r.db.SelectContext(ctx, &records, query, domain.DateOf(date), domain.AttendanceAbsent); err != nil {
		return nil, fmt.Errorf("finding absences on %s: %w", date.Format(domain.DateLayout), err)
	}
	return records, nil
}
