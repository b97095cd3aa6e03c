package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"vertitrack/internal/domain"
)

// AlertFilter narrows alert listings. Zero values mean "no constraint".
type AlertFilter struct {
	ActiveOnly bool
	UnreadOnly bool
	Priorities []domain.Priority
	Category   *domain.AlertCategory
	LiftID     *uuid.UUID
	EmployeeID *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
	// OrderByDue sorts by due date instead of the default priority order.
	OrderByDue bool
}

type AlertRepository interface {
	// Insert stores the alert unless one already exists for the same
	// (category, subject, due date, raised on) key. It reports whether a row
	// was written.
	Insert(ctx context.Context, alert *domain.Alert) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error)
	GetByDailyKey(ctx context.Context, category domain.AlertCategory, subjectKey string, dueDate, raisedOn time.Time) (*domain.Alert, error)
	List(ctx context.Context, filter AlertFilter) ([]domain.Alert, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Dismiss(ctx context.Context, id uuid.UUID, note string, at time.Time) (bool, error)
	ListDismissedBefore(ctx context.Context, cutoff time.Time) ([]domain.Alert, error)
	DeleteDismissed(ctx context.Context, ids []uuid.UUID) (int64, error)
	CountUnread(ctx context.Context) (int64, error)
	CountByPriority(ctx context.Context, priority domain.Priority) (int64, error)
}

type alertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) AlertRepository {
	return &alertRepository{db: db}
}

const alertColumns = `id, category, priority, lift_id, employee_id, subject_key, title, message,
	raised_on, due_date, is_read, read_at, is_active, dismissed_at, resolution_note, created_at`

const priorityOrder = `CASE priority
		WHEN 'CRITICAL' THEN 0
		WHEN 'HIGH' THEN 1
		WHEN 'MEDIUM' THEN 2
		ELSE 3
	END`

func (r *alertRepository) Insert(ctx context.Context, alert *domain.Alert) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO alerts (` + alertColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (category, subject_key, due_date, raised_on) DO NOTHING`)

	result, err := r.db.ExecContext(ctx, query,
		alert.ID, alert.Category, alert.Priority, alert.LiftID, alert.EmployeeID,
		alert.SubjectKey, alert.Title, alert.Message,
		alert.RaisedOn, alert.DueDate, alert.IsRead, alert.ReadAt,
		alert.IsActive, alert.DismissedAt, alert.ResolutionNote, alert.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("inserting alert: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading inserted rows: %w", err)
	}
	return rows > 0, nil
}

func (r *alertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	var alert domain.Alert
	query := r.db.Rebind(`SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`)

	err := r.db.GetContext(ctx, &alert, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting alert %s: %w", id, err)
	}
	return &alert, nil
}

func (r *alertRepository) GetByDailyKey(ctx context.Context, category domain.AlertCategory, subjectKey string, dueDate, raisedOn time.Time) (*domain.Alert, error) {
	var alert domain.Alert
	query := r.db.Rebind(`
		SELECT ` + alertColumns + ` FROM alerts
		WHERE category = ? AND subject_key = ? AND due_date = ? AND raised_on = ?`)

	err := r.db.GetContext(ctx, &alert, query, category, subjectKey, dueDate, raisedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting alert by daily key: %w", err)
	}
	return &alert, nil
}

func (r *alertRepository) List(ctx context.Context, filter AlertFilter) ([]domain.Alert, error) {
	var conditions []string
	var args []interface{}

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.UnreadOnly {
		conditions = append(conditions, "is_read = FALSE")
	}
	if len(filter.Priorities) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Priorities)), ", ")
		conditions = append(conditions, "priority IN ("+placeholders+")")
		for _, p := range filter.Priorities {
			args = append(args, p)
		}
	}
	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.LiftID != nil {
		conditions = append(conditions, "lift_id = ?")
		args = append(args, *filter.LiftID)
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, *filter.EmployeeID)
	}
	if filter.DueFrom != nil {
		conditions = append(conditions, "due_date >= ?")
		args = append(args, *filter.DueFrom)
	}
	if filter.DueTo != nil {
		conditions = append(conditions, "due_date <= ?")
		args = append(args, *filter.DueTo)
	}

	query := "SELECT " + alertColumns + " FROM alerts"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if filter.OrderByDue {
		query += " ORDER BY due_date, " + priorityOrder + ", created_at, id"
	} else {
		query += " ORDER BY " + priorityOrder + ", raised_on, created_at, id"
	}

	alerts := []domain.Alert{}
	if err := r.db.SelectContext(ctx, &alerts, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE alerts SET is_read = TRUE, read_at = ?
		WHERE id = ? AND is_read = FALSE AND is_active = TRUE`)

	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("marking alert %s as read: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *alertRepository) Dismiss(ctx context.Context, id uuid.UUID, note string, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE alerts SET is_active = FALSE, dismissed_at = ?, resolution_note = ?
		WHERE id = ? AND is_active = TRUE`)

	result, err := r.db.ExecContext(ctx, query, at, note, id)
	if err != nil {
		return false, fmt.Errorf("dismissing alert %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (r *alertRepository) ListDismissedBefore(ctx context.Context, cutoff time.Time) ([]domain.Alert, error) {
	query := r.db.Rebind(`
		SELECT ` + alertColumns + ` FROM alerts
		WHERE is_active = FALSE AND dismissed_at <= ?
		ORDER BY dismissed_at, id`)

	alerts := []domain.Alert{}
	if err := r.db.SelectContext(ctx, &alerts, query, cutoff); err != nil {
		return nil, fmt.Errorf("listing dismissed alerts: %w", err)
	}
	return alerts, nil
}

func (r *alertRepository) DeleteDismissed(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	keys := lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() })
	query, args, err := sqlx.In(`DELETE FROM alerts WHERE is_active = FALSE AND id IN (?)`, keys)
	if err != nil {
		return 0, fmt.Errorf("building purge query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("purging dismissed alerts: %w", err)
	}
	return result.RowsAffected()
}

func (r *alertRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM alerts WHERE is_read = FALSE AND is_active = TRUE`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("counting unread alerts: %w", err)
	}
	return count, nil
}

func (r *alertRepository) CountByPriority(ctx context.Context, priority domain.Priority) (int64, error) {
	var count int64
	query := r.db.Rebind(`SELECT COUNT(*) FROM alerts WHERE priority = ? AND is_active = TRUE`)
	if err := r.db.GetContext(ctx, &count, query, priority); err != nil {
		return 0, fmt.Errorf("counting %s alerts: %w", priority, err)
	}
	return count, nil
}
