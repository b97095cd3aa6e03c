package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vertitrack/internal/domain"
)

type ServiceRecordRepository interface {
	Create(ctx context.Context, record *domain.ServiceRecord) error
	FindOverdue(ctx context.Context, asOf time.Time) ([]domain.ServiceRecord, error)
	FindDueWithin(ctx context.Context, asOf time.Time, days int) ([]domain.ServiceRecord, error)
}

type serviceRecordRepository struct {
	db *sqlx.DB
}

func NewServiceRecordRepository(db *sqlx.DB) ServiceRecordRepository {
	return &serviceRecordRepository{db: db}
}

func (r *serviceRecordRepository) Create(ctx context.Context, record *domain.ServiceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = domain.ServiceCompleted
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO service_records (id, lift_id, service_type, service_date, next_service_date,
			performed_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.LiftID, record.ServiceType, domain.DateOf(record.ServiceDate),
		datePtr(record.NextServiceDate), record.PerformedBy, record.Status, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating service record: %w", err)
	}
	return nil
}

// latestCompleted selects, per lift, the completed record with the most recent
// service date. Later rows win ties via created_at.
const latestCompleted = `
	SELECT sr.id, sr.lift_id, sr.service_type, sr.service_date, sr.next_service_date,
		sr.performed_by, sr.status, sr.created_at, l.lift_number, l.location
	FROM service_records sr
	JOIN lifts l ON l.id = sr.lift_id
	WHERE sr.status = 'COMPLETED'
		AND l.status = 'ACTIVE'
		AND sr.next_service_date IS NOT NULL
		AND NOT EXISTS (
			SELECT 1 FROM service_records newer
			WHERE newer.lift_id = sr.lift_id
				AND newer.status = 'COMPLETED'
				AND (newer.service_date > sr.service_date
					OR (newer.service_date = sr.service_date AND newer.created_at > sr.created_at))
		)`

func (r *serviceRecordRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]domain.ServiceRecord, error) {
	query := r.db.Rebind(latestCompleted + `
		AND sr.next_service_date < ?
		ORDER BY sr.next_service_date, l.lift_number`)

	records := []domain.ServiceRecord{}
	if err := r.db.SelectContext(ctx, &records, query, domain.DateOf(asOf)); err != nil {
		return nil, fmt.Errorf("finding overdue services: %w", err)
	}
	return records, nil
}

func (r *serviceRecordRepository) FindDueWithin(ctx context.Context, asOf time.Time, days int) ([]domain.ServiceRecord, error) {
	query := r.db.Rebind(latestCompleted + `
		AND sr.next_service_date BETWEEN ? AND ?
		ORDER BY sr.next_service_date, l.lift_number`)

	records := []domain.ServiceRecord{}
	from := domain.DateOf(asOf)
	if err := r.db.SelectContext(ctx, &records, query, from, domain.AddDays(from, days)); err != nil {
		return nil, fmt.Errorf("finding upcoming services: %w", err)
	}
	return records, nil
}
