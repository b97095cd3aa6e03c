package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vertitrack/internal/domain"
)

type LiftRepository interface {
	Create(ctx context.Context, lift *domain.Lift) error
	ListActive(ctx context.Context) ([]domain.Lift, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.Lift, error)
	FindOverdueExpiry(ctx context.Context, asOf time.Time) ([]domain.Lift, error)
	FindRenewalBetween(ctx context.Context, from, to time.Time) ([]domain.Lift, error)
}

type liftRepository struct {
	db *sqlx.DB
}

func NewLiftRepository(db *sqlx.DB) LiftRepository {
	return &liftRepository{db: db}
}

const liftColumns = `id, lift_number, location, building,
	amc_start_date, amc_end_date, amc_renewal_date,
	quarter1_payment_date, quarter2_payment_date, quarter3_payment_date, quarter4_payment_date,
	quarterly_amount, status, created_at`

func (r *liftRepository) Create(ctx context.Context, lift *domain.Lift) error {
	if lift.ID == uuid.Nil {
		lift.ID = uuid.New()
	}
	if lift.Status == "" {
		lift.Status = domain.LiftActive
	}
	if lift.CreatedAt.IsZero() {
		lift.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO lifts (` + liftColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		lift.ID, lift.LiftNumber, lift.Location, lift.Building,
		domain.DateOf(lift.AMCStartDate), domain.DateOf(lift.AMCEndDate), domain.DateOf(lift.AMCRenewalDate),
		datePtr(lift.Quarter1PaymentDate), datePtr(lift.Quarter2PaymentDate),
		datePtr(lift.Quarter3PaymentDate), datePtr(lift.Quarter4PaymentDate),
		lift.QuarterlyAmount, lift.Status, lift.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating lift: %w", err)
	}
	return nil
}

func (r *liftRepository) ListActive(ctx context.Context) ([]domain.Lift, error) {
	query := r.db.Rebind(`SELECT ` + liftColumns + ` FROM lifts WHERE status = ? ORDER BY lift_number`)
	return r.selectLifts(ctx, "listing active lifts", query, domain.LiftActive)
}

func (r *liftRepository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.Lift, error) {
	query := r.db.Rebind(`
		SELECT ` + liftColumns + ` FROM lifts
		WHERE status = ? AND amc_end_date BETWEEN ? AND ?
		ORDER BY amc_end_date, lift_number`)
	return r.selectLifts(ctx, "finding expiring lifts", query, domain.LiftActive, domain.DateOf(from), domain.DateOf(to))
}

func (r *liftRepository) FindOverdueExpiry(ctx context.Context, asOf time.Time) ([]domain.Lift, error) {
	query := r.db.Rebind(`
		SELECT ` + liftColumns + ` FROM lifts
		WHERE status = ? AND amc_end_date < ?
		ORDER BY amc_end_date, lift_number`)
	return r.selectLifts(ctx, "finding expired lifts", query, domain.LiftActive, domain.DateOf(asOf))
}

func (r *liftRepository) FindRenewalBetween(ctx context.Context, from, to time.Time) ([]domain.Lift, error) {
	query := r.db.Rebind(`
		SELECT ` + liftColumns + ` FROM lifts
		WHERE status = ? AND amc_renewal_date BETWEEN ? AND ?
		ORDER BY amc_renewal_date, lift_number`)
	return r.selectLifts(ctx, "finding lifts due for renewal", query, domain.LiftActive, domain.DateOf(from), domain.DateOf(to))
}

func (r *liftRepository) selectLifts(ctx context.Context, op, query string, args ...interface{}) ([]domain.Lift, error) {
	lifts := []domain.Lift{}
	if err := r.db.SelectContext(ctx, &lifts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lifts, nil
}

// datePtr normalizes an optional date column value.
func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}
