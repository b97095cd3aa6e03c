package reminder

import (
	"context"
	"fmt"
	"time"

	"vertitrack/internal/domain"
	"vertitrack/internal/repository"
)

// Source turns tracked records into deadline candidates.
type Source interface {
	// Collect returns the candidates for one category. For STAFF_ABSENCE
	// asOf is the attendance date; for every other category it is today.
	Collect(ctx context.Context, category domain.AlertCategory, asOf time.Time) ([]domain.DeadlineCandidate, error)
	UpcomingServices(ctx context.Context, asOf time.Time, days int) ([]domain.DeadlineCandidate, error)
}

type repositorySource struct {
	lifts       repository.LiftRepository
	services    repository.ServiceRecordRepository
	attendance  repository.AttendanceRepository
	employees   repository.EmployeeRepository
	horizonDays int
}

func NewSource(repos *repository.Repositories, horizonDays int) Source {
	return &repositorySource{
		lifts:       repos.Lift,
		services:    repos.ServiceRecord,
		attendance:  repos.Attendance,
		employees:   repos.Employee,
		horizonDays: horizonDays,
	}
}

func (s *repositorySource) Collect(ctx context.Context, category domain.AlertCategory, asOf time.Time) ([]domain.DeadlineCandidate, error) {
	today := domain.DateOf(asOf)
	horizon := domain.AddDays(today, s.horizonDays)

	switch category {
	case domain.CategoryContractExpiry:
		return s.contractExpiry(ctx, today, horizon)
	case domain.CategoryContractRenewal:
		lifts, err := s.lifts.FindRenewalBetween(ctx, today, horizon)
		if err != nil {
			return nil, err
		}
		candidates := make([]domain.DeadlineCandidate, 0, len(lifts))
		for _, l := range lifts {
			candidates = append(candidates, liftCandidate(category, l, l.AMCRenewalDate))
		}
		return candidates, nil
	case domain.CategoryQuarterlyPayment:
		return s.quarterlyPayments(ctx, today, horizon)
	case domain.CategoryServiceDue:
		records, err := s.services.FindOverdue(ctx, today)
		if err != nil {
			return nil, err
		}
		return serviceCandidates(records), nil
	case domain.CategoryStaffAbsence:
		return s.absences(ctx, today)
	}
	return nil, fmt.Errorf("no deadline source for category %s", category)
}

func (s *repositorySource) UpcomingServices(ctx context.Context, asOf time.Time, days int) ([]domain.DeadlineCandidate, error) {
	records, err := s.services.FindDueWithin(ctx, asOf, days)
	if err != nil {
		return nil, err
	}
	return serviceCandidates(records), nil
}

func (s *repositorySource) contractExpiry(ctx context.Context, today, horizon time.Time) ([]domain.DeadlineCandidate, error) {
	overdue, err := s.lifts.FindOverdueExpiry(ctx, today)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.lifts.FindExpiringBetween(ctx, today, horizon)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.DeadlineCandidate, 0, len(overdue)+len(upcoming))
	for _, l := range append(overdue, upcoming...) {
		candidates = append(candidates, liftCandidate(domain.CategoryContractExpiry, l, l.AMCEndDate))
	}
	return candidates, nil
}

// quarterlyPayments yields one candidate per installment date inside the
// horizon, so a single lift can contribute up to four.
func (s *repositorySource) quarterlyPayments(ctx context.Context, today, horizon time.Time) ([]domain.DeadlineCandidate, error) {
	lifts, err := s.lifts.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []domain.DeadlineCandidate
	for _, l := range lifts {
		for _, p := range l.QuarterPayments() {
			due := domain.DateOf(p.Date)
			if due.Before(today) || due.After(horizon) {
				continue
			}
			c := liftCandidate(domain.CategoryQuarterlyPayment, l, due)
			c.Context.Quarter = p.Label
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

func (s *repositorySource) absences(ctx context.Context, date time.Time) ([]domain.DeadlineCandidate, error) {
	records, err := s.attendance.FindAbsentOn(ctx, date)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.DeadlineCandidate, 0, len(records))
	for _, r := range records {
		employee, err := s.employees.GetByID(ctx, r.EmployeeID)
		if err != nil {
			return nil, err
		}

		c := domain.DeadlineCandidate{
			Category: domain.CategoryStaffAbsence,
			Subject:  domain.EmployeeSubject(r.EmployeeID),
			DueDate:  domain.DateOf(r.AttendanceDate),
			Context:  domain.CandidateContext{EmployeeName: r.EmployeeID.String()},
		}
		if employee != nil {
			c.Context.EmployeeName = employee.FullName()
			c.Context.EmployeeCode = employee.EmployeeCode
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func liftCandidate(category domain.AlertCategory, l domain.Lift, due time.Time) domain.DeadlineCandidate {
	c := domain.DeadlineCandidate{
		Category: category,
		Subject:  domain.LiftSubject(l.ID),
		DueDate:  domain.DateOf(due),
		Context: domain.CandidateContext{
			LiftNumber: l.LiftNumber,
			Location:   l.Location,
		},
	}
	if l.QuarterlyAmount != nil {
		c.Context.Amount = *l.QuarterlyAmount
	}
	return c
}

func serviceCandidates(records []domain.ServiceRecord) []domain.DeadlineCandidate {
	candidates := make([]domain.DeadlineCandidate, 0, len(records))
	for _, r := range records {
		if r.NextServiceDate == nil {
			continue
		}
		candidates = append(candidates, domain.DeadlineCandidate{
			Category: domain.CategoryServiceDue,
			Subject:  domain.LiftSubject(r.LiftID),
			DueDate:  domain.DateOf(*r.NextServiceDate),
			Context: domain.CandidateContext{
				LiftNumber:  r.LiftNumber,
				Location:    r.Location,
				ServiceType: r.ServiceType,
			},
		})
	}
	return candidates
}
