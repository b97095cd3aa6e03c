package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Alert struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	Category       AlertCategory `json:"category" db:"category"`
	Priority       Priority      `json:"priority" db:"priority"`
	SubjectRef     `json:"subject"`
	SubjectKey     string     `json:"-" db:"subject_key"`
	Title          string     `json:"title" db:"title"`
	Message        string     `json:"message" db:"message"`
	RaisedOn       time.Time  `json:"raised_on" db:"raised_on"`
	DueDate        time.Time  `json:"due_date" db:"due_date"`
	IsRead         bool       `json:"is_read" db:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty" db:"read_at"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty" db:"dismissed_at"`
	ResolutionNote *string    `json:"resolution_note,omitempty" db:"resolution_note"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

type AlertCategory string

const (
	CategoryContractExpiry   AlertCategory = "CONTRACT_EXPIRY"
	CategoryContractRenewal  AlertCategory = "CONTRACT_RENEWAL"
	CategoryQuarterlyPayment AlertCategory = "QUARTERLY_PAYMENT"
	CategoryServiceDue       AlertCategory = "SERVICE_DUE"
	CategoryStaffAbsence     AlertCategory = "STAFF_ABSENCE"
	CategoryOther            AlertCategory = "OTHER"
)

// ScanCategories is the order in which a scan cycle visits categories.
var ScanCategories = []AlertCategory{
	CategoryContractExpiry,
	CategoryContractRenewal,
	CategoryQuarterlyPayment,
	CategoryServiceDue,
	CategoryStaffAbsence,
}

func (c AlertCategory) Valid() bool {
	switch c {
	case CategoryContractExpiry, CategoryContractRenewal, CategoryQuarterlyPayment,
		CategoryServiceDue, CategoryStaffAbsence, CategoryOther:
		return true
	}
	return false
}

func ParseCategory(s string) (AlertCategory, error) {
	c := AlertCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", s)}
	}
	return c, nil
}

// SubjectRef points at the lift and/or employee an alert concerns.
type SubjectRef struct {
	LiftID     *uuid.UUID `json:"lift_id,omitempty" db:"lift_id"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty" db:"employee_id"`
}

func LiftSubject(id uuid.UUID) SubjectRef {
	return SubjectRef{LiftID: &id}
}

func EmployeeSubject(id uuid.UUID) SubjectRef {
	return SubjectRef{EmployeeID: &id}
}

func (s SubjectRef) IsZero() bool {
	return s.LiftID == nil && s.EmployeeID == nil
}

// Key is the stable string form used in the per-day dedupe key. Absent sides
// render as "-" so that lift-only and employee-only refs never collide.
func (s SubjectRef) Key() string {
	lift, emp := "-", "-"
	if s.LiftID != nil {
		lift = s.LiftID.String()
	}
	if s.EmployeeID != nil {
		emp = s.EmployeeID.String()
	}
	return "lift:" + lift + "|employee:" + emp
}

// AlertDraft is what callers hand to the alert store. Priority is not part of
// it; the store derives it from the category and due date.
type AlertDraft struct {
	Category   AlertCategory `json:"category"`
	SubjectRef `json:"subject"`
	DueDate    time.Time `json:"due_date"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
}

func (d AlertDraft) Validate() error {
	if !d.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", d.Category)}
	}
	if d.SubjectRef.IsZero() {
		return &ValidationError{Field: "subject", Reason: "lift_id or employee_id is required"}
	}
	if d.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Reason: "is required"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	return nil
}

type CreateAlertInput struct {
	Category   string     `json:"category"`
	LiftID     *uuid.UUID `json:"lift_id,omitempty"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty"`
	DueDate    string     `json:"due_date"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
}

type DismissAlertInput struct {
	Note string `json:"note"`
}

type AlertCounts struct {
	Unread     int64              `json:"unread"`
	ByPriority map[Priority]int64 `json:"by_priority"`
}

// Draft converts request input into an AlertDraft. Only the category and due
// date are parsed here; Validate covers the rest.
func (in CreateAlertInput) Draft() (AlertDraft, error) {
	category, err := ParseCategory(in.Category)
	if err != nil {
		return AlertDraft{}, err
	}

	var due time.Time
	if in.DueDate != "" {
		due, err = ParseDate(in.DueDate)
		if err != nil {
			return AlertDraft{}, &ValidationError{Field: "due_date", Reason: "expected YYYY-MM-DD"}
		}
	}

	draft := AlertDraft{
		Category:   category,
		SubjectRef: SubjectRef{LiftID: in.LiftID, EmployeeID: in.EmployeeID},
		DueDate:    due,
		Title:      in.Title,
		Message:    in.Message,
	}
	return draft, draft.Validate()
}
