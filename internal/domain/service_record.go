package domain

import (
	"time"

	"github.com/google/uuid"
)

type ServiceRecord struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	LiftID          uuid.UUID     `json:"lift_id" db:"lift_id"`
	ServiceType     string        `json:"service_type" db:"service_type"`
	ServiceDate     time.Time     `json:"service_date" db:"service_date"`
	NextServiceDate *time.Time    `json:"next_service_date,omitempty" db:"next_service_date"`
	PerformedBy     string        `json:"performed_by" db:"performed_by"`
	Status          ServiceStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`

	LiftNumber string `json:"lift_number,omitempty" db:"lift_number"`
	Location   string `json:"location,omitempty" db:"location"`
}

type ServiceStatus string

const (
	ServiceScheduled  ServiceStatus = "SCHEDULED"
	ServiceInProgress ServiceStatus = "IN_PROGRESS"
	ServiceCompleted  ServiceStatus = "COMPLETED"
	ServiceCancelled  ServiceStatus = "CANCELLED"
)
