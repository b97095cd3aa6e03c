package domain

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EmployeeCode string    `json:"employee_code" db:"employee_code"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     *string   `json:"last_name,omitempty" db:"last_name"`
	Designation  string    `json:"designation" db:"designation"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (e Employee) FullName() string {
	if e.LastName != nil && *e.LastName != "" {
		return e.FirstName + " " + *e.LastName
	}
	return e.FirstName
}
