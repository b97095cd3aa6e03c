package domain

import (
	"time"

	"github.com/google/uuid"
)

type Attendance struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	EmployeeID     uuid.UUID        `json:"employee_id" db:"employee_id"`
	AttendanceDate time.Time        `json:"attendance_date" db:"attendance_date"`
	Status         AttendanceStatus `json:"status" db:"status"`
	Remarks        *string          `json:"remarks,omitempty" db:"remarks"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceHalfDay AttendanceStatus = "HALF_DAY"
	AttendanceLeave   AttendanceStatus = "LEAVE"
	AttendanceHoliday AttendanceStatus = "HOLIDAY"
)
