package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Alert         AlertRepository
	Lift          LiftRepository
	ServiceRecord ServiceRecordRepository
	Attendance    AttendanceRepository
	Employee      EmployeeRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Alert:         NewAlertRepository(db),
		Lift:          NewLiftRepository(db),
		ServiceRecord: NewServiceRecordRepository(db),
		Attendance:    NewAttendanceRepository(db),
		Employee:      NewEmployeeRepository(db),
	}
}
