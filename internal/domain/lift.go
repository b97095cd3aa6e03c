package domain

import (
	"time"

	"github.com/google/uuid"
)

type Lift struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	LiftNumber          string     `json:"lift_number" db:"lift_number"`
	Location            string     `json:"location" db:"location"`
	Building            *string    `json:"building,omitempty" db:"building"`
	AMCStartDate        time.Time  `json:"amc_start_date" db:"amc_start_date"`
	AMCEndDate          time.Time  `json:"amc_end_date" db:"amc_end_date"`
	AMCRenewalDate      time.Time  `json:"amc_renewal_date" db:"amc_renewal_date"`
	Quarter1PaymentDate *time.Time `json:"quarter1_payment_date,omitempty" db:"quarter1_payment_date"`
	Quarter2PaymentDate *time.Time `json:"quarter2_payment_date,omitempty" db:"quarter2_payment_date"`
	Quarter3PaymentDate *time.Time `json:"quarter3_payment_date,omitempty" db:"quarter3_payment_date"`
	Quarter4PaymentDate *time.Time `json:"quarter4_payment_date,omitempty" db:"quarter4_payment_date"`
	QuarterlyAmount     *float64   `json:"quarterly_amount,omitempty" db:"quarterly_amount"`
	Status              LiftStatus `json:"status" db:"status"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

type LiftStatus string

const (
	LiftActive           LiftStatus = "ACTIVE"
	LiftInactive         LiftStatus = "INACTIVE"
	LiftUnderMaintenance LiftStatus = "UNDER_MAINTENANCE"
	LiftDecommissioned   LiftStatus = "DECOMMISSIONED"
)

type QuarterPayment struct {
	Label string
	Date  time.Time
}

// QuarterPayments returns the scheduled installment dates that are set, in
// quarter order.
func (l Lift) QuarterPayments() []QuarterPayment {
	dates := []*time.Time{
		l.Quarter1PaymentDate,
		l.Quarter2PaymentDate,
		l.Quarter3PaymentDate,
		l.Quarter4PaymentDate,
	}

	var out []QuarterPayment
	for i, d := range dates {
		if d == nil {
			continue
		}
		out = append(out, QuarterPayment{Label: quarterLabels[i], Date: *d})
	}
	return out
}

var quarterLabels = [4]string{"Quarter 1", "Quarter 2", "Quarter 3", "Quarter 4"}
