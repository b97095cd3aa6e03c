package domain

import "time"

// DeadlineCandidate is one tracked deadline found during a scan. It is never
// persisted.
type DeadlineCandidate struct {
	Category AlertCategory
	Subject  SubjectRef
	DueDate  time.Time
	Context  CandidateContext
}

// CandidateContext carries the category-specific fields needed to render a
// message. Unused fields stay zero.
type CandidateContext struct {
	LiftNumber   string
	Location     string
	Quarter      string
	Amount       float64
	ServiceType  string
	EmployeeName string
	EmployeeCode string
}
