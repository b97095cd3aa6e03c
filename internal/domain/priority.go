package domain

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Priorities lists every tier from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities with CRITICAL first. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

func (p Priority) Valid() bool {
	return p.Rank() < 4
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", s)}
	}
	return p, nil
}

// ClassifyUrgency maps days remaining until a deadline to a priority tier.
// Past deadlines (negative values) are CRITICAL as well.
func ClassifyUrgency(daysRemaining int) Priority {
	switch {
	case daysRemaining <= 7:
		return PriorityCritical
	case daysRemaining <= 15:
		return PriorityHigh
	case daysRemaining <= 30:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// PriorityFor derives the stored priority of an alert. Staff absences are
// informational and always LOW; every other category follows ClassifyUrgency.
func PriorityFor(category AlertCategory, daysRemaining int) Priority {
	if category == CategoryStaffAbsence {
		return PriorityLow
	}
	return ClassifyUrgency(daysRemaining)
}
