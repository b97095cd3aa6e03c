package reminder

import "vertitrack/internal/domain"

// ShouldEmit reports whether a candidate daysRemaining away from its
// deadline is on an alerting milestone today.
func ShouldEmit(category domain.AlertCategory, daysRemaining int) bool {
	switch category {
	case domain.CategoryContractExpiry:
		return isContractMilestone(daysRemaining) || daysRemaining <= 3
	case domain.CategoryContractRenewal:
		return isContractMilestone(daysRemaining) || (daysRemaining >= 0 && daysRemaining <= 3)
	case domain.CategoryQuarterlyPayment:
		switch daysRemaining {
		case 15, 7, 3, 0:
			return true
		}
		return false
	default:
		return true
	}
}

func isContractMilestone(days int) bool {
	return days == 30 || days == 15 || days == 7
}
