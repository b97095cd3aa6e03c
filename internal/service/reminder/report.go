package reminder

import (
	"time"

	"github.com/samber/lo"

	"vertitrack/internal/domain"
)

const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
	TriggerAbsence   = "absence"
)

// CategoryResult is the outcome of one category within a scan.
type CategoryResult struct {
	Category   domain.AlertCategory `json:"category"`
	Candidates int                  `json:"candidates"`
	Gated      int                  `json:"gated"`
	Emitted    int                  `json:"emitted"`
	Duplicates int                  `json:"duplicates"`
	Rejected   int                  `json:"rejected"`
	Error      string               `json:"error,omitempty"`

	Err error `json:"-"`
}

func (r CategoryResult) Failed() bool {
	return r.Err != nil
}

type ScanReport struct {
	Trigger    string           `json:"trigger"`
	Date       time.Time        `json:"date"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Categories []CategoryResult `json:"categories"`
	Cancelled  bool             `json:"cancelled"`
	// Skipped is set when another process held the scan lock.
	Skipped bool `json:"skipped,omitempty"`
}

func (r *ScanReport) Emitted() int {
	return lo.SumBy(r.Categories, func(c CategoryResult) int { return c.Emitted })
}

func (r *ScanReport) FailedCategories() []domain.AlertCategory {
	return lo.FilterMap(r.Categories, func(c CategoryResult, _ int) (domain.AlertCategory, bool) {
		return c.Category, c.Failed()
	})
}

func (r *ScanReport) Result(category domain.AlertCategory) (CategoryResult, bool) {
	return lo.Find(r.Categories, func(c CategoryResult) bool { return c.Category == category })
}

func (r *ScanReport) outcome() string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Cancelled:
		return "cancelled"
	case len(r.FailedCategories()) > 0:
		return "partial"
	}
	return "ok"
}
