package handler

import (
	"github.com/gofiber/fiber/v2"

	"vertitrack/internal/domain"
	"vertitrack/internal/middleware"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/service/reminder"
)

type ReminderHandler struct {
	reminderService reminder.Service
	clock           clock.Clock
}

func NewReminderHandler(reminderService reminder.Service, clk clock.Clock) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService, clock: clk}
}

// Run triggers an immediate full scan. Category failures are reported in the
// body; the request itself still succeeds.
func (h *ReminderHandler) Run(c *fiber.Ctx) error {
	report := h.reminderService.RunManualScan(c.Context())
	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *ReminderHandler) CheckAbsences(c *fiber.Ctx) error {
	date := clock.Today(h.clock)
	if raw := c.Query("date"); raw != "" {
		parsed, err := domain.ParseDate(raw)
		if err != nil {
			return middleware.BadRequest("date must be YYYY-MM-DD")
		}
		date = parsed
	}

	result := h.reminderService.CheckAbsences(c.Context(), date)
	if result.Failed() {
		return result.Err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
