package handler

import (
	"github.com/gofiber/fiber/v2"

	"vertitrack/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Counts(c *fiber.Ctx) error {
	counts, err := h.dashboardService.Counts(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(counts)
}
