package handler

import (
	"github.com/gofiber/fiber/v2"

	"vertitrack/internal/domain"
	"vertitrack/internal/pkg/clock"
	"vertitrack/internal/service"
)

type Handlers struct {
	Alert     *AlertHandler
	Reminder  *ReminderHandler
	Dashboard *DashboardHandler
}

func NewHandlers(services *service.Services, clk clock.Clock) *Handlers {
	return &Handlers{
		Alert:     NewAlertHandler(services.Alert),
		Reminder:  NewReminderHandler(services.Reminder, clk),
		Dashboard: NewDashboardHandler(services.Dashboard),
	}
}

// Register mounts every route under /api/v1.
func (h *Handlers) Register(router fiber.Router) {
	alerts := router.Group("/alerts")
	alerts.Get("/", h.Alert.List)
	alerts.Post("/", h.Alert.Create)
	alerts.Get("/counts", h.Dashboard.Counts)
	alerts.Get("/priority/:priority", h.Alert.ListByPriority)
	alerts.Get("/category/:category", h.Alert.ListByCategory)
	alerts.Get("/subject", h.Alert.ListBySubject)
	alerts.Get("/due", h.Alert.ListDue)
	alerts.Get("/:id", h.Alert.Get)
	alerts.Patch("/:id/read", h.Alert.MarkRead)
	alerts.Post("/:id/dismiss", h.Alert.Dismiss)

	reminders := router.Group("/reminders")
	reminders.Post("/run", h.Reminder.Run)
	reminders.Post("/absences", h.Reminder.CheckAbsences)
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
