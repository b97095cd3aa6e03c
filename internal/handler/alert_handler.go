package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vertitrack/internal/domain"
	"vertitrack/internal/middleware"
	"vertitrack/internal/service/alert"
)

type AlertHandler struct {
	alertService alert.Service
}

func NewAlertHandler(alertService alert.Service) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (h *AlertHandler) List(c *fiber.Ctx) error {
	var (
		alerts []domain.Alert
		err    error
	)

	switch c.Query("view", "unread") {
	case "unread":
		alerts, err = h.alertService.FindUnread(c.Context())
	case "active":
		alerts, err = h.alertService.FindActive(c.Context())
	case "urgent":
		alerts, err = h.alertService.FindUrgent(c.Context())
	default:
		return middleware.BadRequest("view must be one of unread, active, urgent")
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(domain.Paginate(alerts, getPaginationParams(c)))
}

func (h *AlertHandler) ListByPriority(c *fiber.Ctx) error {
	priority, err := domain.ParsePriority(c.Params("priority"))
	if err != nil {
		return err
	}

	alerts, err := h.alertService.FindByPriority(c.Context(), priority)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(domain.Paginate(alerts, getPaginationParams(c)))
}

func (h *AlertHandler) ListByCategory(c *fiber.Ctx) error {
	category, err := domain.ParseCategory(c.Params("category"))
	if err != nil {
		return err
	}

	alerts, err := h.alertService.FindByCategory(c.Context(), category)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(domain.Paginate(alerts, getPaginationParams(c)))
}

func (h *AlertHandler) ListBySubject(c *fiber.Ctx) error {
	var subject domain.SubjectRef

	if raw := c.Query("lift_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.BadRequest("Invalid lift ID")
		}
		subject.LiftID = &id
	}
	if raw := c.Query("employee_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return middleware.BadRequest("Invalid employee ID")
		}
		subject.EmployeeID = &id
	}

	alerts, err := h.alertService.FindBySubject(c.Context(), subject)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(domain.Paginate(alerts, getPaginationParams(c)))
}

func (h *AlertHandler) ListDue(c *fiber.Ctx) error {
	from, err := domain.ParseDate(c.Query("from"))
	if err != nil {
		return middleware.BadRequest("from must be YYYY-MM-DD")
	}
	to, err := domain.ParseDate(c.Query("to"))
	if err != nil {
		return middleware.BadRequest("to must be YYYY-MM-DD")
	}

	alerts, err := h.alertService.FindDueBetween(c.Context(), from, to)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(domain.Paginate(alerts, getPaginationParams(c)))
}

func (h *AlertHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid alert ID")
	}

	a, err := h.alertService.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(a)
}

func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateAlertInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	draft, err := input.Draft()
	if err != nil {
		return err
	}

	a, created, err := h.alertService.Create(c.Context(), draft)
	if err != nil {
		return err
	}

	status := fiber.StatusCreated
	if !created {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(a)
}

func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid alert ID")
	}

	if err := h.alertService.MarkRead(c.Context(), id); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *AlertHandler) Dismiss(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid alert ID")
	}

	var input domain.DismissAlertInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}

	if err := h.alertService.Dismiss(c.Context(), id, input.Note); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
