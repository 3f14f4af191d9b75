package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
	"github.com/tgienger/crm/internal/store"
)

// TaskHandler serves the task routes.
type TaskHandler struct {
	s *store.Store
}

// NewTaskHandler builds the handler.
func NewTaskHandler(s *store.Store) *TaskHandler {
	return &TaskHandler{s: s}
}

// List GET /api/tasks?q=&status=&priority=&customerId=
// Overdue tasks come first, then by deadline.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	filter := report.TaskFilter{
		Query:      c.Query("q"),
		Status:     models.TaskStatus(c.Query("status")),
		Priority:   models.Priority(c.Query("priority")),
		CustomerID: c.Query("customerId"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return respondError(c, fiber.StatusBadRequest, CodeValidation, "unknown status "+string(filter.Status))
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return respondError(c, fiber.StatusBadRequest, CodeValidation, "unknown priority "+string(filter.Priority))
	}
	return c.JSON(report.FilterTasks(h.s.Tasks().List(), filter, h.s.Now()))
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, ok := h.s.Tasks().Get(c.Params("id"))
	if !ok {
		return notFound(c, "task")
	}
	return c.JSON(task)
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var in models.TaskDraft
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := in.Validate(); err != nil {
		return invalidInput(c, err)
	}

	task, err := h.s.Tasks().Add(in)
	if errors.Is(err, store.ErrUnknownCustomer) {
		return respondError(c, fiber.StatusUnprocessableEntity, CodeUnknownCustomer, "customer "+in.CustomerID+" does not exist")
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// Update PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var in models.TaskPatch
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := in.Validate(); err != nil {
		return invalidInput(c, err)
	}

	task, ok, err := h.s.Tasks().Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
	}
	if !ok {
		return notFound(c, "task")
	}
	return c.JSON(task)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	ok, err := h.s.Tasks().Delete(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
	}
	if !ok {
		return notFound(c, "task")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
