package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/report"
	"github.com/tgienger/crm/internal/store"
)

// CustomerHandler serves the customer routes.
type CustomerHandler struct {
	s *store.Store
}

// NewCustomerHandler builds the handler.
func NewCustomerHandler(s *store.Store) *CustomerHandler {
	return &CustomerHandler{s: s}
}

// List GET /api/customers?q=&status=&tag=
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	filter := report.CustomerFilter{
		Query:  c.Query("q"),
		Status: models.CustomerStatus(c.Query("status")),
		Tag:    c.Query("tag"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return respondError(c, fiber.StatusBadRequest, CodeValidation, "unknown status "+string(filter.Status))
	}
	return c.JSON(report.FilterCustomers(h.s.Customers().List(), filter))
}

// Get GET /api/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	customer, ok := h.s.Customers().Get(c.Params("id"))
	if !ok {
		return notFound(c, "customer")
	}
	return c.JSON(customer)
}

// Create POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in models.CustomerDraft
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := in.Validate(); err != nil {
		return invalidInput(c, err)
	}

	customer, err := h.s.Customers().Add(in)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// Update PATCH /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in models.CustomerPatch
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := in.Validate(); err != nil {
		return invalidInput(c, err)
	}

	customer, ok, err := h.s.Customers().Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
	}
	if !ok {
		return notFound(c, "customer")
	}
	return c.JSON(customer)
}

// Delete DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	ok, err := h.s.Customers().Delete(c.Params("id"))
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
	}
	if !ok {
		return notFound(c, "customer")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
