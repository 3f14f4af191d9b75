package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/crm/internal/report"
	"github.com/tgienger/crm/internal/store"
)

// DashboardHandler serves the derived views.
type DashboardHandler struct {
	s *store.Store
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{s: s}
}

// Summary GET /api/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(report.Dashboard(h.s.Snapshot(), h.s.Now()))
}

// Activities GET /api/activities?limit=
func (h *DashboardHandler) Activities(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", store.MaxActivities)
	if limit < 0 {
		return respondError(c, fiber.StatusBadRequest, CodeValidation, "limit must not be negative")
	}
	return c.JSON(report.RecentActivity(h.s.Activities().List(), limit))
}
