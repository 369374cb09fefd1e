package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"recruitai/assistant/internal/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// HandleDashboard handles GET /dashboard. Everything here is display-only.
func (h *DashboardHandler) HandleDashboard(c *fiber.Ctx) error {
	return c.JSON(models.DashboardResponse{
		Date:        time.Now().Format("Monday, Jan 2"),
		Greeting:    "Good morning, Sarah.",
		Stats:       models.DashboardStats,
		Activity:    models.DashboardActivities,
		ActiveRoles: models.ActiveRoles,
	})
}
