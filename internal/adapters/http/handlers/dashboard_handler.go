package handlers

import (
	"loanhub/internal/core/services"
	"loanhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetPortfolio returns the portfolio overview
// @Summary Portfolio dashboard
// @Description Loan counts, balances, this month's activity and overdue buckets (Officer/Admin)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetPortfolio(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetPortfolio(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Portfolio dashboard retrieved successfully", data)
}
