package handlers

import (
	"loanhub/internal/core/services"
	"loanhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OverdueHandler exposes overdue aging and the manual sweep
type OverdueHandler struct {
	loanService    *services.LoanService
	overdueService *services.OverdueService
	cronService    *services.CronService
}

// NewOverdueHandler creates a new overdue handler
func NewOverdueHandler(loanService *services.LoanService, overdueService *services.OverdueService, cronService *services.CronService) *OverdueHandler {
	return &OverdueHandler{
		loanService:    loanService,
		overdueService: overdueService,
		cronService:    cronService,
	}
}

// ListByLoan returns a loan's overdue tracking
// @Summary Loan overdue status
// @Tags Overdue
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param resolved query bool false "Include resolved records"
// @Success 200 {object} response.Response
// @Router /loans/{id}/overdue [get]
func (h *OverdueHandler) ListByLoan(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.UserContext(), id)
	if err == nil {
		err = callerOf(c).canSee(loan)
	}
	if err != nil {
		return response.FromError(c, err)
	}

	records, err := h.overdueService.ListByLoan(c.UserContext(), loan.ID, c.QueryBool("resolved", false))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Overdue records retrieved", fiber.Map{
		"overdue": records,
	})
}

// Sweep runs the overdue sweep now. Returns 409 while another instance
// holds the sweep lease.
// @Summary Run overdue sweep
// @Tags Overdue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/overdue/sweep [post]
func (h *OverdueHandler) Sweep(c *fiber.Ctx) error {
	result, err := h.cronService.RunOverdueSweep(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Overdue sweep completed", result)
}
