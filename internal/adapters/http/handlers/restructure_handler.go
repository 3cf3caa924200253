package handlers

import (
	"loanhub/internal/core/services"
	"loanhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RestructureHandler handles restructure requests and their approval
type RestructureHandler struct {
	loanService        *services.LoanService
	restructureService *services.RestructureService
}

// NewRestructureHandler creates a new restructure handler
func NewRestructureHandler(loanService *services.LoanService, restructureService *services.RestructureService) *RestructureHandler {
	return &RestructureHandler{
		loanService:        loanService,
		restructureService: restructureService,
	}
}

// Request proposes new terms for a loan
// @Summary Request restructure
// @Description Omitted tenure extends the current one; omitted rate keeps the current one.
// @Tags Restructures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.RestructureInput true "Proposed terms"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/restructures [post]
func (h *RestructureHandler) Request(c *fiber.Ctx) error {
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

	var req services.RestructureInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.LoanID = loan.ID

	restructure, err := h.restructureService.Request(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Restructure requested", fiber.Map{
		"restructure": restructure,
	})
}

// List lists a loan's restructures
// @Summary List restructures
// @Tags Restructures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Router /loans/{id}/restructures [get]
func (h *RestructureHandler) List(c *fiber.Ctx) error {
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

	list, err := h.restructureService.ListByLoan(c.UserContext(), loan.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Restructures retrieved", fiber.Map{
		"restructures": list,
	})
}

// Approve approves a restructure request
// @Summary Approve restructure
// @Tags Restructures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Restructure ID"
// @Param body body DecisionRequest false "Approval remarks"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /restructures/{id}/approve [post]
func (h *RestructureHandler) Approve(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid restructure ID")
	}

	var req DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	restructure, err := h.restructureService.Approve(c.UserContext(), id, req.Remarks)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Restructure approved", fiber.Map{
		"restructure": restructure,
	})
}

// Implement swaps the loan onto the approved terms
// @Summary Implement restructure
// @Tags Restructures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Restructure ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /restructures/{id}/implement [post]
func (h *RestructureHandler) Implement(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid restructure ID")
	}

	restructure, err := h.restructureService.Implement(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Restructure implemented", fiber.Map{
		"restructure": restructure,
	})
}
