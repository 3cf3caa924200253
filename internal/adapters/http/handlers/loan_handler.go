package handlers

import (
	"loanhub/internal/core/domain"
	"loanhub/internal/core/services"
	"loanhub/internal/pkg/pagination"
	"loanhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan application and lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// DecisionRequest carries an officer's note on approve or reject
type DecisionRequest struct {
	Remarks string `json:"remarks,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Apply creates a loan application
// @Summary Apply for a loan
// @Description Create a PENDING loan. Customers always apply for themselves.
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ApplyLoanInput true "Loan terms"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	var req services.ApplyLoanInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if who := callerOf(c); !who.isStaff() {
		req.CustomerID = who.UserID
	}

	loan, err := h.loanService.Apply(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Loan application created", fiber.Map{
		"loan": loan,
	})
}

// List lists loans
// @Summary List loans
// @Description Staff see every loan, customers only their own
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	who := callerOf(c)
	if !who.isStaff() {
		loans, err := h.loanService.ListByCustomer(c.UserContext(), who.UserID)
		if err != nil {
			return response.FromError(c, err)
		}
		return response.Success(c, "Loans retrieved", fiber.Map{
			"loans": loans,
		})
	}

	page := pagination.FromQuery(c)
	out, err := h.loanService.List(c.UserContext(), &services.ListInput{
		Status: domain.LoanStatus(c.Query("status")),
		Page:   page.Page,
		Limit:  page.Limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loans retrieved", out)
}

// Get returns one loan
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
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

	return response.Success(c, "Loan retrieved", fiber.Map{
		"loan": loan,
	})
}

// Schedule returns the amortization schedule
// @Summary Get repayment schedule
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/schedule [get]
func (h *LoanHandler) Schedule(c *fiber.Ctx) error {
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

	schedule, err := h.loanService.GetSchedule(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Schedule retrieved", fiber.Map{
		"loan_number": loan.LoanNumber,
		"schedule":    schedule,
	})
}

// Review moves a pending application under review
// @Summary Start review
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/review [post]
func (h *LoanHandler) Review(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.MarkUnderReview(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loan under review", fiber.Map{"loan": loan})
}

// Approve approves an application
// @Summary Approve loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body DecisionRequest false "Approval remarks"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/approve [post]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	loan, err := h.loanService.Approve(c.UserContext(), id, req.Remarks)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loan approved", fiber.Map{"loan": loan})
}

// Reject rejects an application
// @Summary Reject loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body DecisionRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/reject [post]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	loan, err := h.loanService.Reject(c.UserContext(), id, req.Reason)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loan rejected", fiber.Map{"loan": loan})
}

// Disburse pays the principal out and generates the schedule
// @Summary Disburse loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/disburse [post]
func (h *LoanHandler) Disburse(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.Disburse(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loan disbursed", fiber.Map{"loan": loan})
}
