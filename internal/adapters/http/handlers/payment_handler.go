package handlers

import (
	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/services"
	"loanhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles money coming back in: repayments, prepayments and
// foreclosure
type PaymentHandler struct {
	loanService        *services.LoanService
	repaymentService   *services.RepaymentService
	prepaymentService  *services.PrepaymentService
	foreclosureService *services.ForeclosureService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	loanService *services.LoanService,
	repaymentService *services.RepaymentService,
	prepaymentService *services.PrepaymentService,
	foreclosureService *services.ForeclosureService,
) *PaymentHandler {
	return &PaymentHandler{
		loanService:        loanService,
		repaymentService:   repaymentService,
		prepaymentService:  prepaymentService,
		foreclosureService: foreclosureService,
	}
}

// visibleLoan resolves the :id loan and hides it from other customers
func (h *PaymentHandler) visibleLoan(c *fiber.Ctx) (*models.Loan, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid loan ID")
	}
	loan, err := h.loanService.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := callerOf(c).canSee(loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// Repay records an installment payment
// @Summary Make a repayment
// @Description Pays the earliest unpaid installment. ACCOUNT payments are debited from the loan's funding account.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.RepayInput true "Payment"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/repayments [post]
func (h *PaymentHandler) Repay(c *fiber.Ctx) error {
	loan, err := h.visibleLoan(c)
	if err != nil {
		return err
	}

	var req services.RepayInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.LoanID = loan.ID

	result, err := h.repaymentService.Repay(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Repayment recorded", result)
}

// ListRepayments lists a loan's repayments
// @Summary List repayments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Router /loans/{id}/repayments [get]
func (h *PaymentHandler) ListRepayments(c *fiber.Ctx) error {
	loan, err := h.visibleLoan(c)
	if err != nil {
		return err
	}

	repayments, err := h.repaymentService.ListRepayments(c.UserContext(), loan.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Repayments retrieved", fiber.Map{
		"repayments": repayments,
	})
}

// Prepay pays part or all of the principal early
// @Summary Make a prepayment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.PrepayInput true "Prepayment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/prepayments [post]
func (h *PaymentHandler) Prepay(c *fiber.Ctx) error {
	loan, err := h.visibleLoan(c)
	if err != nil {
		return err
	}

	var req services.PrepayInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.LoanID = loan.ID

	result, err := h.prepaymentService.Prepay(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Prepayment recorded", result)
}

// ListPrepayments lists a loan's prepayments
// @Summary List prepayments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Router /loans/{id}/prepayments [get]
func (h *PaymentHandler) ListPrepayments(c *fiber.Ctx) error {
	loan, err := h.visibleLoan(c)
	if err != nil {
		return err
	}

	prepayments, err := h.prepaymentService.ListPrepayments(c.UserContext(), loan.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Prepayments retrieved", fiber.Map{
		"prepayments": prepayments,
	})
}

// ForeclosureQuote prices paying the loan off today
// @Summary Quote foreclosure
// @Tags Foreclosure
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/foreclosure-quote [post]
func (h *PaymentHandler) ForeclosureQuote(c *fiber.Ctx) error {
	loan, err := h.visibleLoan(c)
	if err != nil {
		return err
	}

	quote, err := h.foreclosureService.Quote(c.UserContext(), loan.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Foreclosure quoted", fiber.Map{
		"foreclosure": quote,
	})
}

// ListForeclosures lists a loan's foreclosure quotes
// @Summary List foreclosures
// @Tags Foreclosure
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Router /loans/{id}/foreclosures [get]
func (h *PaymentHandler) ListForeclosures(c *fiber.Ctx) error {
	loan, err := h.visibleLoan(c)
	if err != nil {
		return err
	}

	list, err := h.foreclosureService.ListByLoan(c.UserContext(), loan.ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Foreclosures retrieved", fiber.Map{
		"foreclosures": list,
	})
}

// SettleForeclosure pays a quoted foreclosure and closes the loan
// @Summary Settle foreclosure
// @Description The amount due is repriced at settlement; payment must cover it.
// @Tags Foreclosure
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Foreclosure ID"
// @Param body body services.SettleInput true "Payment"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /foreclosures/{id}/settle [post]
func (h *PaymentHandler) SettleForeclosure(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid foreclosure ID")
	}

	var req services.SettleInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.ForeclosureID = id

	foreclosure, err := h.foreclosureService.GetByID(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	loan, err := h.loanService.GetByID(c.UserContext(), foreclosure.LoanID)
	if err == nil {
		err = callerOf(c).canSee(loan)
	}
	if err != nil {
		return response.FromError(c, err)
	}

	result, err := h.foreclosureService.Settle(c.UserContext(), &req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loan foreclosed", result)
}
