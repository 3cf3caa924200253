package handlers

import (
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanTypeHandler serves the product rate table
type LoanTypeHandler struct {
	loanTypeRepo *repositories.LoanTypeRepository
}

// NewLoanTypeHandler creates a new loan type handler
func NewLoanTypeHandler(loanTypeRepo *repositories.LoanTypeRepository) *LoanTypeHandler {
	return &LoanTypeHandler{loanTypeRepo: loanTypeRepo}
}

// List returns the loan types
// @Summary List loan types
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include inactive types"
// @Success 200 {object} response.Response
// @Router /loan-types [get]
func (h *LoanTypeHandler) List(c *fiber.Ctx) error {
	activeOnly := !c.QueryBool("all", false)

	loanTypes, err := h.loanTypeRepo.GetAll(c.UserContext(), activeOnly)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Loan types retrieved", fiber.Map{
		"loan_types": loanTypes,
	})
}
