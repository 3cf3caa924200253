package handlers

import (
	"loanhub/internal/adapters/http/middleware"
	"loanhub/internal/adapters/persistence/models"
	"loanhub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// paramID reads a positive numeric path parameter
func paramID(c *fiber.Ctx, key string) (uint, bool) {
	id, err := c.ParamsInt(key)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// caller is the authenticated principal of the request
type caller struct {
	UserID uint
	Role   string
}

func callerOf(c *fiber.Ctx) caller {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	return caller{UserID: userID, Role: role}
}

// isStaff reports whether the caller works on any customer's loans
func (p caller) isStaff() bool {
	return p.Role == middleware.RoleOfficer || p.Role == middleware.RoleAdmin
}

// canSee hides other customers' loans. A customer asking for a loan that is
// not theirs gets the same answer as for a loan that does not exist.
func (p caller) canSee(loan *models.Loan) error {
	if p.isStaff() || loan.CustomerID == p.UserID {
		return nil
	}
	return domain.ErrLoanNotFound
}
