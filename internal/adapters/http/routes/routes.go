package routes

import (
	"time"

	"loanhub/internal/adapters/http/handlers"
	"loanhub/internal/adapters/http/middleware"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/config"
	"loanhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services is everything the HTTP surface calls into
type Services struct {
	DB           *gorm.DB
	LoanTypes    *repositories.LoanTypeRepository
	Loans        *services.LoanService
	Repayments   *services.RepaymentService
	Prepayments  *services.PrepaymentService
	Restructures *services.RestructureService
	Foreclosures *services.ForeclosureService
	Overdue      *services.OverdueService
	Cron         *services.CronService
	Dashboard    *services.DashboardService
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, svc *Services) {
	healthHandler := handlers.NewHealthHandler(svc.DB, cfg.AppMode)
	loanTypeHandler := handlers.NewLoanTypeHandler(svc.LoanTypes)
	loanHandler := handlers.NewLoanHandler(svc.Loans)
	paymentHandler := handlers.NewPaymentHandler(svc.Loans, svc.Repayments, svc.Prepayments, svc.Foreclosures)
	restructureHandler := handlers.NewRestructureHandler(svc.Loans, svc.Restructures)
	overdueHandler := handlers.NewOverdueHandler(svc.Loans, svc.Overdue, svc.Cron)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	protected := apiV1.Group("", middleware.AuthMiddleware(cfg), middleware.NoCacheHeaders())

	protected.Get("/loan-types", middleware.CacheControl(time.Hour), loanTypeHandler.List)

	setupLoanRoutes(protected, loanHandler, paymentHandler, restructureHandler, overdueHandler)

	restructures := protected.Group("/restructures", middleware.OfficerOrAdmin())
	restructures.Post("/:id/approve", restructureHandler.Approve)
	restructures.Post("/:id/implement", restructureHandler.Implement)

	protected.Post("/foreclosures/:id/settle", paymentHandler.SettleForeclosure)

	admin := protected.Group("/admin", middleware.OfficerOrAdmin())
	admin.Get("/dashboard", dashboardHandler.GetPortfolio)
	admin.Post("/overdue/sweep", middleware.AdminOnly(), middleware.StrictRateLimiter(), overdueHandler.Sweep)
}

// setupLoanRoutes configures /loans routes
func setupLoanRoutes(
	router fiber.Router,
	loanHandler *handlers.LoanHandler,
	paymentHandler *handlers.PaymentHandler,
	restructureHandler *handlers.RestructureHandler,
	overdueHandler *handlers.OverdueHandler,
) {
	loans := router.Group("/loans")

	loans.Post("/", loanHandler.Apply)
	loans.Get("/", loanHandler.List)
	loans.Get("/:id", loanHandler.Get)
	loans.Get("/:id/schedule", loanHandler.Schedule)

	// Officer decisions
	officer := middleware.OfficerOrAdmin()
	loans.Post("/:id/review", officer, loanHandler.Review)
	loans.Post("/:id/approve", officer, loanHandler.Approve)
	loans.Post("/:id/reject", officer, loanHandler.Reject)
	loans.Post("/:id/disburse", officer, loanHandler.Disburse)

	loans.Post("/:id/repayments", paymentHandler.Repay)
	loans.Get("/:id/repayments", paymentHandler.ListRepayments)
	loans.Post("/:id/prepayments", paymentHandler.Prepay)
	loans.Get("/:id/prepayments", paymentHandler.ListPrepayments)

	loans.Post("/:id/restructures", restructureHandler.Request)
	loans.Get("/:id/restructures", restructureHandler.List)

	loans.Post("/:id/foreclosure-quote", paymentHandler.ForeclosureQuote)
	loans.Get("/:id/foreclosures", paymentHandler.ListForeclosures)

	loans.Get("/:id/overdue", overdueHandler.ListByLoan)
}
