package routes

import (
	"loanhub/internal/adapters/ledger"
	"loanhub/internal/adapters/persistence/repositories"
	"loanhub/internal/adapters/rewards"
	"loanhub/internal/config"
	"loanhub/internal/core/services"

	"gorm.io/gorm"
)

// NewServices wires repositories, the ledger and rewards adapters and every
// engine service over one connection. All per-loan services share a single
// LoanLocker.
func NewServices(db *gorm.DB, policy config.LoanConfig, clock services.Clock, ids services.IDGenerator) *Services {
	repos := repositories.New(db)
	locker := services.NewLoanLocker()
	accounts := ledger.NewGormLedger(db)
	journal := rewards.NewGormRewards(db)

	overdue := services.NewOverdueService(repos, policy)

	return &Services{
		DB:           db,
		LoanTypes:    repos.LoanTypes,
		Loans:        services.NewLoanService(repos, locker, accounts, ids, clock),
		Repayments:   services.NewRepaymentService(repos, locker, accounts, journal, ids, clock, policy),
		Prepayments:  services.NewPrepaymentService(repos, locker, accounts, journal, journal, ids, clock, policy),
		Restructures: services.NewRestructureService(repos, locker, journal, ids, clock, policy),
		Foreclosures: services.NewForeclosureService(repos, locker, accounts, journal, journal, ids, clock, policy),
		Overdue:      overdue,
		Cron:         services.NewCronService(overdue, repos.JobLocks, clock, policy),
		Dashboard:    services.NewDashboardService(db, repos.Overdue, clock),
	}
}
