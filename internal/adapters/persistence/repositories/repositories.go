package repositories

import "gorm.io/gorm"

// Repositories bundles every repository over one connection
type Repositories struct {
	UnitOfWork   *UnitOfWork
	LoanTypes    *LoanTypeRepository
	Accounts     *AccountRepository
	Loans        *LoanRepository
	Schedules    *ScheduleRepository
	Repayments   *RepaymentRepository
	Prepayments  *PrepaymentRepository
	Restructures *RestructureRepository
	Foreclosures *ForeclosureRepository
	Overdue      *OverdueTrackingRepository
	JobLocks     *JobLockRepository
}

// New creates all repositories
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		UnitOfWork:   NewUnitOfWork(db),
		LoanTypes:    NewLoanTypeRepository(db),
		Accounts:     NewAccountRepository(db),
		Loans:        NewLoanRepository(db),
		Schedules:    NewScheduleRepository(db),
		Repayments:   NewRepaymentRepository(db),
		Prepayments:  NewPrepaymentRepository(db),
		Restructures: NewRestructureRepository(db),
		Foreclosures: NewForeclosureRepository(db),
		Overdue:      NewOverdueTrackingRepository(db),
		JobLocks:     NewJobLockRepository(db),
	}
}
